package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HTTP struct {
		Port string `env:"HTTP_PORT" default:"8080"`
	}
	Mirror struct {
		SheetID string        `env:"MIRROR_SHEET_ID"`
		Timeout time.Duration `env:"MIRROR_TIMEOUT" default:"5s"`
		Enabled bool          `env:"MIRROR_ENABLED" default:"true"`
	}
	Relay struct {
		MinDelay time.Duration `env:"RELAY_MIN_DELAY" default:"600ms"`
		Retries  int           `env:"RELAY_RETRIES" default:"0"`
	}
	Auth struct {
		Drivers []string `env:"AUTH_DRIVERS" default:"Srikanth:2223,Rahul:2113"`
	}
	Ratio float64 `env:"TEST_RATIO" default:"0.5"`
}

func writeYaml(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv unsets keys for the duration of the test. t.Setenv registers the restore.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadAndParseYaml_DefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t, "HTTP_PORT", "MIRROR_SHEET_ID", "MIRROR_TIMEOUT", "MIRROR_ENABLED",
		"RELAY_MIN_DELAY", "RELAY_RETRIES", "AUTH_DRIVERS", "TEST_RATIO")

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.Mirror.Timeout)
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, 600*time.Millisecond, cfg.Relay.MinDelay)
	assert.Equal(t, []string{"Srikanth:2223", "Rahul:2113"}, cfg.Auth.Drivers)
	assert.InDelta(t, 0.5, cfg.Ratio, 1e-9)
}

func TestLoadAndParseYaml_FileValuesAndEnvPrecedence(t *testing.T) {
	clearEnv(t, "HTTP_PORT", "MIRROR_SHEET_ID", "MIRROR_TIMEOUT", "MIRROR_ENABLED",
		"RELAY_MIN_DELAY", "RELAY_RETRIES", "AUTH_DRIVERS", "SHEET_FROM_ENV")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("SHEET_FROM_ENV", "abc123")

	path := writeYaml(t, `
http:
  port: 3000
mirror:
  sheet_id: ${SHEET_FROM_ENV:-fallback}
  timeout: 2s
  enabled: false
relay:
  retries: 2
auth:
  drivers:
    - Ann:1
    - Bob:2
`)

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(path, &cfg))

	assert.Equal(t, "9999", cfg.HTTP.Port, "environment wins over file")
	assert.Equal(t, "abc123", cfg.Mirror.SheetID)
	assert.Equal(t, 2*time.Second, cfg.Mirror.Timeout)
	assert.False(t, cfg.Mirror.Enabled)
	assert.Equal(t, 2, cfg.Relay.Retries)
	assert.Equal(t, []string{"Ann:1", "Bob:2"}, cfg.Auth.Drivers)
}

func TestExpand_DefaultUsedWhenUnset(t *testing.T) {
	clearEnv(t, "NOT_SET_ANYWHERE")
	assert.Equal(t, "dflt", expand("${NOT_SET_ANYWHERE:-dflt}"))
	assert.Equal(t, "plain", expand("plain"))
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("RELAY_RETRIES", "many")

	var cfg testConfig
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RELAY_RETRIES")
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)
}

func TestLoadYamlFile_Malformed(t *testing.T) {
	path := writeYaml(t, "http: [unclosed")
	assert.Error(t, LoadYamlFile(path))
}
