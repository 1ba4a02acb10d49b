package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/miletracker/config"
	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/pkg/logger"
)

func testConfig(backend string) config.Config {
	return config.Config{
		HTTP:    config.HTTPConfig{Port: "0", ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{Backend: backend},
		Auth: config.Auth{
			AccessTokenTTL: time.Hour,
			JWTSecret:      "test",
			Drivers:        []string{"Srikanth:2223", "Rahul:2113"},
		},
		Relay:      config.RelayConfig{TimeZone: "UTC"},
		Suggestion: config.SuggestionConfig{Model: "gemini-2.5-flash"},
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := OpenStore(context.Background(), testConfig("mongo"), logger.Discard())
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestNewCore_SQLitePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.BackendSQLite)
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "trips.db")

	core, err := NewCore(ctx, cfg, logger.Discard())
	require.NoError(t, err)

	_, err = core.Trips().Submit(ctx, models.Candidate{Driver: "Rahul", Odometer: "1,000"})
	require.NoError(t, err)
	core.Close(ctx)

	core, err = NewCore(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer core.Close(ctx)

	latest, err := core.Trips().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "Rahul", latest.DriverName)
	assert.Equal(t, 1000.0, latest.StartOdometer)
}

func TestNewApplication_Memory(t *testing.T) {
	ctx := context.Background()

	a, err := NewApplication(ctx, testConfig(config.BackendMemory), logger.Discard())
	require.NoError(t, err)
	require.NotNil(t, a.api)
	assert.Nil(t, a.sheet)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- a.Run(runCtx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_NotInitialized(t *testing.T) {
	a := &App{log: logger.Discard()}
	assert.ErrorIs(t, a.Run(context.Background()), ErrServiceNotInitialized)
}
