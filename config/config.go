package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/miletracker/pkg/configparser"
	"github.com/Temutjin2k/miletracker/pkg/postgres"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var (
	ErrUnknownBackend  = errors.New("unknown storage backend")
	ErrNoDrivers       = errors.New("no drivers configured")
	ErrMalformedDriver = errors.New("driver entry must look like Name:PIN")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		HTTP       HTTPConfig
		Log        LogConfig
		Storage    StorageConfig
		Database   DatabaseConfig
		RabbitMQ   RabbitMQConfig
		Mirror     MirrorConfig
		Relay      RelayConfig
		Suggestion SuggestionConfig
		Auth       Auth
		Trip       TripConfig
	}

	HTTPConfig struct {
		Port            string        `env:"HTTP_PORT" default:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" default:"10s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}

	StorageConfig struct {
		Backend    string `env:"STORAGE_BACKEND" default:"sqlite"`
		SQLitePath string `env:"STORAGE_SQLITE_PATH" default:"miletracker.db"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"miletracker"`
		Password string `env:"DATABASE_PASSWORD" default:"miletracker"`
		Database string `env:"DATABASE_DATABASE" default:"miletracker"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"10"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"1"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
		Exchange string `env:"RABBITMQ_EXCHANGE" default:"trip_topic"`
	}

	// MirrorConfig points at the shared spreadsheet. URL wins over SheetID when both are set.
	MirrorConfig struct {
		SheetID string        `env:"MIRROR_SHEET_ID"`
		URL     string        `env:"MIRROR_URL"`
		Timeout time.Duration `env:"MIRROR_TIMEOUT" default:"5s"`
	}

	RelayConfig struct {
		FormURL        string        `env:"RELAY_FORM_URL"`
		DriverField    string        `env:"RELAY_DRIVER_FIELD" default:"entry.765257113"`
		OdometerField  string        `env:"RELAY_ODOMETER_FIELD" default:"entry.1493291277"`
		TimestampField string        `env:"RELAY_TIMESTAMP_FIELD" default:"entry.656566019"`
		TimeZone       string        `env:"RELAY_TIMEZONE" default:"Local"`
		Timeout        time.Duration `env:"RELAY_TIMEOUT" default:"5s"`
		MinDelay       time.Duration `env:"RELAY_MIN_DELAY" default:"600ms"`
	}

	SuggestionConfig struct {
		APIKey  string        `env:"SUGGESTION_API_KEY"`
		Model   string        `env:"SUGGESTION_MODEL" default:"gemini-2.5-flash"`
		Timeout time.Duration `env:"SUGGESTION_TIMEOUT" default:"10s"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"12h"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
		Drivers        []string      `env:"AUTH_DRIVERS" default:"Srikanth:2223,Rahul:2113"`
	}

	TripConfig struct {
		DefaultNote string `env:"TRIP_DEFAULT_NOTE" default:"No notes provided"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) GetPoolSettings() postgres.PoolSettings {
	return postgres.PoolSettings{
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
	}
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// SheetURL returns the CSV export address of the mirror, or "" when no mirror is configured.
func (c MirrorConfig) SheetURL() string {
	if c.URL != "" {
		return c.URL
	}
	if c.SheetID == "" {
		return ""
	}
	return "https://docs.google.com/spreadsheets/d/" + c.SheetID + "/gviz/tq?tqx=out:csv"
}

// Location resolves the relay time zone. "Local" and "" mean the process zone.
func (c RelayConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

// DriverPIN is one configured driver credential.
type DriverPIN struct {
	Name string
	PIN  string
}

// DriverPINs parses Auth.Drivers entries of the form Name:PIN.
func (a Auth) DriverPINs() ([]DriverPIN, error) {
	if len(a.Drivers) == 0 {
		return nil, ErrNoDrivers
	}
	out := make([]DriverPIN, 0, len(a.Drivers))
	for _, entry := range a.Drivers {
		name, pin, ok := strings.Cut(entry, ":")
		name, pin = strings.TrimSpace(name), strings.TrimSpace(pin)
		if !ok || name == "" || pin == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedDriver, entry)
		}
		out = append(out, DriverPIN{Name: name, PIN: pin})
	}
	return out, nil
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}
	if _, err := c.Auth.DriverPINs(); err != nil {
		return err
	}
	if _, err := c.Relay.Location(); err != nil {
		return fmt.Errorf("relay timezone: %w", err)
	}
	return nil
}
