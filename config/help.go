package config

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/miletracker/pkg/logger"
)

const HelpMessage = `
MileTracker - shared vehicle odometer log

Configuration is read from a YAML file (--config, default config.yaml) and
the environment. Environment variables always win over the file.

  STORAGE_BACKEND        memory | sqlite | postgres
  MIRROR_SHEET_ID        spreadsheet id used as the secondary check
  RELAY_FORM_URL         form endpoint receiving every accepted reading
  SUGGESTION_API_KEY     Gemini key for trip notes
  AUTH_DRIVERS           Name:PIN,Name:PIN
`

func PrintHelp() {
	fmt.Printf("%s", HelpMessage)
}

// PrintConfig logs the effective configuration with secrets redacted.
func PrintConfig(ctx context.Context, l logger.Logger, cfg *Config) {
	l.Info(ctx, "configuration loaded",
		"http_port", cfg.HTTP.Port,
		"log_level", cfg.Log.Level,
		"storage_backend", cfg.Storage.Backend,
		"sqlite_path", cfg.Storage.SQLitePath,
		"database", fmt.Sprintf("%s@%s:%s/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database),
		"rabbitmq_enabled", cfg.RabbitMQ.Enabled,
		"mirror_configured", cfg.Mirror.SheetURL() != "",
		"relay_configured", cfg.Relay.FormURL != "",
		"relay_min_delay", cfg.Relay.MinDelay.String(),
		"suggestion_configured", cfg.Suggestion.APIKey != "",
		"suggestion_model", cfg.Suggestion.Model,
		"drivers", len(cfg.Auth.Drivers),
	)
}
