package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/miletracker/config"
	"github.com/Temutjin2k/miletracker/pkg/logger"
)

// RootOptions holds the flags shared by every command.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Format     string // "text" | "json"
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "miletracker",
		Short: "Shared vehicle odometer log",
		Long: `MileTracker keeps a chained log of odometer readings for a car shared by two drivers.
Each accepted reading closes the previous trip and is checked against the shared sheet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.LogLevel != "" && !logger.ValidateLogLevel(opts.LogLevel) {
				return fmt.Errorf("invalid log level %q", opts.LogLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to the config yaml file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (DEBUG|INFO|WARN|ERROR)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewHashPINCommand(opts))

	return cmd
}

// load reads the config and builds a logger writing to w.
func (o *RootOptions) load(w io.Writer, defaultLevel string) (*config.Config, logger.Logger, error) {
	cfg, err := config.NewConfig(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	level := defaultLevel
	if level == "" {
		level = cfg.Log.Level
	}
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	return cfg, logger.New(w, "miletracker", level), nil
}

func (o *RootOptions) print(w io.Writer, v any, text func(io.Writer)) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
