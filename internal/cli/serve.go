package cli

import (
	"github.com/spf13/cobra"

	"github.com/Temutjin2k/miletracker/config"
	"github.com/Temutjin2k/miletracker/internal/app"
)

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, log, err := opts.load(cmd.OutOrStdout(), "")
			if err != nil {
				config.PrintHelp()
				return err
			}
			config.PrintConfig(ctx, log, cfg)

			application, err := app.NewApplication(ctx, *cfg, log)
			if err != nil {
				log.Error(ctx, "failed to init application", err)
				return err
			}

			if err := application.Run(ctx); err != nil {
				log.Error(ctx, "failed to run application", err)
				return err
			}
			return nil
		},
	}
}
