package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/miletracker/internal/app"
	"github.com/Temutjin2k/miletracker/internal/domain/models"
)

type migrateResult struct {
	Backend    string                   `json:"backend"`
	Status     string                   `json:"status"`
	Migrations []models.SchemaMigration `json:"migrations"`
}

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the record store schema",
		Long: `Connects to the configured storage backend, applies pending migrations and
lists every applied one. serve does the same on startup; migrate is for running it ahead of a deploy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, log, err := opts.load(cmd.ErrOrStderr(), "WARN")
			if err != nil {
				return err
			}

			store, err := app.OpenStore(ctx, *cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			applied, err := store.Migrations(ctx)
			if err != nil {
				return fmt.Errorf("list migrations: %w", err)
			}
			if applied == nil {
				applied = []models.SchemaMigration{}
			}

			res := migrateResult{Backend: store.Backend, Status: "up to date", Migrations: applied}
			return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "%s schema is up to date\n", store.Backend)
				if len(applied) == 0 {
					return
				}
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED")
				for _, m := range applied {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", m.Version, m.Name, m.AppliedAt.Format(time.RFC3339))
				}
				_ = tw.Flush()
			})
		},
	}
}
