package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/miletracker/internal/app"
	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

type submitOptions struct {
	driver   string
	odometer string
	note     string
}

func NewSubmitCommand(opts *RootOptions) *cobra.Command {
	so := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an odometer reading",
		Long: `Runs the same checks as POST /trips: the driver must differ from the last one
and the reading must not go below the latest local and sheet readings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts, so)
		},
	}

	cmd.Flags().StringVarP(&so.driver, "driver", "d", "", "driver name (required)")
	cmd.Flags().StringVarP(&so.odometer, "odometer", "o", "", "odometer reading, e.g. 12,345 (required)")
	cmd.Flags().StringVarP(&so.note, "note", "n", "", "trip note")
	_ = cmd.MarkFlagRequired("driver")
	_ = cmd.MarkFlagRequired("odometer")

	return cmd
}

func runSubmit(cmd *cobra.Command, opts *RootOptions, so *submitOptions) error {
	ctx := cmd.Context()

	cfg, log, err := opts.load(cmd.ErrOrStderr(), "WARN")
	if err != nil {
		return err
	}

	pins, err := cfg.Auth.DriverPINs()
	if err != nil {
		return err
	}
	driver, ok := knownDriver(pins, so.driver)
	if !ok {
		return fmt.Errorf("unknown driver %q", so.driver)
	}

	core, err := app.NewCore(ctx, *cfg, log)
	if err != nil {
		return err
	}
	defer core.Close(ctx)

	commit, err := core.Trips().Submit(ctx, models.Candidate{Driver: driver, Odometer: so.odometer, Note: so.note})
	if err != nil {
		return err
	}

	return opts.print(cmd.OutOrStdout(), commit, func(w io.Writer) {
		fmt.Fprintf(w, "accepted: %s at %s miles (trip %s)\n",
			commit.Entry.DriverName, types.FormatMiles(commit.Entry.StartOdometer), commit.Entry.ID)
		if c := commit.Closed; c != nil {
			fmt.Fprintf(w, "closed %s's trip: %s miles\n", c.DriverName, types.FormatMiles(c.Distance()))
		}
	})
}
