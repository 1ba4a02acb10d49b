package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Temutjin2k/miletracker/internal/app"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/internal/service/report"
	"github.com/Temutjin2k/miletracker/internal/service/trip"
)

type reportOptions struct {
	from     string
	to       string
	out      string
	timezone string
}

func NewReportCommand(opts *RootOptions) *cobra.Command {
	ro := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Miles per driver for a date window",
		Long: `Prints the mileage totals of every closed trip that started in the window.
Without --from/--to the current half-month is used. --out writes a PDF instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, ro)
		},
	}

	cmd.Flags().StringVar(&ro.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&ro.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&ro.out, "out", "", "write a PDF report to this path")
	cmd.Flags().StringVar(&ro.timezone, "tz", "Local", "time zone the window is cut in")

	return cmd
}

func runReport(cmd *cobra.Command, opts *RootOptions, ro *reportOptions) error {
	ctx := cmd.Context()

	loc := time.Local
	if ro.timezone != "" && ro.timezone != "Local" {
		var err error
		if loc, err = time.LoadLocation(ro.timezone); err != nil {
			return fmt.Errorf("time zone: %w", err)
		}
	}

	win, err := trip.ParseWindow(ro.from, ro.to, time.Now(), loc)
	if err != nil {
		return err
	}

	cfg, log, err := opts.load(cmd.ErrOrStderr(), "WARN")
	if err != nil {
		return err
	}

	core, err := app.NewCore(ctx, *cfg, log)
	if err != nil {
		return err
	}
	defer core.Close(ctx)

	if ro.out != "" {
		b, err := core.Reports().TotalsPDF(ctx, win)
		if err != nil {
			return err
		}
		if err := os.WriteFile(ro.out, b, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", ro.out, report.Filename(win))
		return nil
	}

	totals, err := core.Trips().Totals(ctx, win)
	if err != nil {
		return err
	}

	return opts.print(cmd.OutOrStdout(), totals, func(w io.Writer) {
		fmt.Fprintf(w, "%s to %s\n", win.From.Format("2006-01-02"), win.To.Format("2006-01-02"))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DRIVER\tMILES\tTRIPS")
		for _, d := range totals.Drivers {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", d.DriverName, types.FormatMiles(d.Miles), d.Trips)
		}
		fmt.Fprintf(tw, "TOTAL\t%s\t%d\n", types.FormatMiles(totals.Miles), totals.Entries)
		_ = tw.Flush()
	})
}
