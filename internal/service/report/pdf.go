package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

const dateLayout = "2006-01-02"

type TotalsProvider interface {
	Totals(ctx context.Context, w models.Window) (models.Totals, error)
}

// Service renders mileage totals as PDF documents.
type Service struct {
	totals TotalsProvider
	now    func() time.Time
	l      logger.Logger
}

func New(totals TotalsProvider, l logger.Logger) *Service {
	return &Service{totals: totals, now: time.Now, l: l}
}

// TotalsPDF computes the totals of w and renders them.
func (s *Service) TotalsPDF(ctx context.Context, w models.Window) ([]byte, error) {
	ctx = wrap.WithAction(ctx, types.ActionReportGenerated)

	t, err := s.totals.Totals(ctx, w)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("report: totals: %w", err))
	}

	b, err := RenderTotals(t, s.now())
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "totals report generated", "drivers", len(t.Drivers), "bytes", len(b))
	return b, nil
}

// Filename is the suggested download name for the report of w.
func Filename(w models.Window) string {
	return fmt.Sprintf("mileage_%s_%s.pdf", w.From.Format(dateLayout), w.To.Format(dateLayout))
}

// RenderTotals lays t out as a one-page A4 table.
func RenderTotals(t models.Totals, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Mileage totals", false)
	pdf.SetCreationDate(generatedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "MILEAGE TOTALS")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Period    : %s to %s", t.Window.From.Format(dateLayout), t.Window.To.Format(dateLayout)))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated : "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, "Driver", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Trips", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, "Miles", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	if len(t.Drivers) == 0 {
		pdf.CellFormat(160, 8, "No trips in this period", "1", 1, "C", false, 0, "")
	}
	for _, d := range t.Drivers {
		pdf.CellFormat(80, 8, d.DriverName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, strconv.Itoa(d.Trips), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 8, types.FormatMiles(d.Miles), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, strconv.Itoa(t.Entries), "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, types.FormatMiles(t.Miles), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
