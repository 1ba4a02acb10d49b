package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

type Report struct {
	trip    *Trip
	reports ReportService
	l       logger.Logger
}

// NewReport shares the window handling of t.
func NewReport(t *Trip, reports ReportService, l logger.Logger) *Report {
	return &Report{trip: t, reports: reports, l: l}
}

// Totals godoc
// @Summary      Mileage totals
// @Description  Miles per driver for a window. Without from/to the current half-month is used.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "YYYY-MM-DD"
// @Param        to    query     string  false  "YYYY-MM-DD"
// @Success      200   {object}  models.Totals
// @Failure      422   {object}  map[string]any
// @Router       /reports/totals [get]
func (h *Report) Totals(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "report_totals")

	win, ok := h.trip.window(w, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if !ok {
		return
	}

	totals, err := h.trip.trips.Totals(ctx, win)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to compute totals", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"totals": totals}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// TotalsPDF godoc
// @Summary      Mileage totals as PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        from  query     string  false  "YYYY-MM-DD"
// @Param        to    query     string  false  "YYYY-MM-DD"
// @Success      200   {file}    file
// @Failure      422   {object}  map[string]any
// @Router       /reports/totals.pdf [get]
func (h *Report) TotalsPDF(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionReportGenerated)

	win, ok := h.trip.window(w, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if !ok {
		return
	}

	b, err := h.reports.TotalsPDF(ctx, win)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to render totals report", err)
		domainErrorResponse(w, err)
		return
	}

	name := fmt.Sprintf("mileage_%s_%s.pdf", win.From.Format("2006-01-02"), win.To.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		h.l.Warn(ctx, "failed to write report", "error", err.Error())
	}
}
