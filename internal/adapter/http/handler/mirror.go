package handler

import (
	"net/http"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

type Mirror struct {
	trips TripService
	table MirrorTableReader
	l     logger.Logger
}

// NewMirror serves the shared sheet. table is nil when no sheet is configured.
func NewMirror(trips TripService, table MirrorTableReader, l logger.Logger) *Mirror {
	return &Mirror{trips: trips, table: table, l: l}
}

// Latest godoc
// @Summary      Shared sheet state
// @Description  Latest sheet row as seen by validation (absent, present or unavailable)
// @Tags         mirror
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.MirrorState
// @Router       /mirror/latest [get]
func (h *Mirror) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionMirrorFetch)

	if err := writeJSON(w, http.StatusOK, envelope{"mirror": h.trips.MirrorState(ctx)}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Table godoc
// @Summary      Shared sheet table
// @Description  Raw header and rows of the shared sheet
// @Tags         mirror
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.MirrorTable
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /mirror/table [get]
func (h *Mirror) Table(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionMirrorFetch)

	if h.table == nil {
		errorResponse(w, http.StatusNotFound, "no shared sheet configured")
		return
	}

	table, err := h.table.FetchTable(ctx)
	if err != nil {
		h.l.Warn(ctx, "failed to fetch sheet table", "error", err.Error())
		errorResponse(w, http.StatusBadGateway, types.ErrMirrorUnavailable.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"table": table}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
