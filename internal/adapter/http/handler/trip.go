package handler

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/miletracker/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/internal/service/trip"
	"github.com/Temutjin2k/miletracker/pkg/hasher"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/validator"
)

type Trip struct {
	trips   TripService
	drivers []string
	loc     *time.Location
	now     func() time.Time
	l       logger.Logger
}

// NewTrip serves the trip log. drivers is the configured pair used for the turn hint;
// loc is the zone that report windows are cut in.
func NewTrip(trips TripService, drivers []string, loc *time.Location, l logger.Logger) *Trip {
	if loc == nil {
		loc = time.Local
	}
	return &Trip{
		trips:   trips,
		drivers: drivers,
		loc:     loc,
		now:     time.Now,
		l:       l,
	}
}

// Submit godoc
// @Summary      Submit an odometer reading
// @Description  Validates the reading against the log and the shared sheet, then closes the previous trip and opens a new one
// @Tags         trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.SubmitTripRequest  true  "Odometer reading"
// @Success      201      {object}  models.TripCommit
// @Failure      401      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Failure      500      {object}  map[string]string
// @Router       /trips [post]
func (h *Trip) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionTripSubmit)

	req := &dto.SubmitTripRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateSubmitTrip(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	commit, err := h.trips.Submit(ctx, req.ToModel(wrap.GetDriver(ctx)))
	if err != nil {
		if !types.IsRejection(err) {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to submit trip", err)
		}
		domainErrorResponse(w, err)
		return
	}

	response := envelope{"trip": dto.NewTripResponse(commit.Entry)}
	if commit.Closed != nil {
		response["closed"] = dto.NewTripResponse(*commit.Closed)
	}

	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// List godoc
// @Summary      Trip log
// @Description  Chained entries, newest first. from/to limit the start date (inclusive).
// @Tags         trips
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "YYYY-MM-DD"
// @Param        to    query     string  false  "YYYY-MM-DD"
// @Success      200   {object}  map[string]any
// @Success      304
// @Failure      422   {object}  map[string]any
// @Router       /trips [get]
func (h *Trip) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_trips")

	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")

	var window *models.Window
	if from != "" || to != "" {
		win, ok := h.window(w, from, to)
		if !ok {
			return
		}
		window = &win
	}

	entries, err := h.trips.List(ctx, window)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list trips", err)
		domainErrorResponse(w, err)
		return
	}

	trips := dto.NewTripResponses(entries)
	etag, err := hasher.ETag(trips)
	if err == nil {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	response := envelope{"trips": trips, "count": len(trips)}
	if window != nil {
		response["window"] = window
	}

	headers := http.Header{}
	if etag != "" {
		headers.Set("ETag", etag)
	}
	if err := writeJSON(w, http.StatusOK, response, headers); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Latest godoc
// @Summary      Latest state
// @Description  Latest local entry, the shared sheet state and whose turn it is
// @Tags         trips
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.LatestResponse
// @Failure      500  {object}  map[string]string
// @Router       /trips/latest [get]
func (h *Trip) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "latest_trip")

	latest, err := h.trips.Latest(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read latest trip", err)
		domainErrorResponse(w, err)
		return
	}
	mirror := h.trips.MirrorState(ctx)

	resp := dto.LatestResponse{Mirror: mirror, AsOf: h.now().UTC()}

	lastDriver := ""
	if latest != nil {
		tr := dto.NewTripResponse(*latest)
		resp.Latest = &tr
		lastDriver = latest.DriverName
	}
	// the sheet is the shared view, so it decides the turn when it has a row
	if snap, ok := mirror.Present(); ok {
		lastDriver = snap.DriverName
	}
	resp.NextTurn = trip.NextDriver(lastDriver, h.drivers)

	if err := writeJSON(w, http.StatusOK, envelope{"state": resp}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// window parses from/to, writing a 422 response when they are malformed.
func (h *Trip) window(w http.ResponseWriter, from, to string) (models.Window, bool) {
	v := validator.New()
	dto.ValidateWindow(v, from, to)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return models.Window{}, false
	}

	win, err := trip.ParseWindow(from, to, h.now(), h.loc)
	if err != nil {
		failedValidationResponse(w, map[string]string{"window": err.Error()})
		return models.Window{}, false
	}
	return win, true
}
