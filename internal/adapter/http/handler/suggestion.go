package handler

import (
	"net/http"

	"github.com/Temutjin2k/miletracker/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/validator"
)

type Suggestion struct {
	suggester Suggester
	l         logger.Logger
}

func NewSuggestion(s Suggester, l logger.Logger) *Suggestion {
	return &Suggestion{suggester: s, l: l}
}

// Create godoc
// @Summary      Drive note suggestion
// @Description  A short generated note for a trip. Never fails; falls back to fixed text.
// @Tags         suggestions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.SuggestionRequest  true  "Trip miles"
// @Success      200      {object}  models.Suggestion
// @Failure      422      {object}  map[string]any
// @Router       /suggestions [post]
func (h *Suggestion) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionSuggestion)

	req := &dto.SuggestionRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateSuggestion(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	s := models.Suggestion{Miles: req.Miles, Text: h.suggester.Suggest(ctx, req.Miles)}
	if err := writeJSON(w, http.StatusOK, envelope{"suggestion": s}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
