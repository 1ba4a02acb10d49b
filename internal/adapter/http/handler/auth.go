package handler

import (
	"net/http"

	"github.com/Temutjin2k/miletracker/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/validator"
)

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Login godoc
// @Summary      Driver login
// @Description  Checks the driver PIN and returns an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.LoginRequest  true  "Driver name and PIN"
// @Success      200      {object}  models.AccessToken
// @Failure      401      {object}  map[string]string
// @Failure      422      {object}  map[string]any
// @Router       /auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionLogin)

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	token, err := h.auth.Login(ctx, req.Driver, req.PIN)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{
		"access_token": token.Token,
		"expires_at":   token.ExpiresAt,
		"driver":       token.Driver,
	}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Me godoc
// @Summary      Current driver
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_profile")

	if err := writeJSON(w, http.StatusOK, envelope{"driver": wrap.GetDriver(ctx)}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
