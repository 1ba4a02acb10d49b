package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

type Health struct {
	serviceName string
	store       Pinger
	backend     string
	log         logger.Logger
}

func NewHealth(serviceName, backend string, store Pinger, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		store:       store,
		backend:     backend,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service and its record store
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	status, code, storeStatus := "available", http.StatusOK, "ok"
	if a.store != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := a.store.Ping(pctx); err != nil {
			a.log.Warn(ctx, "record store ping failed", "error", err.Error())
			status, code, storeStatus = "degraded", http.StatusServiceUnavailable, "unreachable"
		}
	}

	response := envelope{
		"status": status,
		"system_info": map[string]string{
			"service-name": a.serviceName,
			"store":        a.backend,
			"store-status": storeStatus,
		},
	}

	if err := writeJSON(w, code, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
