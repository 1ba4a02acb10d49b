package middleware

import (
	"context"

	"github.com/Temutjin2k/miletracker/pkg/logger"
)

type (
	AuthService interface {
		Authenticate(ctx context.Context, token string) (string, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
