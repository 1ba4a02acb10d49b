package handler

import (
	"context"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
)

type TripService interface {
	Submit(ctx context.Context, c models.Candidate) (models.TripCommit, error)
	Latest(ctx context.Context) (*models.TripEntry, error)
	List(ctx context.Context, w *models.Window) ([]models.TripEntry, error)
	Totals(ctx context.Context, w models.Window) (models.Totals, error)
	MirrorState(ctx context.Context) models.MirrorState
}

type AuthService interface {
	Login(ctx context.Context, name, pin string) (models.AccessToken, error)
}

type MirrorTableReader interface {
	FetchTable(ctx context.Context) (models.MirrorTable, error)
}

type ReportService interface {
	TotalsPDF(ctx context.Context, w models.Window) ([]byte, error)
}

type Suggester interface {
	Suggest(ctx context.Context, miles float64) string
}

type Pinger interface {
	Ping(ctx context.Context) error
}
