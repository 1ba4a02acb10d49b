package trip

import (
	"context"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
)

/*=================Trip Repository======================*/

// TripRepo is the record store. Implementations do not enforce chain invariants;
// the service does, inside a TxManager transaction.
type TripRepo interface {
	// Latest returns the entry with the greatest StartTime (ties: greatest ID), or nil when empty.
	Latest(ctx context.Context) (*models.TripEntry, error)
	// List returns every entry in no particular order.
	List(ctx context.Context) ([]models.TripEntry, error)
	Create(ctx context.Context, entry models.TripEntry) error
	// Close sets the end values of an open entry. Closing an entry that is
	// already closed or missing returns types.ErrChainConflict.
	Close(ctx context.Context, id string, endOdometer float64, endTime time.Time) error
	// LockChain serialises chain writers for the rest of the transaction.
	LockChain(ctx context.Context) error
}

/*=================External Mirror======================*/

type MirrorReader interface {
	// Latest returns the last spreadsheet row. found is false when the sheet has no data rows.
	Latest(ctx context.Context) (snap models.MirrorSnapshot, found bool, err error)
}

/*=================Outbound Relay======================*/

type Relay interface {
	Submit(ctx context.Context, driver string, odometer float64, at time.Time) error
}

/*=================Post-commit notifications======================*/

type Publisher interface {
	PublishTripCommitted(ctx context.Context, ev models.TripEvent) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, msg models.WebSocketMessage)
}
