package models

import (
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

// TripEvent is published to the broker and the websocket feed after a commit.
type TripEvent struct {
	Type       types.EventType `json:"type"`
	TripID     string          `json:"trip_id"`
	DriverName string          `json:"driver_name"`
	Odometer   float64         `json:"odometer"`
	StartTime  time.Time       `json:"start_time"`
	Closed     *ClosedTrip     `json:"closed,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
}

// ClosedTrip summarises the entry closed by the commit.
type ClosedTrip struct {
	TripID     string  `json:"trip_id"`
	DriverName string  `json:"driver_name"`
	Distance   float64 `json:"distance"`
}

// NewTripEvent builds the event for c.
func NewTripEvent(c TripCommit, requestID string) TripEvent {
	ev := TripEvent{
		Type:       types.EventTripCommitted,
		TripID:     c.Entry.ID,
		DriverName: c.Entry.DriverName,
		Odometer:   c.Entry.StartOdometer,
		StartTime:  c.Entry.StartTime,
		RequestID:  requestID,
	}
	if c.Closed != nil {
		ev.Closed = &ClosedTrip{
			TripID:     c.Closed.ID,
			DriverName: c.Closed.DriverName,
			Distance:   c.Closed.Distance(),
		}
	}
	return ev
}
