package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/rabbit"
)

type fakeBroker struct {
	fails    int
	err      error
	calls    int
	exchange string
	key      string
	body     []byte
}

func (f *fakeBroker) Publish(_ context.Context, exchange, key string, body []byte) error {
	f.calls++
	if f.calls <= f.fails {
		return f.err
	}
	f.exchange, f.key, f.body = exchange, key, body
	return nil
}

func init() {
	retryDelay = time.Millisecond
}

func event() models.TripEvent {
	return models.TripEvent{
		Type:       types.EventTripCommitted,
		TripID:     "t1",
		DriverName: "Mary Ann",
		Odometer:   1234,
		StartTime:  time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestPublishTripCommitted(t *testing.T) {
	b := &fakeBroker{}
	p := NewTripPublisher(b, "trip_topic")

	require.NoError(t, p.PublishTripCommitted(context.Background(), event()))
	assert.Equal(t, "trip_topic", b.exchange)
	assert.Equal(t, "trip.committed.mary-ann", b.key)

	var got models.TripEvent
	require.NoError(t, json.Unmarshal(b.body, &got))
	assert.Equal(t, "t1", got.TripID)
}

func TestPublishTripCommitted_RetriesTransientErrors(t *testing.T) {
	b := &fakeBroker{fails: 2, err: errors.New("channel closed")}
	p := NewTripPublisher(b, "trip_topic")

	require.NoError(t, p.PublishTripCommitted(context.Background(), event()))
	assert.Equal(t, 3, b.calls)
}

func TestPublishTripCommitted_ClosedClientNotRetried(t *testing.T) {
	b := &fakeBroker{fails: 10, err: rabbit.ErrClosed}
	p := NewTripPublisher(b, "trip_topic")

	err := p.PublishTripCommitted(context.Background(), event())
	require.ErrorIs(t, err, rabbit.ErrClosed)
	assert.Equal(t, 1, b.calls)
}

func TestRoutingKey_UnknownDriver(t *testing.T) {
	ev := event()
	ev.DriverName = "  "
	assert.Equal(t, "trip.committed.unknown", RoutingKey(ev))
}
