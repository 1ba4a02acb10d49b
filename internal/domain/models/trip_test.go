package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTripEntry_Distance(t *testing.T) {
	open := TripEntry{StartOdometer: 1000}
	assert.True(t, open.IsOpen())
	assert.Zero(t, open.Distance())

	closed := TripEntry{StartOdometer: 1000, EndOdometer: Float(1250.5)}
	assert.False(t, closed.IsOpen())
	assert.InDelta(t, 250.5, closed.Distance(), 1e-9)
	assert.Equal(t, closed.Distance(), closed.Distance())
}

func TestWindow_ContainsBounds(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	w := Window{From: from, To: to}

	assert.True(t, w.Contains(from))
	assert.True(t, w.Contains(to))
	assert.False(t, w.Contains(to.Add(time.Millisecond)))
	assert.False(t, w.Contains(from.Add(-time.Millisecond)))
}

func TestMirrorState_Present(t *testing.T) {
	_, ok := MirrorAbsent().Present()
	assert.False(t, ok)

	_, ok = MirrorUnavailable("timeout").Present()
	assert.False(t, ok)

	s, ok := MirrorPresent(MirrorSnapshot{DriverName: "Rahul", Odometer: 10, OdometerKnown: true}).Present()
	assert.True(t, ok)
	assert.Equal(t, "Rahul", s.DriverName)
}

func TestNewTripEvent(t *testing.T) {
	at := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	c := TripCommit{
		Entry:  TripEntry{ID: "b", DriverName: "Rahul", StartOdometer: 1300, StartTime: at},
		Closed: &TripEntry{ID: "a", DriverName: "Srikanth", StartOdometer: 1000, EndOdometer: Float(1300)},
	}
	ev := NewTripEvent(c, "req-1")

	assert.Equal(t, "b", ev.TripID)
	assert.Equal(t, "req-1", ev.RequestID)
	if assert.NotNil(t, ev.Closed) {
		assert.InDelta(t, 300, ev.Closed.Distance, 1e-9)
	}
}
