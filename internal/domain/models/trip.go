package models

import (
	"time"
)

// DefaultNote is stored when a driver submits a reading without a note.
const DefaultNote = "No notes provided"

// TripEntry is one logged reading. An entry is open until the next reading closes it.
type TripEntry struct {
	ID            string     `json:"id"`
	DriverName    string     `json:"driver_name"`
	StartOdometer float64    `json:"start_odometer"`
	EndOdometer   *float64   `json:"end_odometer,omitempty"`
	Note          string     `json:"note"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
}

// IsOpen reports whether the entry still waits for the next reading.
func (e TripEntry) IsOpen() bool {
	return e.EndOdometer == nil
}

// Distance is end minus start for a closed entry and 0 for an open one.
func (e TripEntry) Distance() float64 {
	if e.EndOdometer == nil {
		return 0
	}
	return *e.EndOdometer - e.StartOdometer
}

// Candidate is a submission that has not been validated yet.
// Odometer keeps the raw text so that validation owns the parsing.
type Candidate struct {
	Driver   string
	Odometer string
	Note     string
}

// TripCommit is the result of an accepted submission.
type TripCommit struct {
	Entry  TripEntry  `json:"entry"`
	Closed *TripEntry `json:"closed,omitempty"`
}

// DriverTotal is the distance a driver covered inside a window.
type DriverTotal struct {
	DriverName string  `json:"driver_name"`
	Miles      float64 `json:"miles"`
	Trips      int     `json:"trips"`
}

// Window is an inclusive time range on StartTime.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// Totals groups the per-driver sums of a window.
type Totals struct {
	Window  Window        `json:"window"`
	Drivers []DriverTotal `json:"drivers"`
	Miles   float64       `json:"miles"`
	Entries int           `json:"entries"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }
