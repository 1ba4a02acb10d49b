package models

import "github.com/Temutjin2k/miletracker/internal/domain/types"

// MirrorSnapshot is the latest row of the shared spreadsheet.
type MirrorSnapshot struct {
	DriverName    string  `json:"driver_name"`
	Odometer      float64 `json:"odometer"`
	OdometerKnown bool    `json:"odometer_known"`
	RawOdometer   string  `json:"raw_odometer"`
}

// MirrorState carries the outcome of a mirror fetch into validation.
// Rules that depend on the mirror only apply when Status is MirrorPresent.
type MirrorState struct {
	Status   types.MirrorStatus `json:"status"`
	Snapshot *MirrorSnapshot    `json:"snapshot,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

func MirrorAbsent() MirrorState {
	return MirrorState{Status: types.MirrorAbsent}
}

func MirrorPresent(s MirrorSnapshot) MirrorState {
	return MirrorState{Status: types.MirrorPresent, Snapshot: &s}
}

func MirrorUnavailable(reason string) MirrorState {
	return MirrorState{Status: types.MirrorUnavailable, Reason: reason}
}

// Present returns the snapshot when there is one.
func (m MirrorState) Present() (MirrorSnapshot, bool) {
	if m.Status != types.MirrorPresent || m.Snapshot == nil {
		return MirrorSnapshot{}, false
	}
	return *m.Snapshot, true
}

// MirrorTable is the raw spreadsheet content.
type MirrorTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
