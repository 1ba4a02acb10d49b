package types

// MirrorStatus tags the three states of the mirror snapshot.
type MirrorStatus string

const (
	MirrorAbsent      MirrorStatus = "ABSENT"
	MirrorPresent     MirrorStatus = "PRESENT"
	MirrorUnavailable MirrorStatus = "UNAVAILABLE"
)

// RelayOutcome is only ever logged.
type RelayOutcome string

const (
	RelaySent     RelayOutcome = "SENT"
	RelayFailed   RelayOutcome = "FAILED"
	RelayDisabled RelayOutcome = "DISABLED"
)

// EventType of messages published after a commit.
type EventType string

const (
	EventTripCommitted EventType = "trip.committed"
)
