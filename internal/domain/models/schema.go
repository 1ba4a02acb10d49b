package models

import "time"

// SchemaMigration is one schema change recorded by a SQL record store.
type SchemaMigration struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	AppliedAt time.Time `json:"applied_at"`
}
