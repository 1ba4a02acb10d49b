package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
)

// TripStore keeps the trip chain in process memory.
// It is intended for tests, demos and the CLI dry run.
type TripStore struct {
	mu      sync.RWMutex
	entries []models.TripEntry

	// txMu serialises transactions started through Do.
	txMu sync.Mutex
}

func NewTripStore(seed ...models.TripEntry) *TripStore {
	s := &TripStore{}
	s.entries = append(s.entries, seed...)
	return s
}

type txKey struct{}

// Do runs fn as one transaction. Changes made by fn are discarded when it fails.
// Nested calls join the outer transaction.
func (s *TripStore) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

func (s *TripStore) snapshot() []models.TripEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TripEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *TripStore) restore(entries []models.TripEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

// LockChain is satisfied by Do, which already serialises writers.
func (s *TripStore) LockChain(ctx context.Context) error {
	return ctx.Err()
}

func (s *TripStore) Latest(ctx context.Context) (*models.TripEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.TripEntry
	for i := range s.entries {
		e := &s.entries[i]
		if latest == nil || newer(e, latest) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := clone(*latest)
	return &out, nil
}

func newer(a, b *models.TripEntry) bool {
	if !a.StartTime.Equal(b.StartTime) {
		return a.StartTime.After(b.StartTime)
	}
	return a.ID > b.ID
}

func (s *TripStore) List(ctx context.Context) ([]models.TripEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TripEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, clone(e))
	}
	return out, nil
}

func (s *TripStore) Create(ctx context.Context, entry models.TripEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == entry.ID {
			return fmt.Errorf("memory: duplicate trip id %s", entry.ID)
		}
	}
	s.entries = append(s.entries, clone(entry))
	return nil
}

func (s *TripStore) Close(ctx context.Context, id string, endOdometer float64, endTime time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		if !s.entries[i].IsOpen() {
			return types.ErrChainConflict
		}
		s.entries[i].EndOdometer = models.Float(endOdometer)
		s.entries[i].EndTime = models.Time(endTime)
		return nil
	}
	return types.ErrChainConflict
}

func (s *TripStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// clone copies the pointer fields so callers never share state with the store.
func clone(e models.TripEntry) models.TripEntry {
	if e.EndOdometer != nil {
		e.EndOdometer = models.Float(*e.EndOdometer)
	}
	if e.EndTime != nil {
		e.EndTime = models.Time(*e.EndTime)
	}
	return e
}
