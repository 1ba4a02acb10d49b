package trip

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Temutjin2k/miletracker/internal/adapter/memory"
	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ── Fakes ──

type fakeMirror struct {
	snap  models.MirrorSnapshot
	found bool
	err   error
}

func (f *fakeMirror) Latest(context.Context) (models.MirrorSnapshot, bool, error) {
	return f.snap, f.found, f.err
}

type fakeRelay struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeRelay) Submit(_ context.Context, driver string, _ float64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, driver)
	return f.err
}

func (f *fakeRelay) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.TripEvent
}

func (f *fakePublisher) PublishTripCommitted(_ context.Context, ev models.TripEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

type fakeBroadcaster struct {
	n atomic.Int32
}

func (f *fakeBroadcaster) Broadcast(context.Context, models.WebSocketMessage) { f.n.Add(1) }

// failingRepo wraps a store and injects errors into writes.
type failingRepo struct {
	*memory.TripStore
	closeErr  error
	createErr error
}

func (r *failingRepo) Close(ctx context.Context, id string, odo float64, at time.Time) error {
	if r.closeErr != nil {
		return r.closeErr
	}
	return r.TripStore.Close(ctx, id, odo, at)
}

func (r *failingRepo) Create(ctx context.Context, e models.TripEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.TripStore.Create(ctx, e)
}

// ── Helpers ──

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestService(t *testing.T, store *memory.TripStore, mirror MirrorReader, relay Relay, opts ...Option) *Service {
	t.Helper()
	c := &clock{now: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithMinDelay(0), WithClock(c.Now)}, opts...)
	return New(store, store, mirror, relay, logger.Discard(), opts...)
}

func submit(t *testing.T, s *Service, driver, odo string) (models.TripCommit, error) {
	t.Helper()
	return s.Submit(context.Background(), models.Candidate{Driver: driver, Odometer: odo})
}

// ── Scenarios ──

func TestSubmit_ScenarioA_FirstEntry(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)

	c, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)
	assert.Nil(t, c.Closed)
	assert.True(t, c.Entry.IsOpen())
	assert.InDelta(t, 100, c.Entry.StartOdometer, 1e-9)
	assert.Equal(t, models.DefaultNote, c.Entry.Note)

	all, _ := store.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, c.Entry.ID, all[0].ID)
}

func TestSubmit_ScenarioB_SameDriverLocal(t *testing.T) {
	store := memory.NewTripStore()
	relay := &fakeRelay{}
	s := newTestService(t, store, nil, relay)

	_, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)

	_, err = submit(t, s, "Alice", "150")
	require.ErrorIs(t, err, types.ErrSameDriverLocal)
	assert.Equal(t, 1, relay.count(), "a rejected candidate is never relayed")

	all, _ := store.List(context.Background())
	assert.Len(t, all, 1)
}

func TestSubmit_ScenarioC_OdometerRegressionLocal(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)

	_, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)

	_, err = submit(t, s, "Bob", "90")
	require.ErrorIs(t, err, types.ErrOdometerRegressionLocal)
}

func TestSubmit_ScenarioD_ClosesPrevious(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)

	first, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)

	second, err := submit(t, s, "Bob", "120")
	require.NoError(t, err)
	require.NotNil(t, second.Closed)
	assert.Equal(t, first.Entry.ID, second.Closed.ID)
	assert.InDelta(t, 20, second.Closed.Distance(), 1e-9)

	all, _ := store.List(context.Background())
	chained := Chain(all)
	require.Len(t, chained, 2)
	assert.Equal(t, "Alice", chained[0].DriverName)
	assert.InDelta(t, 120, *chained[0].EndOdometer, 1e-9)
	assert.Equal(t, second.Entry.StartTime, *chained[0].EndTime)
	assert.Equal(t, "Bob", chained[1].DriverName)
	assert.True(t, chained[1].IsOpen())
}

func TestSubmit_ScenarioE_SameDriverMirror(t *testing.T) {
	store := memory.NewTripStore()
	mirror := &fakeMirror{found: true, snap: models.MirrorSnapshot{DriverName: "Bob", Odometer: 200, OdometerKnown: true}}
	s := newTestService(t, store, mirror, nil)

	_, err := submit(t, s, "Bob", "210")
	require.ErrorIs(t, err, types.ErrSameDriverMirror)
}

func TestSubmit_MirrorUnavailableDegrades(t *testing.T) {
	store := memory.NewTripStore()
	mirror := &fakeMirror{err: errors.New("dial tcp: timeout")}
	s := newTestService(t, store, mirror, nil)

	_, err := submit(t, s, "Bob", "210")
	require.NoError(t, err)

	state := s.MirrorState(context.Background())
	assert.Equal(t, types.MirrorUnavailable, state.Status)
	assert.Contains(t, state.Reason, "timeout")
}

func TestSubmit_NoteDefaultAndCustom(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil, WithDefaultNote("n/a"))

	c, err := s.Submit(context.Background(), models.Candidate{Driver: "A", Odometer: "1"})
	require.NoError(t, err)
	assert.Equal(t, "n/a", c.Entry.Note)

	c, err = s.Submit(context.Background(), models.Candidate{Driver: "B", Odometer: "2", Note: " groceries "})
	require.NoError(t, err)
	assert.Equal(t, "groceries", c.Entry.Note)
}

// ── Relay and delay ──

func TestSubmit_RelayFailureDoesNotAbortCommit(t *testing.T) {
	store := memory.NewTripStore()
	relay := &fakeRelay{err: errors.New("form closed")}
	s := newTestService(t, store, nil, relay)

	_, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)
	assert.Equal(t, 1, relay.count())
}

func TestSubmit_WaitsForMinDelay(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, &fakeRelay{}, WithMinDelay(40*time.Millisecond))

	start := time.Now()
	_, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestSubmit_CallerGoneAfterRelayStillCommits(t *testing.T) {
	store := memory.NewTripStore()
	relay := &fakeRelay{}
	s := newTestService(t, store, nil, relay, WithMinDelay(200*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c, err := s.Submit(ctx, models.Candidate{Driver: "Alice", Odometer: "100"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Entry.DriverName)
	assert.Equal(t, 1, relay.count())

	all, _ := store.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, c.Entry.ID, all[0].ID)
}

func TestSubmit_CancelledBeforeRelay(t *testing.T) {
	store := memory.NewTripStore()
	relay := &fakeRelay{}
	s := newTestService(t, store, nil, relay)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Submit(ctx, models.Candidate{Driver: "Alice", Odometer: "100"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, relay.count())

	all, _ := store.List(context.Background())
	assert.Empty(t, all)
}

// ── Persistence failures ──

func TestSubmit_CreateFailureRollsBackClose(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)
	_, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)

	repo := &failingRepo{TripStore: store, createErr: errors.New("disk full")}
	broken := New(repo, store, nil, nil, logger.Discard(), WithMinDelay(0))

	_, err = broken.Submit(context.Background(), models.Candidate{Driver: "Bob", Odometer: "120"})
	require.ErrorIs(t, err, types.ErrPersistenceFailure)

	all, _ := store.List(context.Background())
	require.Len(t, all, 1)
	assert.True(t, all[0].IsOpen(), "previous entry must stay open after rollback")
}

func TestSubmit_ChainConflict(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)
	_, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)

	repo := &failingRepo{TripStore: store, closeErr: types.ErrChainConflict}
	broken := New(repo, store, nil, nil, logger.Discard(), WithMinDelay(0))

	_, err = broken.Submit(context.Background(), models.Candidate{Driver: "Bob", Odometer: "120"})
	require.ErrorIs(t, err, types.ErrChainConflict)
	require.ErrorIs(t, err, types.ErrPersistenceFailure)
}

// ── Properties ──

func TestSubmit_ConcurrentSameDriverOnlyOneAccepted(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Submit(context.Background(), models.Candidate{Driver: "Bob", Odometer: "100"}); err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	all, _ := store.List(context.Background())
	assert.Len(t, all, 1)
}

func TestSubmit_ChainProperties(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)

	steps := []struct {
		driver string
		odo    string
	}{
		{"Alice", "100"}, {"Alice", "110"}, {"Bob", "90"}, {"Bob", "130"},
		{"Alice", "130"}, {"Bob", "129"}, {"Bob", "175.5"}, {"Alice", "200"},
		{"alice", "250"}, {"Bob", "x"}, {"Bob", "260"},
	}
	for _, st := range steps {
		_, _ = submit(t, s, st.driver, st.odo)
	}

	all, err := store.List(context.Background())
	require.NoError(t, err)
	chained := Chain(all)
	require.NotEmpty(t, chained)

	open := 0
	for i, e := range chained {
		if e.IsOpen() {
			open++
		}
		d := e.Distance()
		assert.GreaterOrEqual(t, d, 0.0)
		assert.Equal(t, d, e.Distance())

		if i == 0 {
			continue
		}
		prev := chained[i-1]
		assert.False(t, SameDriver(prev.DriverName, e.DriverName), "drivers must alternate")
		assert.LessOrEqual(t, prev.StartOdometer, e.StartOdometer)
		assert.True(t, prev.StartTime.Before(e.StartTime))
	}
	assert.Equal(t, 1, open)

	// stored end values already satisfy the closing invariant without the read-side repair
	for _, e := range all {
		if e.IsOpen() {
			continue
		}
		next := findByStart(chained, *e.EndTime)
		require.NotNil(t, next)
		assert.InDelta(t, next.StartOdometer, *e.EndOdometer, 1e-9)
	}
}

func findByStart(entries []models.TripEntry, at time.Time) *models.TripEntry {
	for i := range entries {
		if entries[i].StartTime.Equal(at) {
			return &entries[i]
		}
	}
	return nil
}

// ── Notifications and read side ──

func TestSubmit_NotifiesAfterCommit(t *testing.T) {
	store := memory.NewTripStore()
	pub := &fakePublisher{}
	bc := &fakeBroadcaster{}
	s := newTestService(t, store, nil, nil, WithPublisher(pub), WithBroadcaster(bc))

	_, err := submit(t, s, "Alice", "100")
	require.NoError(t, err)
	_, err = submit(t, s, "Alice", "200")
	require.Error(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, types.EventTripCommitted, pub.events[0].Type)
	assert.Equal(t, int32(1), bc.n.Load())
}

func TestList_NewestFirstWithWindow(t *testing.T) {
	store := memory.NewTripStore()
	s := newTestService(t, store, nil, nil)
	for _, st := range [][2]string{{"A", "1"}, {"B", "2"}, {"A", "3"}} {
		_, err := submit(t, s, st[0], st[1])
		require.NoError(t, err)
	}

	all, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.InDelta(t, 3, all[0].StartOdometer, 1e-9)
	assert.True(t, all[0].IsOpen())

	w := models.Window{From: all[1].StartTime, To: all[1].StartTime}
	one, err := s.List(context.Background(), &w)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, all[1].ID, one[0].ID)

	totals, err := s.Totals(context.Background(), models.Window{From: all[2].StartTime, To: all[0].StartTime})
	require.NoError(t, err)
	assert.InDelta(t, 2, totals.Miles, 1e-9)
}

// readOnlyStore counts read-only transactions opened on top of the memory store.
type readOnlyStore struct {
	*memory.TripStore
	readOnly atomic.Int32
}

func (r *readOnlyStore) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.readOnly.Add(1)
	return fn(ctx)
}

func TestListAndTotals_UseReadOnlyTransaction(t *testing.T) {
	store := &readOnlyStore{TripStore: memory.NewTripStore()}
	s := New(store, store, nil, nil, logger.Discard(), WithMinDelay(0))

	_, err := submit(t, s, "A", "10")
	require.NoError(t, err)
	assert.Zero(t, store.readOnly.Load())

	_, err = s.List(context.Background(), nil)
	require.NoError(t, err)
	_, err = s.Totals(context.Background(), models.Window{From: time.Unix(0, 0), To: time.Now()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, store.readOnly.Load())
}
