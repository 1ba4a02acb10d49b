package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/metrics"
	"github.com/Temutjin2k/miletracker/pkg/trm"
)

// DefaultMinDelay is how long a submission takes at minimum, relay or not.
const DefaultMinDelay = 600 * time.Millisecond

// commitTimeout bounds the chain transaction once it no longer follows the caller's context.
const commitTimeout = 10 * time.Second

/*
Service accepts odometer readings, checks them against the record store and
the spreadsheet mirror, and keeps the trip chain closed behind every new entry.
*/
type Service struct {
	repo   TripRepo
	trm    trm.TxManager
	mirror MirrorReader
	relay  Relay

	publisher   Publisher
	broadcaster Broadcaster

	minDelay    time.Duration
	defaultNote string
	now         func() time.Time
	newID       func() string

	l logger.Logger
}

type Option func(*Service)

// WithPublisher publishes a TripEvent after each commit.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithBroadcaster pushes a TripEvent to live feed subscribers after each commit.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

func WithMinDelay(d time.Duration) Option {
	return func(s *Service) { s.minDelay = d }
}

func WithDefaultNote(note string) Option {
	return func(s *Service) {
		if note != "" {
			s.defaultNote = note
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// New returns the trip service. mirror and relay may be nil when not configured.
func New(repo TripRepo, tx trm.TxManager, mirror MirrorReader, relay Relay, l logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		trm:         tx,
		mirror:      mirror,
		relay:       relay,
		minDelay:    DefaultMinDelay,
		defaultNote: models.DefaultNote,
		now:         time.Now,
		newID:       uuid.NewString,
		l:           l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates a candidate reading and, when accepted, closes the previous
// trip and appends the new one in a single transaction.
func (s *Service) Submit(ctx context.Context, c models.Candidate) (models.TripCommit, error) {
	ctx = wrap.WithAction(wrap.WithDriver(ctx, c.Driver), types.ActionTripSubmit)

	at := s.now().UTC().Truncate(time.Millisecond)
	mirror := s.MirrorState(ctx)

	// Fail fast before the relay and the delay. The decisive check runs again inside the transaction.
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		metrics.RecordTripSubmission("persistence_failure")
		return models.TripCommit{}, wrap.Error(ctx, fmt.Errorf("%w: read latest entry: %w", types.ErrPersistenceFailure, err))
	}
	odometer, err := Validate(c, latest, mirror)
	if err != nil {
		s.reject(ctx, err)
		return models.TripCommit{}, wrap.Error(ctx, err)
	}

	if err := ctx.Err(); err != nil {
		return models.TripCommit{}, wrap.Error(ctx, err)
	}

	// The relay may reach the shared sheet, so from here the submission runs to
	// completion even when the caller goes away.
	ctx = context.WithoutCancel(ctx)
	s.relayAndWait(ctx, c.Driver, odometer, at)

	cctx, cancel := context.WithTimeout(ctx, commitTimeout)
	defer cancel()

	commit, err := s.commit(cctx, c, mirror, at)
	if err != nil {
		if types.IsRejection(err) {
			s.reject(ctx, err)
			return models.TripCommit{}, wrap.Error(ctx, err)
		}
		metrics.RecordTripSubmission("persistence_failure")
		return models.TripCommit{}, wrap.Error(ctx, err)
	}

	ctx = wrap.WithAction(wrap.WithTripID(ctx, commit.Entry.ID), types.ActionTripCommitted)
	metrics.RecordTripSubmission("accepted")
	metrics.OdometerGauge.Set(commit.Entry.StartOdometer)
	s.l.Info(ctx, "trip committed",
		"odometer", commit.Entry.StartOdometer,
		"closed_trip", closedID(commit.Closed),
		"mirror", string(mirror.Status),
	)

	s.notify(ctx, commit)

	return commit, nil
}

func (s *Service) commit(ctx context.Context, c models.Candidate, mirror models.MirrorState, at time.Time) (models.TripCommit, error) {
	var out models.TripCommit

	fn := func(ctx context.Context) error {
		out = models.TripCommit{}
		if err := s.repo.LockChain(ctx); err != nil {
			return fmt.Errorf("lock chain: %w", err)
		}

		latest, err := s.repo.Latest(ctx)
		if err != nil {
			return fmt.Errorf("read latest entry: %w", err)
		}

		odometer, err := Validate(c, latest, mirror)
		if err != nil {
			return err
		}

		if latest != nil {
			// The new entry has to sort after the one it closes.
			if !at.After(latest.StartTime) {
				at = latest.StartTime.Add(time.Millisecond)
			}
			if err := s.repo.Close(ctx, latest.ID, odometer, at); err != nil {
				return fmt.Errorf("close entry %s: %w", latest.ID, err)
			}
			closed := *latest
			closed.EndOdometer = models.Float(odometer)
			closed.EndTime = models.Time(at)
			out.Closed = &closed
		}

		note := strings.TrimSpace(c.Note)
		if note == "" {
			note = s.defaultNote
		}

		entry := models.TripEntry{
			ID:            s.newID(),
			DriverName:    strings.TrimSpace(c.Driver),
			StartOdometer: odometer,
			Note:          note,
			StartTime:     at,
		}
		if err := s.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		out.Entry = entry

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		if types.IsRejection(err) {
			return models.TripCommit{}, err
		}
		s.l.Error(wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed), "trip transaction rolled back", err)
		return models.TripCommit{}, fmt.Errorf("%w: %w", types.ErrPersistenceFailure, err)
	}

	return out, nil
}

// relayAndWait runs the relay and the minimum delay concurrently and returns when both are done.
// A relay failure is logged and otherwise ignored.
func (s *Service) relayAndWait(ctx context.Context, driver string, odometer float64, at time.Time) {
	g, gctx := errgroup.WithContext(ctx)

	if s.relay == nil {
		s.l.Debug(wrap.WithAction(ctx, types.ActionRelaySubmit), "relay skipped", "outcome", string(types.RelayDisabled))
	} else {
		g.Go(func() error {
			rctx := wrap.WithAction(gctx, types.ActionRelaySubmit)
			err := s.relay.Submit(rctx, driver, odometer, at)
			metrics.RecordRelay(err)
			if err != nil {
				s.l.Warn(rctx, "relay submission failed", "outcome", string(types.RelayFailed), "error", err.Error())
				return nil
			}
			s.l.Debug(rctx, "relay submission sent", "outcome", string(types.RelaySent))
			return nil
		})
	}

	g.Go(func() error {
		if s.minDelay <= 0 {
			return nil
		}
		t := time.NewTimer(s.minDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-gctx.Done():
		}
		return nil
	})

	_ = g.Wait()
}

// MirrorState fetches the mirror snapshot. Failures degrade to MirrorUnavailable.
func (s *Service) MirrorState(ctx context.Context) models.MirrorState {
	if s.mirror == nil {
		return models.MirrorAbsent()
	}

	mctx := wrap.WithAction(ctx, types.ActionMirrorFetch)
	snap, found, err := s.mirror.Latest(mctx)
	if err != nil {
		s.l.Warn(mctx, "mirror unavailable, continuing with local checks only", "error", err.Error())
		return models.MirrorUnavailable(errors.Join(types.ErrMirrorUnavailable, err).Error())
	}
	if !found {
		return models.MirrorAbsent()
	}
	return models.MirrorPresent(snap)
}

func (s *Service) reject(ctx context.Context, err error) {
	var r *types.RejectionError
	reason := "rejected"
	if errors.As(err, &r) {
		reason = r.Code()
	}
	metrics.RecordTripSubmission(reason)
	s.l.Info(wrap.WithAction(ctx, types.ActionTripRejected), "trip rejected", "reason", reason, "detail", err.Error())
}

// notify runs after the commit. Failures are logged only; the entry is already durable.
func (s *Service) notify(ctx context.Context, c models.TripCommit) {
	ev := models.NewTripEvent(c, wrap.GetRequestID(ctx))

	if s.publisher != nil {
		pctx := wrap.WithAction(ctx, types.ActionEventPublish)
		if err := s.publisher.PublishTripCommitted(pctx, ev); err != nil {
			s.l.Error(wrap.ErrorCtx(pctx, err), "failed to publish trip event", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(ctx, models.WebSocketMessage{EventType: string(ev.Type), Data: ev})
	}
}

func closedID(e *models.TripEntry) string {
	if e == nil {
		return ""
	}
	return e.ID
}

// Latest returns the newest local entry, or nil when there is none.
func (s *Service) Latest(ctx context.Context) (*models.TripEntry, error) {
	e, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrPersistenceFailure, err))
	}
	return e, nil
}

// List returns the chained entries, newest first, optionally limited to a window on StartTime.
func (s *Service) List(ctx context.Context, w *models.Window) ([]models.TripEntry, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrPersistenceFailure, err))
	}

	chained := Chain(entries)
	out := make([]models.TripEntry, 0, len(chained))
	for i := len(chained) - 1; i >= 0; i-- {
		if w != nil && !w.Contains(chained[i].StartTime) {
			continue
		}
		out = append(out, chained[i])
	}
	return out, nil
}

// Totals sums the distance per driver over entries started inside w.
func (s *Service) Totals(ctx context.Context, w models.Window) (models.Totals, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return models.Totals{}, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrPersistenceFailure, err))
	}
	return Totals(Chain(entries), w), nil
}

// entries reads the whole log in one read-only snapshot when the backend offers one.
func (s *Service) entries(ctx context.Context) ([]models.TripEntry, error) {
	var out []models.TripEntry
	err := trm.ReadOnly(ctx, s.trm, func(ctx context.Context) error {
		var err error
		out, err = s.repo.List(ctx)
		return err
	})
	return out, err
}
