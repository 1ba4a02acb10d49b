package wrap

import (
	"context"
	"errors"
)

// Error attaches the LogCtx of ctx to err. An error that already carries a LogCtx
// gets its context refreshed instead of being wrapped twice.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		return &errorWithLogCtx{err: err, logCtx: WithMerged(e.logCtx, fromCtx(ctx))}
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: fromCtx(ctx),
	}
}

// WithMerged overlays the non-empty fields of top onto base.
func WithMerged(base, top LogCtx) LogCtx {
	if top.Action != "" {
		base.Action = top.Action
	}
	if top.Driver != "" {
		base.Driver = top.Driver
	}
	if top.RequestID != "" {
		base.RequestID = top.RequestID
	}
	if top.TripID != "" {
		base.TripID = top.TripID
	}
	return base
}
