package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action    string
		Driver    string
		RequestID string
		TripID    string
	}

	logCtxKeyStruct struct{}
)

// LogCtxKey is the context key for LogCtx values.
var LogCtxKey = &logCtxKeyStruct{}

func fromCtx(ctx context.Context) LogCtx {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return lc
}

// WithLogCtx merges newLc into the LogCtx already stored in ctx. Empty fields keep the old value.
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	return context.WithValue(ctx, LogCtxKey, WithMerged(fromCtx(ctx), newLc))
}

// WithDriver adds or updates the Driver in the LogCtx within the context
func WithDriver(ctx context.Context, driver string) context.Context {
	lc := fromCtx(ctx)
	lc.Driver = driver
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRequestID adds or updates the RequestID in the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := fromCtx(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithTripID adds or updates the TripID in the LogCtx within the context
func WithTripID(ctx context.Context, tripID string) context.Context {
	lc := fromCtx(ctx)
	lc.TripID = tripID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	lc := fromCtx(ctx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}

// GetRequestID returns the request id stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	return fromCtx(ctx).RequestID
}

// GetDriver returns the driver stored in ctx, or "".
func GetDriver(ctx context.Context) string {
	return fromCtx(ctx).Driver
}
