package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "miletracker", LevelDebug)

	ctx := wrap.WithRequestID(context.Background(), "req-7")
	ctx = wrap.WithDriver(ctx, "Rahul")
	ctx = wrap.WithAction(ctx, "submit_trip")
	l.Info(ctx, "trip accepted", "odometer", 12000)

	rec := decode(t, &buf)
	assert.Equal(t, "trip accepted", rec["message"])
	assert.Equal(t, "miletracker", rec["service"])
	assert.Equal(t, "req-7", rec["request_id"])
	assert.Equal(t, "Rahul", rec["driver"])
	assert.Equal(t, "submit_trip", rec["action"])
	assert.EqualValues(t, 12000, rec["odometer"])
	assert.Contains(t, rec, "timestamp")
}

func TestLogger_ErrorCarriesRaisedContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "miletracker", LevelDebug)

	raised := wrap.WithTripID(context.Background(), "trip-1")
	err := wrap.Error(raised, errors.New("chain conflict"))
	l.Error(wrap.ErrorCtx(context.Background(), err), "commit failed", err)

	rec := decode(t, &buf)
	assert.Equal(t, "trip-1", rec["trip_id"])
	assert.Equal(t, map[string]any{"msg": "chain conflict"}, rec["error"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "miletracker", LevelWarn)

	l.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	l.Warn(context.Background(), "kept")
	assert.Equal(t, "WARN", decode(t, &buf)["level"])
}

func TestValidateLogLevel(t *testing.T) {
	for _, lvl := range []string{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		assert.True(t, ValidateLogLevel(lvl), lvl)
	}
	assert.False(t, ValidateLogLevel("debug"))
	assert.False(t, ValidateLogLevel(""))
}
