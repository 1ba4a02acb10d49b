package wshub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/miletracker/pkg/logger"
)

// newFeedServer upgrades every request, registers the conn in hub and blocks on Listen.
func newFeedServer(t *testing.T, hub *ConnectionHub) *httptest.Server {
	t.Helper()

	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewConn(context.Background(), r.URL.Query().Get("driver"), raw)
		if err := hub.Add(c); err != nil {
			return
		}
		_ = c.Listen(nil)
		_ = hub.Delete(c.ID())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, driver string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?driver=" + driver
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func waitForCount(t *testing.T, hub *ConnectionHub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())
	srv := newFeedServer(t, hub)

	a := dial(t, srv, "Alice")
	b := dial(t, srv, "Bob")
	waitForCount(t, hub, 2)

	sent := hub.Broadcast(context.Background(), map[string]any{"event_type": "trip.committed"})
	assert.Equal(t, 2, sent)

	for _, c := range []*websocket.Conn{a, b} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got map[string]any
		require.NoError(t, c.ReadJSON(&got))
		assert.Equal(t, "trip.committed", got["event_type"])
	}
}

func TestHub_ClientGoneIsRemoved(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())
	srv := newFeedServer(t, hub)

	c := dial(t, srv, "Alice")
	waitForCount(t, hub, 1)

	require.NoError(t, c.Close())
	waitForCount(t, hub, 0)
}

func TestHub_Close(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())
	srv := newFeedServer(t, hub)

	c := dial(t, srv, "Alice")
	waitForCount(t, hub, 1)

	hub.Close()
	assert.Equal(t, 0, hub.Count())

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := c.ReadMessage()
	assert.Error(t, err)
}

func TestHub_Errors(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())

	assert.ErrorIs(t, hub.Add(nil), ErrEmptyConn)
	assert.ErrorIs(t, hub.Delete(uuid.New()), ErrConnIsNotFound)
	_, err := hub.GetConn(uuid.New())
	assert.ErrorIs(t, err, ErrConnIsNotFound)
}

func TestConn_SendAfterClose(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())
	srv := newFeedServer(t, hub)

	dial(t, srv, "Alice")
	waitForCount(t, hub, 1)

	conn := hub.snapshot()[0]
	require.NoError(t, conn.Health())
	require.NoError(t, conn.Close())

	assert.ErrorIs(t, conn.Send("x"), ErrConnClosed)
	assert.ErrorIs(t, conn.Health(), ErrConnClosed)
	assert.Equal(t, "Alice", conn.Driver())
}
