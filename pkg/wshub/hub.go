package wshub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/metrics"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub keeps every live websocket subscriber.
type ConnectionHub struct {
	name    string
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.RWMutex
}

func NewConnHub(name string, l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		name:    name,
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a connection. A connection with the same ID is replaced and closed.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	existing, ok := h.clients[newConn.id]
	h.clients[newConn.id] = newConn
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnectionsGauge.WithLabelValues(h.name).Set(float64(n))

	if ok && existing != newConn {
		ctx := wrap.WithAction(context.Background(), "ws_connection_add")
		h.l.Warn(ctx, "replacing existing connection", "conn_id", existing.id)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "conn_id", existing.id, "err", err.Error())
		}
	}
	return nil
}

// Delete removes and closes the connection with id.
func (h *ConnectionHub) Delete(id uuid.UUID) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	delete(h.clients, id)
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues(h.name).Set(float64(n))

	if err := conn.Close(); err != nil {
		ctx := wrap.WithAction(context.Background(), "ws_connection_delete")
		h.l.Debug(ctx, "failed to close conn", "conn_id", id, "err", err.Error())
	}
	return nil
}

// Broadcast sends msg to every subscriber and drops the ones that fail.
// It returns the number of successful deliveries.
func (h *ConnectionHub) Broadcast(ctx context.Context, msg any) int {
	sent := 0
	for _, conn := range h.snapshot() {
		if ctx.Err() != nil {
			break
		}
		if err := conn.Send(msg); err != nil {
			h.l.Debug(wrap.WithAction(ctx, "ws_broadcast"), "dropping subscriber", "conn_id", conn.id, "err", err.Error())
			_ = h.Delete(conn.id)
			continue
		}
		sent++
	}
	return sent
}

// Heartbeat pings every subscriber each interval until ctx is done, dropping dead ones.
func (h *ConnectionHub) Heartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, conn := range h.snapshot() {
				if err := conn.Health(); err != nil {
					_ = h.Delete(conn.id)
				}
			}
		}
	}
}

// Close closes every websocket connection.
func (h *ConnectionHub) Close() {
	for _, conn := range h.snapshot() {
		_ = h.Delete(conn.id)
	}
	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed gracefully")
}

func (h *ConnectionHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *ConnectionHub) GetConn(id uuid.UUID) (*Conn, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.clients[id]
	if !ok {
		return nil, ErrConnIsNotFound
	}
	return conn, nil
}

func (h *ConnectionHub) snapshot() []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Conn, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}
