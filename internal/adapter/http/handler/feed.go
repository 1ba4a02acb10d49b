package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/wshub"
)

// TripFeed pushes committed trips to websocket subscribers.
type TripFeed struct {
	hub      *wshub.ConnectionHub
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewTripFeed(hub *wshub.ConnectionHub, l logger.Logger) *TripFeed {
	return &TripFeed{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		l: l,
	}
}

// Broadcast sends msg to every subscriber.
func (f *TripFeed) Broadcast(ctx context.Context, msg models.WebSocketMessage) {
	n := f.hub.Broadcast(ctx, msg)
	f.l.Debug(wrap.WithAction(ctx, "ws_broadcast"), "trip event broadcast", "subscribers", n)
}

// Serve godoc
// @Summary      Live trip feed
// @Description  WebSocket stream of trip.committed events
// @Tags         trips
// @Success      101
// @Router       /ws/trips [get]
func (f *TripFeed) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_connect")

	raw, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		f.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	conn := wshub.NewConn(context.WithoutCancel(ctx), wrap.GetDriver(ctx), raw)
	if err := f.hub.Add(conn); err != nil {
		f.l.Error(ctx, "failed to register websocket", err)
		_ = raw.Close()
		return
	}
	defer func() { _ = f.hub.Delete(conn.ID()) }()

	ctx = wrap.WithAction(ctx, "ws_listen")
	f.l.Debug(ctx, "websocket subscriber connected", "conn_id", conn.ID().String())

	if err := conn.Send(models.WebSocketMessage{EventType: "hello", Data: map[string]string{"conn_id": conn.ID().String()}}); err != nil {
		return
	}

	if err := conn.Listen(nil); err != nil {
		f.l.Debug(ctx, "websocket subscriber gone", "conn_id", conn.ID().String(), "reason", err.Error())
	}
}
