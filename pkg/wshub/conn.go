package wshub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	maxMessage = 4096
)

var ErrConnClosed = errors.New("connection closed")

// Conn is one feed subscriber. Writes are serialised; reads belong to Listen.
type Conn struct {
	conn   *websocket.Conn
	id     uuid.UUID
	driver string

	doneCtx context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	closeOnce sync.Once
}

func NewConn(ctx context.Context, driver string, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		id:      uuid.New(),
		driver:  driver,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) ID() uuid.UUID  { return c.id }
func (c *Conn) Driver() string { return c.driver }

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.doneCtx.Done() }

// Health pings the peer.
func (c *Conn) Health() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.aliveLocked(); err != nil {
		return err
	}
	if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (c *Conn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.aliveLocked(); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return c.conn.WriteJSON(msg)
}

func (c *Conn) aliveLocked() error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}
	select {
	case <-c.doneCtx.Done():
		return ErrConnClosed
	default:
		return nil
	}
}

// Listen reads until the peer goes away or the connection is closed. The feed
// is one-way, so client frames are handed to handler (if any) and otherwise dropped.
func (c *Conn) Listen(handler func(msg []byte) error) error {
	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.doneCtx.Done():
				return ErrConnClosed
			default:
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if handler == nil {
			continue
		}
		if err := handler(data); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			err = c.conn.Close()
		}
	})
	return err
}
