package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

var ErrClosed = errors.New("rabbitmq client closed")

const (
	heartbeat        = 10 * time.Second
	reconnectRetries = 5
)

// RabbitMQ owns one connection and one channel and re-dials them on demand.
type RabbitMQ struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
	dsn     string

	// exchanges declared on every (re)connect
	exchanges []string

	log logger.Logger
}

// New dials the broker and declares the given topic exchanges.
func New(ctx context.Context, dsn string, log logger.Logger, exchanges ...string) (*RabbitMQ, error) {
	r := &RabbitMQ{dsn: dsn, log: log, exchanges: exchanges}

	if err := r.connect(); err != nil {
		return nil, err
	}

	log.Info(wrap.WithAction(ctx, types.ActionRabbitMQConnected), "connected to rabbitMQ")
	return r, nil
}

// connect must be called with mu held or before r is shared.
func (r *RabbitMQ) connect() error {
	conn, err := amqp.DialConfig(r.dsn, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	for _, ex := range r.exchanges {
		if err := ch.ExchangeDeclare(ex, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return fmt.Errorf("failed to declare exchange %s: %w", ex, err)
		}
	}

	notify := conn.NotifyClose(make(chan *amqp.Error, 1))
	go r.monitor(notify)

	r.conn = conn
	r.channel = ch
	return nil
}

func (r *RabbitMQ) monitor(notify <-chan *amqp.Error) {
	closeErr, ok := <-notify
	ctx := wrap.WithAction(context.Background(), types.ActionRabbitConnectionClosed)
	if ok && closeErr != nil {
		r.log.Error(ctx, "RabbitMQ connection closed with error", closeErr)
		return
	}
	r.log.Debug(ctx, "RabbitMQ connection closed gracefully")
}

// IsConnectionClosed reports whether the connection or channel is gone.
func (r *RabbitMQ) IsConnectionClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isClosedLocked()
}

func (r *RabbitMQ) isClosedLocked() bool {
	return r.conn == nil || r.conn.IsClosed() || r.channel == nil || r.channel.IsClosed()
}

// Publish sends body to exchange with key, reconnecting once if the channel was lost.
func (r *RabbitMQ) Publish(ctx context.Context, exchange, key string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.isClosedLocked() {
		if err := r.reconnectLocked(ctx); err != nil {
			return err
		}
	}

	return r.channel.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
}

func (r *RabbitMQ) reconnectLocked(ctx context.Context) error {
	var err error
	for i := range reconnectRetries {
		if err = r.connect(); err == nil {
			r.log.Info(wrap.WithAction(ctx, types.ActionRabbitReconnected), "RabbitMQ reconnected successfully")
			return nil
		}

		wait := time.Duration(i+1) * 2 * time.Second
		r.log.Debug(ctx, fmt.Sprintf("reconnect attempt %d failed, retrying in %v", i+1, wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
}

// Close closes the channel and the connection. It is safe to call more than once.
func (r *RabbitMQ) Close(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRabbitConnectionClosing)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	ch, conn := r.channel, r.conn
	r.channel, r.conn = nil, nil
	r.mu.Unlock()

	if ch != nil {
		if err := closeWithCtxFunc(ctx, ch.Close); err != nil && ctx.Err() == nil {
			r.log.Error(ctx, "error closing channel", err)
		}
	}

	if conn != nil {
		if err := closeWithCtxFunc(ctx, conn.Close); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitConnectionClosed), "rabbitMQ closed")
	return nil
}

// closeWithCtxFunc runs fn but stops waiting when ctx is done.
func closeWithCtxFunc(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
