package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/metrics"
)

const serviceName = "miletracker"

// Broker is the part of the rabbit client the publisher needs.
type Broker interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// TripPublisher announces committed trips on a topic exchange.
type TripPublisher struct {
	client   Broker
	exchange string
	retries  int
}

func NewTripPublisher(client Broker, exchange string) *TripPublisher {
	return &TripPublisher{client: client, exchange: exchange, retries: 3}
}

// PublishTripCommitted publishes ev with routing key trip.committed.<driver>.
func (p *TripPublisher) PublishTripCommitted(ctx context.Context, ev models.TripEvent) error {
	const op = "TripPublisher.PublishTripCommitted"

	body, err := json.Marshal(ev)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_trip_event")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	key := RoutingKey(ev)

	err = retry(ctx, p.retries, retryDelay, func() error {
		return p.client.Publish(ctx, p.exchange, key, body)
	})
	metrics.RecordRabbitMQPublish(serviceName, key, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish: %w", op, err))
	}

	return nil
}

// RoutingKey is "<event type>.<lower-case driver>" with spaces replaced by dashes.
func RoutingKey(ev models.TripEvent) string {
	driver := strings.ToLower(strings.Join(strings.Fields(ev.DriverName), "-"))
	if driver == "" {
		driver = "unknown"
	}
	return string(ev.Type) + "." + driver
}
