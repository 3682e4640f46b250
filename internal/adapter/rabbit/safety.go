package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/metrics"
)

const (
	SafetyExchange = "safety_topic"

	KeyEmergencyAlert = "safety.alert.emergency"

	publishAttempts = 5
)

type publisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp091.Publishing) error
}

// SafetyBroker publishes emergency alerts and ride status changes to a topic exchange.
type SafetyBroker struct {
	client   publisher
	Exchange string
	backoff  time.Duration

	l logger.Logger
}

func NewSafetyBroker(client publisher, exchange string, log logger.Logger) *SafetyBroker {
	if exchange == "" {
		exchange = SafetyExchange
	}

	return &SafetyBroker{
		client:   client,
		Exchange: exchange,
		backoff:  time.Second,
		l:        log,
	}
}

type emergencyMessage struct {
	models.EmergencyAlert
	Contact string `json:"contact"`
	Message string `json:"message"`
}

// Notify publishes the alert for delivery to contact.
// Sends to the safety exchange with key 'safety.alert.emergency'.
func (b *SafetyBroker) Notify(ctx context.Context, contact string, alert models.EmergencyAlert) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_emergency")

	body, err := json.Marshal(emergencyMessage{
		EmergencyAlert: alert,
		Contact:        contact,
		Message:        alert.String(),
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	return b.publish(ctx, KeyEmergencyAlert, alert.RideID.String(), body, 9)
}

// PublishStatusChange sends to the safety exchange with key 'ride.status.{status}'.
func (b *SafetyBroker) PublishStatusChange(ctx context.Context, change models.StatusChange) error {
	ctx = wrap.WithAction(ctx, types.ActionPublishEvent)

	body, err := json.Marshal(change)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	key := fmt.Sprintf("ride.status.%s", change.NewStatus)
	return b.publish(ctx, key, change.RideID.String(), body, 0)
}

func (b *SafetyBroker) publish(ctx context.Context, key, correlationID string, body []byte, priority uint8) error {
	err := retry(ctx, publishAttempts, b.backoff, func() error {
		return b.client.Publish(ctx, b.Exchange, key, amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			CorrelationId: correlationID,
			Body:          body,
			Timestamp:     time.Now(),
			Priority:      priority,
		})
	})
	metrics.RecordRabbitMQPublish(b.Exchange, err)
	if err != nil {
		b.l.Error(ctx, "failed to publish message", err, "routing_key", key)
		return wrap.Error(ctx, fmt.Errorf("failed to publish %s: %w", key, err))
	}

	b.l.Debug(ctx, "message published", "routing_key", key)
	return nil
}
