package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeClient struct {
	mu       sync.Mutex
	failures int
	sent     []published
}

func (c *fakeClient) Publish(ctx context.Context, exchange, key string, msg amqp091.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures > 0 {
		c.failures--
		return errors.New("channel closed")
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func newBroker(c *fakeClient) *SafetyBroker {
	b := NewSafetyBroker(c, "", logger.Discard())
	b.backoff = time.Millisecond
	return b
}

func TestNotify_PublishesEmergency(t *testing.T) {
	client := &fakeClient{failures: 2}
	b := newBroker(client)

	alert := models.EmergencyAlert{RideID: uuid.New(), RiderID: "r1", MissedChecks: 5, EmergencyContact: "contact-1"}
	if err := b.Notify(context.Background(), "contact-1", alert); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(client.sent) != 1 {
		t.Fatalf("expected one message after retries, got %d", len(client.sent))
	}
	got := client.sent[0]
	if got.exchange != SafetyExchange || got.key != KeyEmergencyAlert {
		t.Fatalf("unexpected destination %s/%s", got.exchange, got.key)
	}
	if got.msg.CorrelationId != alert.RideID.String() {
		t.Fatalf("correlation id = %q", got.msg.CorrelationId)
	}

	var body map[string]any
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if body["contact"] != "contact-1" || body["missed_checks"] != float64(5) {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestNotify_GivesUpAfterRetries(t *testing.T) {
	client := &fakeClient{failures: publishAttempts}
	b := newBroker(client)

	if err := b.Notify(context.Background(), "c", models.EmergencyAlert{RideID: uuid.New()}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestPublishStatusChange_RoutingKey(t *testing.T) {
	client := &fakeClient{}
	b := newBroker(client)

	change := models.StatusChange{RideID: uuid.New(), OldStatus: types.StatusInProgress, NewStatus: types.StatusSafetyAlert}
	if err := b.PublishStatusChange(context.Background(), change); err != nil {
		t.Fatalf("PublishStatusChange: %v", err)
	}
	if key := client.sent[0].key; key != "ride.status.SAFETY_ALERT" {
		t.Fatalf("routing key = %q", key)
	}
}

func TestRetry_StopsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, 10, time.Hour, func() error {
		calls++
		cancel()
		return errors.New("fail")
	})
	if err == nil || calls != 1 {
		t.Fatalf("expected one call and an error, got %d calls, err=%v", calls, err)
	}
}
