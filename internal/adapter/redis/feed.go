package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
)

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func channel(rideID uuid.UUID) string {
	return "ride:" + rideID.String() + ":safety"
}

// SafetyFeed fans safety log appends out over redis pub/sub, one channel per ride.
type SafetyFeed struct {
	client *goredis.Client
	l      logger.Logger
}

func NewSafetyFeed(client *goredis.Client, l logger.Logger) *SafetyFeed {
	return &SafetyFeed{client: client, l: l}
}

func (f *SafetyFeed) PublishSafetyEvent(ctx context.Context, msg models.SafetyEventMessage) error {
	ctx = wrap.WithAction(ctx, types.ActionPublishEvent)

	payload, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal safety event: %w", err))
	}

	if err := f.client.Publish(ctx, channel(msg.RideID), payload).Err(); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish safety event: %w", err))
	}
	return nil
}

// Subscribe streams the ride's safety events until ctx is done. Malformed payloads are skipped.
func (f *SafetyFeed) Subscribe(ctx context.Context, rideID uuid.UUID) (<-chan models.SafetyEventMessage, error) {
	pubsub := f.client.Subscribe(ctx, channel(rideID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel(rideID), err)
	}

	out := make(chan models.SafetyEventMessage)
	go func() {
		defer close(out)
		defer pubsub.Close()

		in := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}

				var msg models.SafetyEventMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					f.l.Warn(ctx, "skipping malformed safety event", "channel", m.Channel)
					continue
				}

				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
