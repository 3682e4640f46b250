package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
)

const (
	actionConnected        = "rabbitmq_connected"
	actionConnectionClosed = "rabbitmq_connection_closed"
	actionClosing          = "rabbitmq_connection_closing"
	actionReconnected      = "rabbitmq_reconnection_success"

	heartbeat        = 10 * time.Second
	reconnectAttempt = 5
)

var ErrClosed = errors.New("rabbitmq connection is closed")

type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	isClosed bool
	mu       sync.Mutex
	dsn      string

	log logger.Logger
}

// New dials the broker and opens a channel
func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		dsn: dsn,
		log: log,
	}

	if err := r.connect(ctx); err != nil {
		return nil, err
	}

	log.Info(wrap.WithAction(ctx, actionConnected), "connected to rabbitMQ")
	return r, nil
}

// connect must be called with mu held or before the client is shared
func (r *RabbitMQ) connect(ctx context.Context) error {
	conn, err := amqp.DialConfig(r.dsn, amqp.Config{
		Heartbeat: heartbeat,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	closeCh := make(chan *amqp.Error, 1)
	conn.NotifyClose(closeCh)

	r.conn = conn
	r.channel = ch
	r.isClosed = false

	go r.monitorConnection(closeCh)

	return nil
}

// monitorConnection marks the client closed once the broker drops the connection
func (r *RabbitMQ) monitorConnection(closeCh <-chan *amqp.Error) {
	closeErr := <-closeCh

	r.mu.Lock()
	r.isClosed = true
	r.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), actionConnectionClosed)
	if closeErr != nil {
		r.log.Error(ctx, "RabbitMQ connection closed with error", closeErr)
	} else {
		r.log.Debug(ctx, "RabbitMQ connection closed gracefully")
	}
}

// IsConnectionClosed checks if the connection is closed
func (r *RabbitMQ) IsConnectionClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closedLocked()
}

func (r *RabbitMQ) closedLocked() bool {
	return r.conn == nil || r.isClosed || r.conn.IsClosed() || r.channel == nil || r.channel.IsClosed()
}

// DeclareTopicExchange declares a durable topic exchange
func (r *RabbitMQ) DeclareTopicExchange(ctx context.Context, name string) error {
	if err := r.EnsureConnection(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.channel.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", name, err)
	}
	return nil
}

// Publish sends a message on the current channel
func (r *RabbitMQ) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if err := r.EnsureConnection(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	ch := r.channel
	r.mu.Unlock()

	if ch == nil {
		return ErrClosed
	}

	return ch.PublishWithContext(ctx, exchange, key, false, false, msg)
}

// Close closes rabbit channel and connection
func (r *RabbitMQ) Close(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, actionClosing)

	r.mu.Lock()
	if r.conn == nil {
		r.mu.Unlock()
		return nil
	}
	r.isClosed = true
	ch := r.channel
	conn := r.conn
	r.channel = nil
	r.conn = nil
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

	r.log.Info(wrap.WithAction(ctx, actionConnectionClosed), "rabbitMQ closed")
	return nil
}

// closeWithCtxFunc closes a resource without outliving ctx
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

// Reconnect re-dials the broker with a linear backoff
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dsn == "" {
		return errors.New("dsn is empty: can't reconnect")
	}

	if !r.closedLocked() {
		return nil
	}

	var err error
	for i := range reconnectAttempt {
		if err = r.connect(ctx); err == nil {
			break
		}

		wait := time.Duration(i+1) * 2 * time.Second
		r.log.Debug(ctx, fmt.Sprintf("reconnect attempt %d failed, retrying in %v", i+1, wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
	}

	r.log.Info(wrap.WithAction(ctx, actionReconnected), "RabbitMQ reconnected successfully")
	return nil
}

func (r *RabbitMQ) EnsureConnection(ctx context.Context) error {
	if r.IsConnectionClosed() {
		r.log.Warn(ctx, "rabbit connection closed, reconnecting...")
		if err := r.Reconnect(ctx); err != nil {
			return err
		}
	}
	return nil
}
