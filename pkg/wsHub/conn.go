package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second

	// SubscriptionKey is the message field used to route replies to a waiting subscriber
	SubscriptionKey = "check_id"
)

type Conn struct {
	conn     *websocket.Conn
	entityID string
	doneCtx  context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex

	subsMu sync.Mutex
	subs   map[string]chan<- map[string]any
}

func NewConn(ctx context.Context, entityID string, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:     conn,
		entityID: entityID,
		doneCtx:  ctx,
		cancel:   cancel,
		subs:     make(map[string]chan<- map[string]any),
	}
}

func (c *Conn) EntityID() string {
	return c.entityID
}

// Done is closed once the connection is closed
func (c *Conn) Done() <-chan struct{} {
	return c.doneCtx.Done()
}

func (c *Conn) Health() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthLocked()
}

func (c *Conn) healthLocked() error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}

	select {
	case <-c.doneCtx.Done():
		return errors.New("connection context cancelled")
	default:
	}

	if err := c.conn.WriteControl(
		websocket.PingMessage,
		[]byte("ping"),
		time.Now().Add(writeWait),
	); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

func (c *Conn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.healthLocked(); err != nil {
		return fmt.Errorf("send failed: connection not healthy: %w", err)
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// Subscribe routes incoming messages whose SubscriptionKey equals key to ch.
func (c *Conn) Subscribe(key string, ch chan<- map[string]any) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	c.subs[key] = ch
}

func (c *Conn) Unsubscribe(key string) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	delete(c.subs, key)
}

// dispatch hands msg to its subscriber. Returns false if nobody waits for it.
func (c *Conn) dispatch(msg map[string]any) bool {
	key, _ := msg[SubscriptionKey].(string)
	if key == "" {
		return false
	}

	c.subsMu.Lock()
	ch, ok := c.subs[key]
	if ok {
		delete(c.subs, key)
	}
	c.subsMu.Unlock()

	if !ok {
		return false
	}

	// subscriber channels are buffered; a full channel means the answer is already there
	select {
	case ch <- msg:
	default:
	}
	return true
}

// Listen reads messages until the connection fails or is closed.
// Replies to subscriptions are dispatched, everything else goes to handler.
func (c *Conn) Listen(handler func(msg map[string]any) error) error {
	for {
		select {
		case <-c.doneCtx.Done():
			return errors.New("listen stopped: context done")
		default:
		}

		var msg map[string]any
		if err := c.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read failed: %w", err)
		}

		if c.dispatch(msg) {
			continue
		}

		if handler == nil {
			continue
		}
		if err := handler(msg); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
