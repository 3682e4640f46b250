package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/metrics"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
	ErrListenTimeout  = errors.New("timed out waiting for response")
)

// ConnectionHub keeps every active WebSocket connection keyed by entity id
type ConnectionHub struct {
	clients map[string]*Conn
	l       logger.Logger
	mu      sync.Mutex
	wg      sync.WaitGroup
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[string]*Conn),
		l:       l,
	}
}

// Add registers a connection. An existing connection for the same entity is closed and replaced.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "add_ws_connection")

	if existing, ok := h.clients[newConn.entityID]; ok {
		h.l.Warn(ctx, "replacing existing connection", "entity_id", existing.entityID)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "entity_id", existing.entityID, "error", err.Error())
		}
		h.wg.Done()
		metrics.WebSocketConnectionsGauge.Dec()
	}

	h.clients[newConn.entityID] = newConn
	h.wg.Add(1)
	metrics.WebSocketConnectionsGauge.Inc()

	return nil
}

// Remove closes and forgets conn, if it is still the registered connection for its entity
func (h *ConnectionHub) Remove(conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[conn.entityID]
	if !ok || current != conn {
		_ = conn.Close()
		return
	}
	h.deleteLocked(conn.entityID)
}

// Delete closes and removes the connection by entity id
func (h *ConnectionHub) Delete(entityID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[entityID]; !ok {
		h.l.Warn(wrap.WithAction(context.Background(), "ws_connection_delete"), "delete called for unknown entity", "entity_id", entityID)
		return ErrConnIsNotFound
	}
	h.deleteLocked(entityID)
	return nil
}

func (h *ConnectionHub) deleteLocked(entityID string) {
	conn := h.clients[entityID]
	if err := conn.Close(); err != nil {
		h.l.Debug(wrap.WithAction(context.Background(), "ws_connection_delete"), "failed to close conn", "entity_id", entityID, "error", err.Error())
	}

	delete(h.clients, entityID)
	h.wg.Done()
	metrics.WebSocketConnectionsGauge.Dec()
}

// SendTo sends a message to the entity. Returns ErrConnIsNotFound if it is not connected.
func (h *ConnectionHub) SendTo(id string, msg any) error {
	conn, err := h.GetConn(id)
	if err != nil {
		return err
	}
	return conn.Send(msg)
}

// Close closes every websocket connection
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		_ = h.Delete(id)
	}

	h.wg.Wait()

	h.l.Info(ctx, "all websocket connections closed gracefully")
}

func (h *ConnectionHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// GetConn returns the connection of the entity
func (h *ConnectionHub) GetConn(id string) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[id]
	if !ok {
		return nil, ErrConnIsNotFound
	}
	return conn, nil
}
