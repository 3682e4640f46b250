package wshandler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	ws "github.com/Temutjin2k/ride-safety/pkg/wsHub"
)

type fakeTokens map[string]models.Identity

func (f fakeTokens) Validate(_ context.Context, token string) (*models.Identity, error) {
	id, ok := f[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &id, nil
}

func newRiderServer(t *testing.T) (*RiderHub, *httptest.Server) {
	t.Helper()
	l := logger.Discard()
	hub := NewRiderHub(ws.NewConnHub(l), l)
	tokens := fakeTokens{
		"rider-1-token":  {UserID: "rider-1", Role: types.PassengerRole},
		"driver-1-token": {UserID: "rider-1", Role: types.DriverRole},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/riders/{rider_id}", hub.Connect(tokens))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialRider(t *testing.T, srv *httptest.Server, riderID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/riders/" + riderID
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
	return c
}

func authenticate(t *testing.T, c *websocket.Conn, token string) map[string]any {
	t.Helper()
	if err := c.WriteJSON(map[string]any{"type": "auth", "token": token}); err != nil {
		t.Fatalf("write auth: %v", err)
	}
	var reply map[string]any
	if err := c.ReadJSON(&reply); err != nil {
		t.Fatalf("read auth reply: %v", err)
	}
	return reply
}

func waitConnected(t *testing.T, hub *RiderHub, riderID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := hub.connections.GetConn(riderID); err == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("rider %s never registered", riderID)
}

func TestConnect_PromptRoundTrip(t *testing.T) {
	hub, srv := newRiderServer(t)
	c := dialRider(t, srv, "rider-1")

	if reply := authenticate(t, c, "rider-1-token"); reply["type"] != "auth_ok" {
		t.Fatalf("auth reply = %v", reply)
	}
	waitConnected(t, hub, "rider-1")

	ride := &models.Ride{ID: uuid.New(), RiderID: "rider-1"}
	type result struct {
		safe bool
		err  error
	}
	done := make(chan result, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		safe, err := hub.Prompt(ctx, ride, "Main St")
		done <- result{safe, err}
	}()

	var check map[string]any
	if err := c.ReadJSON(&check); err != nil {
		t.Fatalf("read check: %v", err)
	}
	if check["type"] != models.SafetyCheckType {
		t.Fatalf("type = %v", check["type"])
	}
	if check["location"] != "Main St" {
		t.Fatalf("location = %v", check["location"])
	}

	if err := c.WriteJSON(map[string]any{"check_id": check["check_id"], "answer": " yes "}); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	select {
	case res := <-done:
		if res.err != nil || !res.safe {
			t.Fatalf("prompt = %v, %v; want true, nil", res.safe, res.err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("prompt did not return")
	}
}

func TestConnect_NegativeAnswerIsUnsafe(t *testing.T) {
	hub, srv := newRiderServer(t)
	c := dialRider(t, srv, "rider-1")
	authenticate(t, c, "rider-1-token")
	waitConnected(t, hub, "rider-1")

	done := make(chan bool, 1)
	go func() {
		safe, _ := hub.Prompt(context.Background(), &models.Ride{ID: uuid.New(), RiderID: "rider-1"}, "x")
		done <- safe
	}()

	var check map[string]any
	if err := c.ReadJSON(&check); err != nil {
		t.Fatalf("read check: %v", err)
	}
	_ = c.WriteJSON(map[string]any{"check_id": check["check_id"], "answer": "no"})

	select {
	case safe := <-done:
		if safe {
			t.Fatalf("answer no must not count as safe")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("prompt did not return")
	}
}

func TestConnect_RejectsForeignToken(t *testing.T) {
	tests := []struct {
		name  string
		rider string
		token string
	}{
		{"other rider", "rider-2", "rider-1-token"},
		{"wrong role", "rider-1", "driver-1-token"},
		{"unknown token", "rider-1", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, srv := newRiderServer(t)
			c := dialRider(t, srv, tt.rider)

			reply := authenticate(t, c, tt.token)
			if _, ok := reply["error"]; !ok {
				t.Fatalf("expected error reply, got %v", reply)
			}

			var next map[string]any
			if err := c.ReadJSON(&next); err == nil {
				t.Fatalf("connection should be closed, got %v", next)
			}
			if hub.connections.Count() != 0 {
				t.Fatalf("rejected rider must not be registered")
			}
		})
	}
}

func TestPrompt_NotConnected(t *testing.T) {
	l := logger.Discard()
	hub := NewRiderHub(ws.NewConnHub(l), l)

	_, err := hub.Prompt(context.Background(), &models.Ride{ID: uuid.New(), RiderID: "ghost"}, "x")
	if !errors.Is(err, ws.ErrConnIsNotFound) {
		t.Fatalf("err = %v, want ErrConnIsNotFound", err)
	}
}

func TestOnStatusChange_PushesToRider(t *testing.T) {
	hub, srv := newRiderServer(t)
	c := dialRider(t, srv, "rider-1")
	authenticate(t, c, "rider-1-token")
	waitConnected(t, hub, "rider-1")

	rideID := uuid.New()
	hub.OnStatusChange(context.Background(), models.StatusChange{
		RideID:    rideID,
		RiderID:   "rider-1",
		OldStatus: types.StatusAssigned,
		NewStatus: types.StatusInProgress,
		Timestamp: time.Now(),
	})

	var msg map[string]any
	if err := c.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg["type"] != "ride_status_update" || msg["status"] != string(types.StatusInProgress) {
		t.Fatalf("unexpected message %v", msg)
	}
	if msg["ride_id"] != rideID.String() {
		t.Fatalf("ride_id = %v", msg["ride_id"])
	}
}
