package wshandler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/ride-safety/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/validator"
	ws "github.com/Temutjin2k/ride-safety/pkg/wsHub"
)

// authTimeout bounds the wait for the first message on a fresh connection.
const authTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*models.Identity, error)
}

// Connect upgrades GET /ws/riders/{rider_id}. The first message must be
// {"type":"auth","token":"..."} for the same rider, otherwise the socket is closed.
func (h *RiderHub) Connect(auth TokenValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := wrap.WithAction(r.Context(), types.ActionRiderConnected)
		riderID := r.PathValue("rider_id")
		if riderID == "" {
			http.Error(w, "rider_id is required", http.StatusBadRequest)
			return
		}
		ctx = wrap.WithUserID(ctx, riderID)

		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to upgrade connection", err)
			return
		}

		if err := h.authenticate(ctx, raw, auth, riderID); err != nil {
			h.l.Warn(ctx, "websocket auth rejected", "error", err.Error())
			_ = raw.WriteJSON(map[string]any{"error": err.Error()})
			_ = raw.Close()
			return
		}

		conn := ws.NewConn(ctx, riderID, raw)
		if err := h.connections.Add(conn); err != nil {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register connection", err)
			_ = conn.Close()
			return
		}
		defer h.connections.Remove(conn)

		if err := conn.Send(map[string]any{"type": "auth_ok", "rider_id": riderID}); err != nil {
			h.l.Warn(ctx, "failed to acknowledge auth", "error", err.Error())
			return
		}
		h.l.Info(ctx, "rider connected")

		err = conn.Listen(func(msg map[string]any) error {
			h.l.Debug(ctx, "ignoring unsolicited message", "type", msg["type"])
			return nil
		})
		h.l.Info(ctx, "rider disconnected", "reason", err.Error())
	}
}

func (h *RiderHub) authenticate(ctx context.Context, raw *websocket.Conn, auth TokenValidator, riderID string) error {
	if err := raw.SetReadDeadline(time.Now().Add(authTimeout)); err != nil {
		return err
	}

	var msg dto.AuthMessage
	if err := raw.ReadJSON(&msg); err != nil {
		return errors.New("expected auth message")
	}
	if errs := validator.Struct(msg); errs != nil {
		return types.ErrInvalidInput
	}

	id, err := auth.Validate(ctx, msg.Token)
	if err != nil {
		return types.ErrInvalidToken
	}
	if id.UserID != riderID || id.Role != types.PassengerRole {
		return types.ErrPermissionDenied
	}

	return raw.SetReadDeadline(time.Time{})
}
