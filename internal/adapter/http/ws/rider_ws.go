package wshandler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/validator"
	ws "github.com/Temutjin2k/ride-safety/pkg/wsHub"
)

var ErrConnClosed = errors.New("rider connection closed")

// RiderHub talks to riders over their websocket connections.
type RiderHub struct {
	connections *ws.ConnectionHub
	l           logger.Logger
}

func NewRiderHub(connHub *ws.ConnectionHub, l logger.Logger) *RiderHub {
	return &RiderHub{
		connections: connHub,
		l:           l,
	}
}

// Prompt sends a safety_check to the rider and waits for the reply carrying the same check_id.
// Only an answer of "YES" counts as safe. The wait ends with ctx.
func (h *RiderHub) Prompt(ctx context.Context, ride *models.Ride, location string) (bool, error) {
	const op = "RiderHub.Prompt"

	conn, err := h.connections.GetConn(ride.RiderID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	check := models.SafetyCheck{
		ID:       uuid.New(),
		MsgType:  models.SafetyCheckType,
		RideID:   ride.ID,
		Location: location,
		Message:  "Are you safe? Reply YES to confirm.",
	}
	if deadline, ok := ctx.Deadline(); ok {
		check.ExpiresAt = deadline
	}

	ch := make(chan map[string]any, 1)
	conn.Subscribe(check.ID.String(), ch)
	defer conn.Unsubscribe(check.ID.String())

	if err := conn.Send(check); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	case <-conn.Done():
		return false, fmt.Errorf("%s: %w", op, ErrConnClosed)
	case data := <-ch:
		var resp dto.SafetyCheckResp
		if err := decode(data, &resp); err != nil {
			errorResponse(conn, err.Error())
			return false, fmt.Errorf("%s: %w", op, err)
		}

		if errs := validator.Struct(resp); errs != nil {
			if err := failedValidationResponse(conn, errs); err != nil {
				return false, fmt.Errorf("failed send validation response: %w", err)
			}
			return false, fmt.Errorf("%s: %w", op, types.ErrInvalidInput)
		}

		return models.SafetyCheckResponse{Answer: resp.Answer}.Safe(), nil
	}
}

// OnStatusChange forwards ride status updates to the rider when connected.
func (h *RiderHub) OnStatusChange(ctx context.Context, change models.StatusChange) {
	if change.RiderID == "" {
		return
	}

	err := h.connections.SendTo(change.RiderID, map[string]any{
		"type":       "ride_status_update",
		"ride_id":    change.RideID,
		"old_status": change.OldStatus,
		"status":     change.NewStatus,
		"timestamp":  change.Timestamp.Format(time.RFC3339),
	})
	if err != nil && !errors.Is(err, ws.ErrConnIsNotFound) {
		h.l.Warn(wrap.WithAction(ctx, "ws_send_status_update"), "failed to push status update", "error", err.Error())
	}
}
