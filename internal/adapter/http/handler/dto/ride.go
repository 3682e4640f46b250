package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

type CreateRideRequest struct {
	Pickup string `json:"pickup" validate:"required,max=255"`
	Drop   string `json:"drop" validate:"required,max=255"`
}

type CancelRideRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=REQUESTED ASSIGNED IN_PROGRESS COMPLETED CANCELLED REJECTED SAFETY_ALERT"`
}

type RideResponse struct {
	RideID             uuid.UUID        `json:"ride_id"`
	RiderID            string           `json:"rider_id"`
	DriverID           *string          `json:"driver_id"`
	Pickup             string           `json:"pickup"`
	Drop               string           `json:"drop"`
	BookingTime        time.Time        `json:"booking_time"`
	Fare               float64          `json:"fare"`
	Status             types.RideStatus `json:"status"`
	CancellationReason string           `json:"cancellation_reason,omitempty"`
	Waypoints          []string         `json:"waypoints,omitempty"`
	EmergencyContact   string           `json:"emergency_contact,omitempty"`
	AlertsMissed       int              `json:"alerts_missed"`
	IsMonitoring       bool             `json:"is_monitoring"`
}

func NewRideResponse(r *models.Ride) RideResponse {
	return RideResponse{
		RideID:             r.ID,
		RiderID:            r.RiderID,
		DriverID:           r.DriverID,
		Pickup:             r.Pickup,
		Drop:               r.Drop,
		BookingTime:        r.BookingTime,
		Fare:               r.Fare,
		Status:             r.Status,
		CancellationReason: r.CancellationReason,
		Waypoints:          r.Waypoints,
		EmergencyContact:   r.EmergencyContact,
		AlertsMissed:       r.AlertsMissed,
		IsMonitoring:       r.IsMonitoring,
	}
}

func NewRideList(rides []*models.Ride) []RideResponse {
	out := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, NewRideResponse(r))
	}
	return out
}
