package models

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

// Ride is one trip tracked through its lifecycle and, while in progress, the safety monitor.
type Ride struct {
	ID          uuid.UUID
	RiderID     string
	DriverID    *string
	Pickup      string
	Drop        string
	BookingTime time.Time
	Fare        float64
	Status      types.RideStatus

	// Set only on transition to CANCELLED
	CancellationReason string

	// Safety monitoring
	Waypoints        []string
	EmergencyContact string
	AlertsMissed     int
	IsMonitoring     bool
	Escalated        bool
	SafetyLog        []string
}

// Clone returns a deep copy safe to hand out of the registry.
func (r *Ride) Clone() *Ride {
	if r == nil {
		return nil
	}

	c := *r
	if r.DriverID != nil {
		d := *r.DriverID
		c.DriverID = &d
	}
	c.Waypoints = slices.Clone(r.Waypoints)
	c.SafetyLog = slices.Clone(r.SafetyLog)
	return &c
}

// DriverOrEmpty returns the assigned driver or an empty string.
func (r *Ride) DriverOrEmpty() string {
	if r.DriverID == nil {
		return ""
	}
	return *r.DriverID
}

// RideFilter selects rides from the registry. Zero fields match everything.
type RideFilter struct {
	Status     types.RideStatus
	RiderID    string
	DriverID   string
	Unassigned bool
}

func (f RideFilter) Match(r *Ride) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.RiderID != "" && r.RiderID != f.RiderID {
		return false
	}
	if f.DriverID != "" && (r.DriverID == nil || *r.DriverID != f.DriverID) {
		return false
	}
	if f.Unassigned && r.DriverID != nil {
		return false
	}
	return true
}

// StatusChange is emitted by the lifecycle manager after every status write.
type StatusChange struct {
	RideID    uuid.UUID        `json:"ride_id"`
	RiderID   string           `json:"rider_id"`
	OldStatus types.RideStatus `json:"old_status"`
	NewStatus types.RideStatus `json:"new_status"`
	DriverID  *string          `json:"driver_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// TripDetails describes an in-progress trip.
type TripDetails struct {
	RideID           uuid.UUID        `json:"ride_id"`
	RiderID          string           `json:"rider_id"`
	DriverID         string           `json:"driver_id,omitempty"`
	Pickup           string           `json:"pickup"`
	Drop             string           `json:"drop"`
	Status           types.RideStatus `json:"status"`
	Fare             float64          `json:"fare"`
	BookingTime      time.Time        `json:"booking_time"`
	EstimatedArrival time.Time        `json:"estimated_arrival"`
	CurrentLocation  string           `json:"current_location"`
}

// RideStatistics is the admin overview of all rides.
type RideStatistics struct {
	TotalRides       int     `json:"total_rides"`
	CompletedRides   int     `json:"completed_rides"`
	CancelledRides   int     `json:"cancelled_rides"`
	ActiveRides      int     `json:"active_rides"`
	SafetyAlerts     int     `json:"safety_alerts"`
	TotalRevenue     float64 `json:"total_revenue"`
	CompletionRate   float64 `json:"completion_rate"`
	CancellationRate float64 `json:"cancellation_rate"`
}
