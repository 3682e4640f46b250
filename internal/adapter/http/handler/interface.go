package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

type RideService interface {
	RequestRide(ctx context.Context, riderID, pickup, drop string) (*models.Ride, error)
	AssignRide(ctx context.Context, rideID uuid.UUID, driverID string) error
	StartRide(ctx context.Context, rideID uuid.UUID) error
	CompleteRide(ctx context.Context, rideID uuid.UUID) error
	CancelRide(ctx context.Context, rideID uuid.UUID, reason string) error
	UpdateRideStatus(ctx context.Context, rideID uuid.UUID, status types.RideStatus) error

	GetAvailableRides(ctx context.Context) []*models.Ride
	GetUserRides(ctx context.Context, userID string, role types.UserRole) []*models.Ride
	GetDriverRides(ctx context.Context, driverID string) []*models.Ride
	GetAllRides(ctx context.Context) []*models.Ride
	GetRideDetails(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	TripDetails(ctx context.Context, rideID uuid.UUID) (*models.TripDetails, error)
	Statistics(ctx context.Context) models.RideStatistics
}

type SafetyService interface {
	StartLocationMonitoring(ctx context.Context, rideID uuid.UUID, waypoints []string, emergencyContact string) error
	HandleSafetyAlert(ctx context.Context, rideID uuid.UUID, responded bool) error
	GetSafetyLog(ctx context.Context, rideID uuid.UUID) ([]string, error)
	Status(ctx context.Context, rideID uuid.UUID) (*models.SafetyStatus, error)
	GetCurrentLocation(ctx context.Context, rideID uuid.UUID) (string, error)
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*models.Identity, error)
}
