package ride

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
)

type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) error
	Get(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	Update(ctx context.Context, id uuid.UUID, fn func(ride *models.Ride) error) (*models.Ride, error)
	List(ctx context.Context, filter models.RideFilter) []*models.Ride
}

// StatusPublisher forwards committed status changes to the message broker
type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, change models.StatusChange) error
}

type FareCalculator interface {
	Fare(pickup, drop string) float64
}

// StatusListener is called synchronously after every committed status write.
type StatusListener func(ctx context.Context, change models.StatusChange)
