package safety

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/internal/service/ride"
)

type RideRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	Update(ctx context.Context, id uuid.UUID, fn func(ride *models.Ride) error) (*models.Ride, error)
	UpdateChecked(ctx context.Context, id uuid.UUID, at time.Time, fn func(ride *models.Ride) error) (*models.Ride, error)
	LastCheck(ctx context.Context, id uuid.UUID) (time.Time, bool)
}

// Lifecycle is the part of the ride service the monitor drives.
type Lifecycle interface {
	UpdateRideStatus(ctx context.Context, rideID uuid.UUID, status types.RideStatus) error
	Subscribe(fn ride.StatusListener)
}

// LocationProbe reports where an in-progress ride currently is.
type LocationProbe interface {
	CurrentLocation(ctx context.Context, ride *models.Ride) (string, error)
}

type ProximityPredicate interface {
	IsNear(location string, waypoints []string) bool
}

// Notifier delivers an emergency alert to the ride's emergency contact.
type Notifier interface {
	Notify(ctx context.Context, contact string, alert models.EmergencyAlert) error
}

// Prompter asks the rider whether they are safe. It returns true only for an
// explicit acknowledgment and must give up when ctx is done.
type Prompter interface {
	Prompt(ctx context.Context, ride *models.Ride, location string) (bool, error)
}

// EventSink receives every safety log append, e.g. for live feeds.
type EventSink interface {
	PublishSafetyEvent(ctx context.Context, msg models.SafetyEventMessage) error
}
