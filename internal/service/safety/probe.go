package safety

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
)

// SimulatedProbe places the ride somewhere between its pickup and drop.
type SimulatedProbe struct{}

func (SimulatedProbe) CurrentLocation(ctx context.Context, ride *models.Ride) (string, error) {
	return fmt.Sprintf("Simulated location between %s and %s", ride.Pickup, ride.Drop), nil
}

// AlwaysNear treats every location as close to a waypoint.
type AlwaysNear struct{}

func (AlwaysNear) IsNear(location string, waypoints []string) bool {
	return true
}

// NearFunc adapts a plain function to ProximityPredicate.
type NearFunc func(location string, waypoints []string) bool

func (f NearFunc) IsNear(location string, waypoints []string) bool {
	return f(location, waypoints)
}

// PromptFunc adapts a plain function to Prompter.
type PromptFunc func(ctx context.Context, ride *models.Ride, location string) (bool, error)

func (f PromptFunc) Prompt(ctx context.Context, ride *models.Ride, location string) (bool, error) {
	return f(ctx, ride, location)
}
