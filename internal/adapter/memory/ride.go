package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

// RideRepo keeps rides and their last safety-check timestamps in process memory.
// A single RWMutex guards both maps, so every Update is serialized per ride and
// mutations of the counter and the timestamp land together.
type RideRepo struct {
	mu        sync.RWMutex
	rides     map[uuid.UUID]*models.Ride
	order     []uuid.UUID
	lastCheck map[uuid.UUID]time.Time
}

func NewRideRepo() *RideRepo {
	return &RideRepo{
		rides:     make(map[uuid.UUID]*models.Ride),
		lastCheck: make(map[uuid.UUID]time.Time),
	}
}

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) error {
	if ride == nil || ride.ID == uuid.Nil {
		return fmt.Errorf("ride repo: Create: %w", types.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rides[ride.ID]; exists {
		return fmt.Errorf("ride repo: Create: duplicate id %s: %w", ride.ID, types.ErrInvalidInput)
	}

	r.rides[ride.ID] = ride.Clone()
	r.order = append(r.order, ride.ID)
	return nil
}

// Get returns a copy of the ride.
func (r *RideRepo) Get(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ride, ok := r.rides[id]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	return ride.Clone(), nil
}

// Update applies fn to a working copy under the write lock and commits it when fn returns nil.
// Any error from fn is returned as is and leaves the stored ride untouched.
func (r *RideRepo) Update(ctx context.Context, id uuid.UUID, fn func(ride *models.Ride) error) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.updateLocked(id, fn)
}

// UpdateChecked is Update that also stamps the ride's last-check time on commit.
func (r *RideRepo) UpdateChecked(ctx context.Context, id uuid.UUID, at time.Time, fn func(ride *models.Ride) error) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, err := r.updateLocked(id, fn)
	if err != nil {
		return nil, err
	}
	r.lastCheck[id] = at
	return ride, nil
}

func (r *RideRepo) updateLocked(id uuid.UUID, fn func(ride *models.Ride) error) (*models.Ride, error) {
	stored, ok := r.rides[id]
	if !ok {
		return nil, types.ErrRideNotFound
	}

	work := stored.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	work.ID = stored.ID

	r.rides[id] = work
	return work.Clone(), nil
}

// List returns copies of matching rides in insertion order.
func (r *RideRepo) List(ctx context.Context, filter models.RideFilter) []*models.Ride {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Ride, 0)
	for _, id := range r.order {
		ride := r.rides[id]
		if filter.Match(ride) {
			out = append(out, ride.Clone())
		}
	}
	return out
}

func (r *RideRepo) SetLastCheck(ctx context.Context, id uuid.UUID, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastCheck[id] = at
}

// LastCheck entries are never removed, even for finished rides.
func (r *RideRepo) LastCheck(ctx context.Context, id uuid.UUID) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	at, ok := r.lastCheck[id]
	return at, ok
}
