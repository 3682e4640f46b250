package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

func newRide(rider string) *models.Ride {
	return &models.Ride{
		ID:      uuid.New(),
		RiderID: rider,
		Pickup:  "A",
		Drop:    "B",
		Status:  types.StatusRequested,
	}
}

func TestRideRepo_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()

	ride := newRide("r1")
	if err := repo.Create(ctx, ride); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Create(ctx, ride); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("duplicate create: expected ErrInvalidInput, got %v", err)
	}

	got, err := repo.Get(ctx, ride.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Status = types.StatusCancelled

	again, _ := repo.Get(ctx, ride.ID)
	if again.Status != types.StatusRequested {
		t.Fatalf("Get must return a copy, stored status changed to %s", again.Status)
	}

	if _, err := repo.Get(ctx, uuid.New()); !errors.Is(err, types.ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}
}

func TestRideRepo_UpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()
	ride := newRide("r1")
	_ = repo.Create(ctx, ride)

	boom := errors.New("boom")
	_, err := repo.Update(ctx, ride.ID, func(r *models.Ride) error {
		r.Status = types.StatusAssigned
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	got, _ := repo.Get(ctx, ride.ID)
	if got.Status != types.StatusRequested {
		t.Fatalf("failed update was committed: %s", got.Status)
	}

	if _, err := repo.Update(ctx, uuid.New(), func(*models.Ride) error { return nil }); !errors.Is(err, types.ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}
}

func TestRideRepo_UpdateCheckedStampsLastCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()
	ride := newRide("r1")
	_ = repo.Create(ctx, ride)

	if _, ok := repo.LastCheck(ctx, ride.ID); ok {
		t.Fatal("last check must be absent before monitoring")
	}

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if _, err := repo.UpdateChecked(ctx, ride.ID, at, func(r *models.Ride) error {
		r.AlertsMissed++
		return nil
	}); err != nil {
		t.Fatalf("UpdateChecked: %v", err)
	}

	got, ok := repo.LastCheck(ctx, ride.ID)
	if !ok || !got.Equal(at) {
		t.Fatalf("last check = %v (%v), want %v", got, ok, at)
	}

	skip := errors.New("skip")
	later := at.Add(time.Hour)
	_, _ = repo.UpdateChecked(ctx, ride.ID, later, func(*models.Ride) error { return skip })
	if got, _ := repo.LastCheck(ctx, ride.ID); !got.Equal(at) {
		t.Fatalf("aborted update must not stamp last check, got %v", got)
	}
}

func TestRideRepo_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()

	var ids []uuid.UUID
	for range 5 {
		r := newRide("r1")
		ids = append(ids, r.ID)
		_ = repo.Create(ctx, r)
	}
	_ = repo.Create(ctx, newRide("r2"))

	list := repo.List(ctx, models.RideFilter{RiderID: "r1"})
	if len(list) != len(ids) {
		t.Fatalf("expected %d rides, got %d", len(ids), len(list))
	}
	for i, r := range list {
		if r.ID != ids[i] {
			t.Fatalf("position %d: got %s, want %s", i, r.ID, ids[i])
		}
	}
}

func TestRideRepo_ConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()
	ride := newRide("r1")
	_ = repo.Create(ctx, ride)

	const n = 100
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(ctx, ride.ID, func(r *models.Ride) error {
				r.AlertsMissed++
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := repo.Get(ctx, ride.ID)
	if got.AlertsMissed != n {
		t.Fatalf("lost updates: got %d, want %d", got.AlertsMissed, n)
	}
}
