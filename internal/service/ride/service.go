package ride

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/metrics"
)

type RideService struct {
	repo      RideRepo
	fare      FareCalculator
	publisher StatusPublisher
	logger    logger.Logger
	now       func() time.Time

	mu        sync.RWMutex
	listeners []StatusListener
}

type Option func(*RideService)

func WithPublisher(p StatusPublisher) Option {
	return func(s *RideService) {
		s.publisher = p
	}
}

func WithFare(f FareCalculator) Option {
	return func(s *RideService) {
		s.fare = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *RideService) {
		s.now = now
	}
}

func NewRideService(repo RideRepo, logger logger.Logger, opts ...Option) *RideService {
	s := &RideService{
		repo:   repo,
		fare:   FixedFare(DefaultBaseFare),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every committed status change.
func (s *RideService) Subscribe(fn StatusListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// RequestRide creates a ride in REQUESTED status.
func (s *RideService) RequestRide(ctx context.Context, riderID, pickup, drop string) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, types.ActionRequestRide)

	ride := &models.Ride{
		ID:          uuid.New(),
		RiderID:     riderID,
		Pickup:      pickup,
		Drop:        drop,
		BookingTime: s.now(),
		Fare:        s.fare.Fare(pickup, drop),
		Status:      types.StatusRequested,
	}

	if err := s.repo.Create(ctx, ride); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not create ride in repo: %w", err))
	}

	ctx = wrap.WithRideID(ctx, ride.ID.String())
	metrics.RideTransitionsTotal.WithLabelValues(ride.Status.String()).Inc()
	s.logger.Info(ctx, "ride requested", "rider_id", riderID, "fare", ride.Fare)

	return ride, nil
}

func (s *RideService) AssignRide(ctx context.Context, rideID uuid.UUID, driverID string) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionAssignRide)

	return s.transition(ctx, types.ActionAssignRide, rideID, types.StatusAssigned, func(r *models.Ride) {
		r.DriverID = &driverID
	})
}

func (s *RideService) StartRide(ctx context.Context, rideID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionStartRide)

	return s.transition(ctx, types.ActionStartRide, rideID, types.StatusInProgress, nil)
}

func (s *RideService) CompleteRide(ctx context.Context, rideID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionCompleteRide)

	return s.transition(ctx, types.ActionCompleteRide, rideID, types.StatusCompleted, nil)
}

// CancelRide fails with ErrRideNotFound for unknown rides.
func (s *RideService) CancelRide(ctx context.Context, rideID uuid.UUID, reason string) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionCancelRide)

	return s.transition(ctx, types.ActionCancelRide, rideID, types.StatusCancelled, func(r *models.Ride) {
		r.CancellationReason = reason
	})
}

// UpdateRideStatus sets the status without checking the source state.
func (s *RideService) UpdateRideStatus(ctx context.Context, rideID uuid.UUID, status types.RideStatus) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionUpdateRideStatus)

	if !status.Valid() {
		return wrap.Error(ctx, types.ErrInvalidRideStatus)
	}

	return s.transition(ctx, types.ActionUpdateRideStatus, rideID, status, nil)
}

// transition writes status (and any extra fields from mutate) and notifies listeners.
// Source states are not validated.
func (s *RideService) transition(ctx context.Context, action string, rideID uuid.UUID, status types.RideStatus, mutate func(*models.Ride)) error {
	var old types.RideStatus

	ride, err := s.repo.Update(ctx, rideID, func(r *models.Ride) error {
		old = r.Status
		r.Status = status
		if mutate != nil {
			mutate(r)
		}
		return nil
	})
	if err != nil {
		return ResolveMissing(ctx, s.logger, action, err)
	}

	change := models.StatusChange{
		RideID:    ride.ID,
		RiderID:   ride.RiderID,
		OldStatus: old,
		NewStatus: ride.Status,
		DriverID:  ride.DriverID,
		Timestamp: s.now(),
	}

	metrics.RideTransitionsTotal.WithLabelValues(status.String()).Inc()
	s.logger.Info(ctx, "ride status changed", "old_status", old, "new_status", status)

	s.emit(ctx, change)
	return nil
}

func (s *RideService) emit(ctx context.Context, change models.StatusChange) {
	s.mu.RLock()
	listeners := make([]StatusListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, change)
	}

	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishStatusChange(ctx, change); err != nil {
		s.logger.Error(wrap.ErrorCtx(ctx, err), "failed to publish ride status change", err)
	}
}

// GetAvailableRides returns REQUESTED rides without a driver, in creation order.
func (s *RideService) GetAvailableRides(ctx context.Context) []*models.Ride {
	return s.repo.List(wrap.WithAction(ctx, types.ActionListRides), models.RideFilter{
		Status:     types.StatusRequested,
		Unassigned: true,
	})
}

// GetUserRides lists a driver's assigned rides or anyone else's booked rides.
func (s *RideService) GetUserRides(ctx context.Context, userID string, role types.UserRole) []*models.Ride {
	ctx = wrap.WithAction(ctx, types.ActionListRides)

	if role == types.DriverRole {
		return s.repo.List(ctx, models.RideFilter{DriverID: userID})
	}
	return s.repo.List(ctx, models.RideFilter{RiderID: userID})
}

func (s *RideService) GetDriverRides(ctx context.Context, driverID string) []*models.Ride {
	return s.repo.List(wrap.WithAction(ctx, types.ActionListRides), models.RideFilter{DriverID: driverID})
}

func (s *RideService) GetAllRides(ctx context.Context) []*models.Ride {
	return s.repo.List(wrap.WithAction(ctx, types.ActionListRides), models.RideFilter{})
}

func (s *RideService) GetRideDetails(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionGetRide)

	ride, err := s.repo.Get(ctx, rideID)
	if err != nil {
		return nil, ResolveMissing(ctx, s.logger, types.ActionGetRide, err)
	}
	return ride, nil
}

// TripDetails describes an in-progress ride. The ETA is a fixed offset from booking time.
func (s *RideService) TripDetails(ctx context.Context, rideID uuid.UUID) (*models.TripDetails, error) {
	ride, err := s.GetRideDetails(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != types.StatusInProgress {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: trip details require %s, ride is %s", types.ErrInvalidRideStatus, types.StatusInProgress, ride.Status))
	}

	return &models.TripDetails{
		RideID:           ride.ID,
		RiderID:          ride.RiderID,
		DriverID:         ride.DriverOrEmpty(),
		Pickup:           ride.Pickup,
		Drop:             ride.Drop,
		Status:           ride.Status,
		Fare:             ride.Fare,
		BookingTime:      ride.BookingTime,
		EstimatedArrival: ride.BookingTime.Add(tripDuration),
	}, nil
}

// Statistics summarizes all rides. Revenue counts completed rides only; rates are percentages.
func (s *RideService) Statistics(ctx context.Context) models.RideStatistics {
	ctx = wrap.WithAction(ctx, types.ActionRideStatistics)

	var stats models.RideStatistics
	for _, r := range s.repo.List(ctx, models.RideFilter{}) {
		stats.TotalRides++
		switch r.Status {
		case types.StatusCompleted:
			stats.CompletedRides++
			stats.TotalRevenue += r.Fare
		case types.StatusCancelled:
			stats.CancelledRides++
		case types.StatusRequested, types.StatusAssigned, types.StatusInProgress:
			stats.ActiveRides++
		case types.StatusSafetyAlert:
			stats.SafetyAlerts++
		}
	}

	if stats.TotalRides > 0 {
		total := float64(stats.TotalRides)
		stats.CompletionRate = float64(stats.CompletedRides) / total * 100
		stats.CancellationRate = float64(stats.CancelledRides) / total * 100
	}

	return stats
}
