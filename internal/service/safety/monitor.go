package safety

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/internal/service/ride"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/metrics"
)

const unknownLocation = "unknown"

var errNotMonitoring = errors.New("ride is not monitored")

// Monitor runs one monitoring session per ride and owns the miss counter and escalation policy.
type Monitor struct {
	repo     RideRepo
	rides    Lifecycle
	probe    LocationProbe
	near     ProximityPredicate
	notifier Notifier
	prompter Prompter
	sink     EventSink
	logger   logger.Logger
	now      func() time.Time
	cfg      Config

	// parent of every session context, cancelled by Close
	root   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	nextGen  uint64
	wg       sync.WaitGroup
}

type Option func(*Monitor)

func WithConfig(cfg Config) Option {
	return func(m *Monitor) {
		m.cfg = cfg
	}
}

func WithProbe(p LocationProbe) Option {
	return func(m *Monitor) {
		m.probe = p
	}
}

func WithPredicate(p ProximityPredicate) Option {
	return func(m *Monitor) {
		m.near = p
	}
}

func WithNotifier(n Notifier) Option {
	return func(m *Monitor) {
		m.notifier = n
	}
}

func WithPrompter(p Prompter) Option {
	return func(m *Monitor) {
		m.prompter = p
	}
}

func WithEventSink(s EventSink) Option {
	return func(m *Monitor) {
		m.sink = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// NewMonitor subscribes to the lifecycle so that leaving IN_PROGRESS ends the ride's session.
func NewMonitor(repo RideRepo, rides Lifecycle, l logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		repo:     repo,
		rides:    rides,
		probe:    SimulatedProbe{},
		near:     AlwaysNear{},
		logger:   l,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cfg = m.cfg.withDefaults()
	m.root, m.cancel = context.WithCancel(context.Background())

	rides.Subscribe(m.onStatusChange)
	return m
}

// StartLocationMonitoring (re)starts the ride's session. Unknown rides are ignored.
func (m *Monitor) StartLocationMonitoring(ctx context.Context, rideID uuid.UUID, waypoints []string, emergencyContact string) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionStartMonitoring)

	sess := m.reserveSession(rideID)
	now := m.now()

	snap, err := m.repo.UpdateChecked(ctx, rideID, now, func(r *models.Ride) error {
		r.Waypoints = slices.Clone(waypoints)
		r.EmergencyContact = emergencyContact
		r.IsMonitoring = true
		r.Escalated = false
		r.AlertsMissed = 0
		return nil
	})
	if err != nil {
		m.dropSession(rideID, sess)
		return ride.ResolveMissing(ctx, m.logger, types.ActionStartMonitoring, err)
	}

	m.logger.Info(ctx, "location monitoring started", "waypoints", len(waypoints), "poll_interval", m.cfg.PollInterval.String())
	m.publish(ctx, snap, types.EventMonitoringStarted, models.FormatLogEntry(now, "Location monitoring started"))

	m.run(rideID, sess)

	return m.CheckSafetyStatus(ctx, rideID)
}

// CheckSafetyStatus counts a miss when the last check is at least one cadence old.
func (m *Monitor) CheckSafetyStatus(ctx context.Context, rideID uuid.UUID) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionCheckSafety)

	last, ok := m.repo.LastCheck(ctx, rideID)
	if !ok {
		return nil
	}

	if elapsed := m.now().Sub(last); elapsed >= m.cfg.Cadence {
		m.logger.Debug(ctx, "safety check overdue", "elapsed", elapsed.String())
		return m.HandleSafetyAlert(ctx, rideID, false)
	}
	return nil
}

// HandleSafetyAlert records one check outcome. A miss that reaches the threshold escalates once per session;
// further misses on an escalated ride fail with ErrAlreadyEscalated.
func (m *Monitor) HandleSafetyAlert(ctx context.Context, rideID uuid.UUID, responded bool) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, rideID.String()), types.ActionHandleSafetyAlert)

	var (
		now      = m.now()
		event    types.SafetyEvent
		entry    string
		escalate bool
	)

	snap, err := m.repo.UpdateChecked(ctx, rideID, now, func(r *models.Ride) error {
		if !r.IsMonitoring {
			return errNotMonitoring
		}

		if responded {
			r.AlertsMissed = 0
			event = types.EventCheckAcknowledged
			entry = models.FormatLogEntry(now, "Safety check acknowledged")
			r.SafetyLog = append(r.SafetyLog, entry)
			return nil
		}

		if r.Escalated {
			return types.ErrAlreadyEscalated
		}

		r.AlertsMissed++
		event = types.EventCheckMissed
		entry = models.FormatLogEntry(now, fmt.Sprintf("Missed safety check #%d", r.AlertsMissed))
		r.SafetyLog = append(r.SafetyLog, entry)

		if r.AlertsMissed >= m.cfg.MissThreshold {
			r.Escalated = true
			escalate = true
		}
		return nil
	})
	switch {
	case errors.Is(err, errNotMonitoring):
		m.logger.Debug(ctx, "ride is not monitored, ignoring safety check")
		return nil
	case errors.Is(err, types.ErrAlreadyEscalated):
		return wrap.Error(ctx, err)
	case err != nil:
		return ride.ResolveMissing(ctx, m.logger, types.ActionHandleSafetyAlert, err)
	}

	metrics.RecordSafetyCheck(responded)
	m.logger.Info(ctx, "safety log entry appended", "event", event, "alerts_missed", snap.AlertsMissed)
	m.publish(ctx, snap, event, entry)

	if escalate {
		return m.escalate(ctx, snap)
	}
	return nil
}

// escalate logs and dispatches the emergency alert, then forces SAFETY_ALERT.
// The status is forced even when the notification fails, and neither step is cut short by the
// session ending underneath it.
func (m *Monitor) escalate(ctx context.Context, snap *models.Ride) error {
	ctx = wrap.WithAction(context.WithoutCancel(ctx), types.ActionEscalate)

	alert := models.EmergencyAlert{
		RideID:           snap.ID,
		Time:             m.now(),
		RiderID:          snap.RiderID,
		DriverID:         snap.DriverOrEmpty(),
		CurrentLocation:  m.currentLocation(ctx, snap),
		Pickup:           snap.Pickup,
		Drop:             snap.Drop,
		MissedChecks:     snap.AlertsMissed,
		EmergencyContact: snap.EmergencyContact,
	}
	entry := models.FormatLogEntry(alert.Time, alert.String())

	updated, err := m.repo.Update(ctx, snap.ID, func(r *models.Ride) error {
		r.SafetyLog = append(r.SafetyLog, entry)
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to append emergency entry: %w", err))
	}

	metrics.SafetyEscalationsTotal.Inc()
	m.logger.Warn(ctx, "safety alert escalated", "alerts_missed", alert.MissedChecks, "emergency_contact", alert.EmergencyContact)
	m.publish(ctx, updated, types.EventEmergency, entry)

	notifyErr := m.notify(ctx, alert)

	if err := m.rides.UpdateRideStatus(ctx, snap.ID, types.StatusSafetyAlert); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to force safety alert status: %w", err))
	}

	if notifyErr != nil {
		return wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrNotifyFailed, notifyErr))
	}
	return nil
}

func (m *Monitor) notify(ctx context.Context, alert models.EmergencyAlert) error {
	ctx = wrap.WithAction(ctx, types.ActionNotifyEmergency)

	if m.notifier == nil {
		m.logger.Warn(ctx, "no notifier configured, emergency alert only logged", "alert", alert.String())
		return nil
	}

	err := m.notifier.Notify(ctx, alert.EmergencyContact, alert)
	metrics.RecordNotification("emergency_contact", err)
	if err != nil {
		m.logger.Error(ctx, "failed to notify emergency contact", err)
	}
	return err
}

// GetCurrentLocation asks the location probe where the ride is.
func (m *Monitor) GetCurrentLocation(ctx context.Context, rideID uuid.UUID) (string, error) {
	ctx = wrap.WithRideID(ctx, rideID.String())

	snap, err := m.repo.Get(ctx, rideID)
	if err != nil {
		return "", wrap.Error(ctx, err)
	}
	return m.currentLocation(ctx, snap), nil
}

func (m *Monitor) currentLocation(ctx context.Context, snap *models.Ride) string {
	location, err := m.probe.CurrentLocation(ctx, snap)
	if err != nil {
		m.logger.Warn(ctx, "location probe failed", "error", err.Error())
		return unknownLocation
	}
	return location
}

func (m *Monitor) GetSafetyLog(ctx context.Context, rideID uuid.UUID) ([]string, error) {
	snap, err := m.repo.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(wrap.WithRideID(ctx, rideID.String()), err)
	}
	return snap.SafetyLog, nil
}

// IsSafetyAlertActive is false for unknown rides.
func (m *Monitor) IsSafetyAlertActive(ctx context.Context, rideID uuid.UUID) bool {
	snap, err := m.repo.Get(ctx, rideID)
	if err != nil {
		return false
	}
	return snap.Status == types.StatusSafetyAlert
}

func (m *Monitor) Status(ctx context.Context, rideID uuid.UUID) (*models.SafetyStatus, error) {
	snap, err := m.repo.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(wrap.WithRideID(ctx, rideID.String()), err)
	}

	st := &models.SafetyStatus{
		RideID:       snap.ID,
		Status:       snap.Status,
		IsMonitoring: snap.IsMonitoring,
		Escalated:    snap.Escalated,
		AlertActive:  snap.Status == types.StatusSafetyAlert,
		AlertsMissed: snap.AlertsMissed,
	}
	if last, ok := m.repo.LastCheck(ctx, rideID); ok {
		st.LastCheck = &last
	}
	return st, nil
}

func (m *Monitor) publish(ctx context.Context, snap *models.Ride, event types.SafetyEvent, entry string) {
	if m.sink == nil {
		return
	}

	err := m.sink.PublishSafetyEvent(ctx, models.SafetyEventMessage{
		RideID:    snap.ID,
		Event:     event,
		Entry:     entry,
		Missed:    snap.AlertsMissed,
		Timestamp: m.now(),
	})
	if err != nil {
		m.logger.Warn(ctx, "failed to publish safety event", "event", event, "error", err.Error())
	}
}

// Close stops every session and waits for them to exit.
func (m *Monitor) Close() {
	m.cancel()
	m.wg.Wait()
}
