package safety

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/metrics"
)

// session is one monitoring activity. gen tells a restarted session apart from the one it replaced.
type session struct {
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type promptResult struct {
	safe bool
	err  error
}

// reserveSession cancels the ride's running session, if any, and registers a new one.
func (m *Monitor) reserveSession(rideID uuid.UUID) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.sessions[rideID]; ok {
		prev.cancel()
	}

	m.nextGen++
	ctx, cancel := context.WithCancel(m.root)
	sess := &session{
		gen:    m.nextGen,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.sessions[rideID] = sess
	return sess
}

func (m *Monitor) dropSession(rideID uuid.UUID, sess *session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess.cancel()
	close(sess.done)
	if m.sessions[rideID] == sess {
		delete(m.sessions, rideID)
	}
}

// isCurrent must be called with mu held.
func (m *Monitor) isCurrent(rideID uuid.UUID, sess *session) bool {
	cur, ok := m.sessions[rideID]
	return ok && cur.gen == sess.gen
}

func (m *Monitor) cancelSession(rideID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[rideID]; ok {
		sess.cancel()
	}
}

// onStatusChange interrupts the session, including a pending prompt, once the ride leaves IN_PROGRESS.
func (m *Monitor) onStatusChange(ctx context.Context, change models.StatusChange) {
	if change.NewStatus == types.StatusInProgress {
		return
	}
	m.cancelSession(change.RideID)
}

func (m *Monitor) run(rideID uuid.UUID, sess *session) {
	m.wg.Add(1)
	metrics.MonitoringSessionsActive.Inc()

	go func() {
		defer m.wg.Done()
		defer metrics.MonitoringSessionsActive.Dec()
		defer close(sess.done)

		ctx := wrap.WithAction(wrap.WithRideID(sess.ctx, rideID.String()), types.ActionMonitoringSession)
		m.loop(ctx, rideID)
		m.endSession(rideID, sess)

		m.logger.Info(ctx, "location monitoring stopped", "generation", sess.gen)
	}()
}

// loop polls until the ride leaves IN_PROGRESS, monitoring is cleared or the session is cancelled.
// The first check happens one poll interval after start.
func (m *Monitor) loop(ctx context.Context, rideID uuid.UUID) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !m.tick(ctx, rideID) {
			return
		}
	}
}

func (m *Monitor) tick(ctx context.Context, rideID uuid.UUID) bool {
	snap, err := m.repo.Get(ctx, rideID)
	if err != nil {
		m.logger.Warn(ctx, "monitored ride disappeared", "error", err.Error())
		return false
	}
	if snap.Status != types.StatusInProgress || !snap.IsMonitoring {
		return false
	}

	location := m.currentLocation(ctx, snap)

	if m.prompter != nil && m.near.IsNear(location, snap.Waypoints) {
		safe := m.prompt(ctx, snap, location)
		if ctx.Err() != nil {
			return false
		}
		err = m.HandleSafetyAlert(ctx, rideID, safe)
	} else {
		err = m.CheckSafetyStatus(ctx, rideID)
	}

	if err != nil {
		m.logger.Error(wrap.ErrorCtx(ctx, err), "safety check failed", err)
	}
	return true
}

// prompt races the prompter against the response window. A late answer is dropped.
func (m *Monitor) prompt(ctx context.Context, snap *models.Ride, location string) bool {
	ctx, cancel := context.WithTimeout(wrap.WithAction(ctx, types.ActionSafetyPrompt), m.cfg.ResponseWindow)
	defer cancel()

	start := time.Now()
	resCh := make(chan promptResult, 1)
	go func() {
		safe, err := m.prompter.Prompt(ctx, snap, location)
		resCh <- promptResult{safe: safe, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			m.logger.Info(ctx, "safety check not answered in time", "window", m.cfg.ResponseWindow.String())
		} else {
			m.logger.Debug(ctx, "safety check prompt interrupted")
		}
		return false
	case res := <-resCh:
		metrics.SafetyPromptLatency.Observe(time.Since(start).Seconds())
		if res.err != nil {
			m.logger.Warn(ctx, "safety check prompt failed", "error", res.err.Error())
			return false
		}
		return res.safe
	}
}

// endSession clears IsMonitoring unless a newer session already took over.
func (m *Monitor) endSession(rideID uuid.UUID, sess *session) {
	ctx := wrap.WithRideID(context.Background(), rideID.String())

	_, err := m.repo.Update(ctx, rideID, func(r *models.Ride) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		if !m.isCurrent(rideID, sess) {
			return errNotMonitoring
		}
		delete(m.sessions, rideID)
		r.IsMonitoring = false
		return nil
	})
	if err == nil {
		m.publishStopped(ctx, rideID)
		return
	}

	// stale generation or the ride vanished
	m.mu.Lock()
	if m.isCurrent(rideID, sess) {
		delete(m.sessions, rideID)
	}
	m.mu.Unlock()
}

func (m *Monitor) publishStopped(ctx context.Context, rideID uuid.UUID) {
	if m.sink == nil {
		return
	}
	snap, err := m.repo.Get(ctx, rideID)
	if err != nil {
		return
	}
	m.publish(ctx, snap, types.EventMonitoringStopped, models.FormatLogEntry(m.now(), "Location monitoring stopped"))
}

// active reports whether the ride has a registered session.
func (m *Monitor) active(rideID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[rideID]
	return ok
}
