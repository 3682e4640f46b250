package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

const logTimeLayout = "2006-01-02 15:04:05"

// FormatLogEntry renders a safety log line as "[yyyy-MM-dd HH:mm:ss] msg".
func FormatLogEntry(at time.Time, msg string) string {
	return "[" + at.Format(logTimeLayout) + "] " + msg
}

// EmergencyAlert is the payload dispatched when the miss threshold is reached.
type EmergencyAlert struct {
	RideID           uuid.UUID `json:"ride_id"`
	Time             time.Time `json:"time"`
	RiderID          string    `json:"rider_id"`
	DriverID         string    `json:"driver_id"`
	CurrentLocation  string    `json:"current_location"`
	Pickup           string    `json:"pickup"`
	Drop             string    `json:"drop"`
	MissedChecks     int       `json:"missed_checks"`
	EmergencyContact string    `json:"emergency_contact"`
}

func (a EmergencyAlert) String() string {
	driver := a.DriverID
	if driver == "" {
		driver = "unassigned"
	}

	var b strings.Builder
	b.WriteString("⚠️ EMERGENCY SAFETY ALERT ⚠️\n")
	fmt.Fprintf(&b, "Time: %s\n", a.Time.Format(logTimeLayout))
	fmt.Fprintf(&b, "Rider ID: %s\n", a.RiderID)
	fmt.Fprintf(&b, "Driver ID: %s\n", driver)
	fmt.Fprintf(&b, "Current Location: %s\n", a.CurrentLocation)
	fmt.Fprintf(&b, "Trip: %s → %s\n", a.Pickup, a.Drop)
	fmt.Fprintf(&b, "Missed Checks: %d\n", a.MissedChecks)
	fmt.Fprintf(&b, "Emergency Contact: %s", a.EmergencyContact)
	return b.String()
}

// SafetyEventMessage is one safety log append, as pushed to live feeds.
type SafetyEventMessage struct {
	RideID    uuid.UUID         `json:"ride_id"`
	Event     types.SafetyEvent `json:"event"`
	Entry     string            `json:"entry"`
	Missed    int               `json:"alerts_missed"`
	Timestamp time.Time         `json:"timestamp"`
}

// SafetyStatus is a point-in-time view of a ride's monitoring state.
type SafetyStatus struct {
	RideID       uuid.UUID        `json:"ride_id"`
	Status       types.RideStatus `json:"status"`
	IsMonitoring bool             `json:"is_monitoring"`
	Escalated    bool             `json:"escalated"`
	AlertActive  bool             `json:"alert_active"`
	AlertsMissed int              `json:"alerts_missed"`
	LastCheck    *time.Time       `json:"last_check,omitempty"`
}

/* ======================= Websocket ======================= */

const SafetyCheckType = "safety_check"

// SafetyCheck is the prompt sent to the rider near a waypoint.
type SafetyCheck struct {
	ID        uuid.UUID `json:"check_id"`
	MsgType   string    `json:"type"` // always "safety_check"
	RideID    uuid.UUID `json:"ride_id"`
	Location  string    `json:"location"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SafetyCheckResponse is the rider's answer. Only "YES" counts as safe.
type SafetyCheckResponse struct {
	CheckID uuid.UUID `json:"check_id"`
	Answer  string    `json:"answer"`
}

func (r SafetyCheckResponse) Safe() bool {
	return strings.EqualFold(strings.TrimSpace(r.Answer), "YES")
}
