package types

// SafetyEvent is the kind of a safety log entry
type SafetyEvent string

func (s SafetyEvent) String() string {
	return string(s)
}

const (
	EventMonitoringStarted SafetyEvent = "MONITORING_STARTED"
	EventCheckMissed       SafetyEvent = "CHECK_MISSED"
	EventCheckAcknowledged SafetyEvent = "CHECK_ACKNOWLEDGED"
	EventEmergency         SafetyEvent = "EMERGENCY"
	EventMonitoringStopped SafetyEvent = "MONITORING_STOPPED"
)
