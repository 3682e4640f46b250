package types

const (
	ActionRequestRide      = "request_ride"
	ActionAssignRide       = "assign_ride"
	ActionStartRide        = "start_ride"
	ActionCompleteRide     = "complete_ride"
	ActionCancelRide       = "cancel_ride"
	ActionUpdateRideStatus = "update_ride_status"
	ActionGetRide          = "get_ride"
	ActionListRides        = "list_rides"
	ActionRideStatistics   = "ride_statistics"

	ActionStartMonitoring   = "start_location_monitoring"
	ActionMonitoringSession = "monitoring_session"
	ActionCheckSafety       = "check_safety_status"
	ActionHandleSafetyAlert = "handle_safety_alert"
	ActionEscalate          = "safety_escalation"
	ActionSafetyPrompt      = "safety_prompt"

	ActionPublishEvent    = "publish_event"
	ActionNotifyEmergency = "notify_emergency"
	ActionRiderConnected  = "rider_ws_connected"

	ActionExternalServiceFailed = "external_service_failed"
)
