package dto

type StartMonitoringRequest struct {
	Waypoints        []string `json:"waypoints" validate:"required,min=1,dive,required,max=255"`
	EmergencyContact string   `json:"emergency_contact" validate:"required,max=255"`
}

type SafetyResponseRequest struct {
	Responded *bool `json:"responded" validate:"required"`
}
