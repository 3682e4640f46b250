package dto

// SafetyCheckResp is the rider's answer to a safety_check prompt.
type SafetyCheckResp struct {
	CheckID string `json:"check_id" validate:"required,uuid"`
	Answer  string `json:"answer" validate:"required,max=16"`
}

// AuthMessage must be the first message on a rider connection.
type AuthMessage struct {
	Type  string `json:"type" validate:"required,oneof=auth"`
	Token string `json:"token" validate:"required"`
}
