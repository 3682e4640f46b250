package types

import "errors"

var (
	ErrRideNotFound      = errors.New("ride not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRideStatus = errors.New("invalid ride status")
	ErrAlreadyEscalated  = errors.New("safety alert already escalated for this ride")

	ErrInvalidRole      = errors.New("invalid role")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidToken     = errors.New("invalid token")

	ErrNotifyFailed = errors.New("failed to dispatch notification")
)
