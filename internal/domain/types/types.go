package types

// RideStatus is the lifecycle state of a ride
type RideStatus string

func (s RideStatus) String() string {
	return string(s)
}

const (
	StatusRequested   RideStatus = "REQUESTED"
	StatusAssigned    RideStatus = "ASSIGNED"
	StatusInProgress  RideStatus = "IN_PROGRESS"
	StatusCompleted   RideStatus = "COMPLETED"
	StatusCancelled   RideStatus = "CANCELLED"
	StatusRejected    RideStatus = "REJECTED"
	StatusSafetyAlert RideStatus = "SAFETY_ALERT"
)

var rideStatuses = map[RideStatus]struct{}{
	StatusRequested:   {},
	StatusAssigned:    {},
	StatusInProgress:  {},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusRejected:    {},
	StatusSafetyAlert: {},
}

// Valid reports whether s is one of the seven known statuses.
func (s RideStatus) Valid() bool {
	_, ok := rideStatuses[s]
	return ok
}

// ParseRideStatus returns ErrInvalidRideStatus for unknown values
func ParseRideStatus(s string) (RideStatus, error) {
	status := RideStatus(s)
	if !status.Valid() {
		return "", ErrInvalidRideStatus
	}
	return status, nil
}

// Enum for user roles
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	PassengerRole UserRole = "PASSENGER"
	DriverRole    UserRole = "DRIVER"
	AdminRole     UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case PassengerRole, DriverRole, AdminRole:
		return true
	}
	return false
}
