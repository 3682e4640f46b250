package types

import (
	"errors"
	"testing"
)

func TestParseRideStatus(t *testing.T) {
	for s := range rideStatuses {
		got, err := ParseRideStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseRideStatus(%q) = %q, %v", s, got, err)
		}
	}

	for _, bad := range []string{"", "requested", "FLYING"} {
		if _, err := ParseRideStatus(bad); !errors.Is(err, ErrInvalidRideStatus) {
			t.Fatalf("ParseRideStatus(%q) err = %v", bad, err)
		}
	}
}

func TestUserRoleValid(t *testing.T) {
	if !PassengerRole.Valid() || !DriverRole.Valid() || !AdminRole.Valid() {
		t.Fatalf("known roles must be valid")
	}
	if UserRole("GUEST").Valid() {
		t.Fatalf("unknown role must be invalid")
	}
}
