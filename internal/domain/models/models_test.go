package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

func TestRide_CloneIsDeep(t *testing.T) {
	driver := "d1"
	r := &Ride{
		ID:        uuid.New(),
		DriverID:  &driver,
		Waypoints: []string{"B"},
		SafetyLog: []string{"one"},
	}

	c := r.Clone()
	*c.DriverID = "d2"
	c.Waypoints[0] = "C"
	c.SafetyLog = append(c.SafetyLog, "two")

	if *r.DriverID != "d1" {
		t.Fatalf("driver id leaked through clone: %s", *r.DriverID)
	}
	if r.Waypoints[0] != "B" {
		t.Fatalf("waypoints leaked through clone: %v", r.Waypoints)
	}
	if len(r.SafetyLog) != 1 {
		t.Fatalf("safety log leaked through clone: %v", r.SafetyLog)
	}
}

func TestRideFilter_Match(t *testing.T) {
	driver := "d1"
	assigned := &Ride{RiderID: "r1", DriverID: &driver, Status: types.StatusAssigned}
	open := &Ride{RiderID: "r2", Status: types.StatusRequested}

	tests := []struct {
		name   string
		filter RideFilter
		ride   *Ride
		want   bool
	}{
		{"empty matches", RideFilter{}, assigned, true},
		{"status", RideFilter{Status: types.StatusRequested}, assigned, false},
		{"rider", RideFilter{RiderID: "r1"}, assigned, true},
		{"driver", RideFilter{DriverID: "d1"}, open, false},
		{"unassigned excludes driver", RideFilter{Unassigned: true}, assigned, false},
		{"available", RideFilter{Status: types.StatusRequested, Unassigned: true}, open, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(tt.ride); got != tt.want {
				t.Fatalf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatLogEntry(t *testing.T) {
	at := time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC)
	got := FormatLogEntry(at, "Safety check acknowledged")
	want := "[2024-03-07 09:05:01] Safety check acknowledged"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmergencyAlert_String(t *testing.T) {
	a := EmergencyAlert{
		Time:             time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC),
		RiderID:          "r1",
		CurrentLocation:  "somewhere",
		Pickup:           "A",
		Drop:             "B",
		MissedChecks:     5,
		EmergencyContact: "contact-1",
	}

	s := a.String()
	for _, want := range []string{
		"EMERGENCY SAFETY ALERT",
		"Rider ID: r1",
		"Driver ID: unassigned",
		"Trip: A → B",
		"Missed Checks: 5",
		"Emergency Contact: contact-1",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("alert %q missing %q", s, want)
		}
	}
}

func TestSafetyCheckResponse_Safe(t *testing.T) {
	for answer, want := range map[string]bool{"YES": true, " yes ": true, "no": false, "": false} {
		if got := (SafetyCheckResponse{Answer: answer}).Safe(); got != want {
			t.Fatalf("Safe(%q) = %v, want %v", answer, got, want)
		}
	}
}
