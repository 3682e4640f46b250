package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/adapter/memory"
	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/internal/service/ride"
	"github.com/Temutjin2k/ride-safety/internal/service/safety"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
)

var (
	rider   = &models.Identity{UserID: "rider-1", Role: types.PassengerRole}
	other   = &models.Identity{UserID: "rider-2", Role: types.PassengerRole}
	driver  = &models.Identity{UserID: "driver-1", Role: types.DriverRole}
	driver2 = &models.Identity{UserID: "driver-2", Role: types.DriverRole}
	admin   = &models.Identity{UserID: "admin-1", Role: types.AdminRole}
)

type testEnv struct {
	mux *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	l := logger.Discard()

	repo := memory.NewRideRepo()
	rides := ride.NewRideService(repo, l)
	monitor := safety.NewMonitor(repo, rides, l, safety.WithConfig(safety.Config{PollInterval: time.Hour}))
	t.Cleanup(monitor.Close)

	rh := NewRide(l, rides, monitor)
	sh := NewSafety(l, rides, monitor)
	ah := NewAdmin(rides, l)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /rides", rh.CreateRide)
	mux.HandleFunc("GET /rides/available", rh.GetAvailableRides)
	mux.HandleFunc("GET /rides/mine", rh.GetMyRides)
	mux.HandleFunc("GET /drivers/{driver_id}/rides", rh.GetDriverRides)
	mux.HandleFunc("GET /rides/{ride_id}", rh.GetRide)
	mux.HandleFunc("GET /rides/{ride_id}/trip", rh.GetTrip)
	mux.HandleFunc("POST /rides/{ride_id}/assign", rh.AssignRide)
	mux.HandleFunc("POST /rides/{ride_id}/start", rh.StartRide)
	mux.HandleFunc("POST /rides/{ride_id}/complete", rh.CompleteRide)
	mux.HandleFunc("POST /rides/{ride_id}/cancel", rh.CancelRide)
	mux.HandleFunc("PATCH /rides/{ride_id}/status", rh.UpdateStatus)
	mux.HandleFunc("POST /rides/{ride_id}/monitoring", sh.StartMonitoring)
	mux.HandleFunc("POST /rides/{ride_id}/safety/response", sh.SafetyResponse)
	mux.HandleFunc("GET /rides/{ride_id}/safety/log", sh.GetSafetyLog)
	mux.HandleFunc("GET /rides/{ride_id}/safety/status", sh.GetSafetyStatus)
	mux.HandleFunc("GET /rides/{ride_id}/location", sh.GetLocation)
	mux.HandleFunc("GET /admin/rides", ah.GetRides)
	mux.HandleFunc("GET /admin/statistics", ah.GetStatistics)

	return &testEnv{mux: mux}
}

func (e *testEnv) do(t *testing.T, id *models.Identity, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(models.WithIdentity(req.Context(), id))
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func (e *testEnv) createRide(t *testing.T) string {
	t.Helper()
	code, body := e.do(t, rider, http.MethodPost, "/rides", map[string]string{"pickup": "A", "drop": "B"})
	if code != http.StatusCreated {
		t.Fatalf("create ride: code = %d, body = %v", code, body)
	}
	return rideField(t, body, "ride_id").(string)
}

func rideField(t *testing.T, body map[string]any, key string) any {
	t.Helper()
	r, ok := body["ride"].(map[string]any)
	if !ok {
		t.Fatalf("response has no ride: %v", body)
	}
	return r[key]
}

func TestCreateRide(t *testing.T) {
	e := newTestEnv(t)

	code, body := e.do(t, rider, http.MethodPost, "/rides", map[string]string{"pickup": "A", "drop": "B"})
	if code != http.StatusCreated {
		t.Fatalf("code = %d, body = %v", code, body)
	}
	if got := rideField(t, body, "status"); got != string(types.StatusRequested) {
		t.Fatalf("status = %v", got)
	}
	if got := rideField(t, body, "rider_id"); got != rider.UserID {
		t.Fatalf("rider_id = %v", got)
	}
	if got := rideField(t, body, "fare"); got != ride.DefaultBaseFare {
		t.Fatalf("fare = %v", got)
	}
}

func TestCreateRide_Invalid(t *testing.T) {
	e := newTestEnv(t)

	if code, _ := e.do(t, rider, http.MethodPost, "/rides", map[string]string{"pickup": "A"}); code != http.StatusUnprocessableEntity {
		t.Fatalf("missing drop: code = %d, want 422", code)
	}
	if code, _ := e.do(t, rider, http.MethodPost, "/rides", map[string]string{"pickup": "A", "drop": "B", "x": "y"}); code != http.StatusBadRequest {
		t.Fatalf("unknown field: code = %d, want 400", code)
	}
}

func TestGetRide_Access(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)

	tests := []struct {
		name string
		who  *models.Identity
		path string
		want int
	}{
		{"owner", rider, "/rides/" + id, http.StatusOK},
		{"admin", admin, "/rides/" + id, http.StatusOK},
		{"driver sees unassigned", driver, "/rides/" + id, http.StatusOK},
		{"other rider", other, "/rides/" + id, http.StatusForbidden},
		{"unknown ride", rider, "/rides/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", rider, "/rides/not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, body := e.do(t, tt.who, http.MethodGet, tt.path, nil); code != tt.want {
				t.Fatalf("code = %d, want %d, body = %v", code, tt.want, body)
			}
		})
	}
}

func TestRideLifecycle(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)

	code, body := e.do(t, driver, http.MethodPost, "/rides/"+id+"/assign", nil)
	if code != http.StatusOK || rideField(t, body, "status") != string(types.StatusAssigned) {
		t.Fatalf("assign: code = %d, body = %v", code, body)
	}
	if got := rideField(t, body, "driver_id"); got != driver.UserID {
		t.Fatalf("driver_id = %v", got)
	}

	if code, _ := e.do(t, driver2, http.MethodGet, "/rides/"+id, nil); code != http.StatusForbidden {
		t.Fatalf("unassigned driver: code = %d, want 403", code)
	}

	code, body = e.do(t, driver, http.MethodPost, "/rides/"+id+"/start", nil)
	if code != http.StatusOK || rideField(t, body, "status") != string(types.StatusInProgress) {
		t.Fatalf("start: code = %d, body = %v", code, body)
	}

	code, body = e.do(t, rider, http.MethodGet, "/rides/"+id+"/trip", nil)
	if code != http.StatusOK {
		t.Fatalf("trip: code = %d, body = %v", code, body)
	}

	code, body = e.do(t, driver, http.MethodPost, "/rides/"+id+"/complete", nil)
	if code != http.StatusOK || rideField(t, body, "status") != string(types.StatusCompleted) {
		t.Fatalf("complete: code = %d, body = %v", code, body)
	}

	code, body = e.do(t, driver, http.MethodGet, "/drivers/driver-1/rides", nil)
	if code != http.StatusOK {
		t.Fatalf("driver rides: code = %d", code)
	}
	if rides := body["rides"].([]any); len(rides) != 1 {
		t.Fatalf("driver rides = %d, want 1", len(rides))
	}

	if code, _ := e.do(t, driver, http.MethodGet, "/drivers/driver-2/rides", nil); code != http.StatusForbidden {
		t.Fatalf("foreign driver rides: code = %d, want 403", code)
	}
}

func TestTransition_UnknownRide(t *testing.T) {
	e := newTestEnv(t)

	if code, _ := e.do(t, driver, http.MethodPost, "/rides/"+uuid.NewString()+"/assign", nil); code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", code)
	}
}

func TestTrip_RequiresInProgress(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)

	if code, _ := e.do(t, rider, http.MethodGet, "/rides/"+id+"/trip", nil); code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
}

func TestCancelRide(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)

	code, body := e.do(t, rider, http.MethodPost, "/rides/"+id+"/cancel", map[string]string{"reason": "changed plans"})
	if code != http.StatusOK {
		t.Fatalf("code = %d, body = %v", code, body)
	}
	if rideField(t, body, "status") != string(types.StatusCancelled) || rideField(t, body, "cancellation_reason") != "changed plans" {
		t.Fatalf("unexpected ride %v", body)
	}

	if code, _ := e.do(t, rider, http.MethodPost, "/rides/"+uuid.NewString()+"/cancel", map[string]string{"reason": "x"}); code != http.StatusNotFound {
		t.Fatalf("unknown ride: code = %d, want 404", code)
	}
}

func TestUpdateStatus(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)

	code, body := e.do(t, admin, http.MethodPatch, "/rides/"+id+"/status", map[string]string{"status": "REJECTED"})
	if code != http.StatusOK || rideField(t, body, "status") != string(types.StatusRejected) {
		t.Fatalf("code = %d, body = %v", code, body)
	}

	if code, _ := e.do(t, admin, http.MethodPatch, "/rides/"+id+"/status", map[string]string{"status": "FLYING"}); code != http.StatusUnprocessableEntity {
		t.Fatalf("bad status: code = %d, want 422", code)
	}
}

func TestSafety_MissesEscalate(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)
	e.do(t, driver, http.MethodPost, "/rides/"+id+"/assign", nil)
	e.do(t, driver, http.MethodPost, "/rides/"+id+"/start", nil)

	monitoring := map[string]any{"waypoints": []string{"A", "Mid", "B"}, "emergency_contact": "+1-555-0100"}
	if code, _ := e.do(t, other, http.MethodPost, "/rides/"+id+"/monitoring", monitoring); code != http.StatusForbidden {
		t.Fatalf("foreign rider: code = %d, want 403", code)
	}

	code, body := e.do(t, rider, http.MethodPost, "/rides/"+id+"/monitoring", monitoring)
	if code != http.StatusOK {
		t.Fatalf("start monitoring: code = %d, body = %v", code, body)
	}
	if s := body["safety"].(map[string]any); s["is_monitoring"] != true {
		t.Fatalf("not monitoring: %v", s)
	}

	for i := 0; i < 5; i++ {
		if code, body := e.do(t, rider, http.MethodPost, "/rides/"+id+"/safety/response", map[string]bool{"responded": false}); code != http.StatusOK {
			t.Fatalf("miss %d: code = %d, body = %v", i+1, code, body)
		}
	}

	_, body = e.do(t, rider, http.MethodGet, "/rides/"+id, nil)
	if got := rideField(t, body, "status"); got != string(types.StatusSafetyAlert) {
		t.Fatalf("status = %v, want SAFETY_ALERT", got)
	}

	code, body = e.do(t, admin, http.MethodGet, "/rides/"+id+"/safety/log", nil)
	if code != http.StatusOK {
		t.Fatalf("log: code = %d", code)
	}
	if entries := body["safety_log"].([]any); len(entries) < 6 {
		t.Fatalf("log has %d entries, want at least 6", len(entries))
	}
}

func TestSafety_ResponseRequiresField(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)

	if code, _ := e.do(t, rider, http.MethodPost, "/rides/"+id+"/safety/response", map[string]any{}); code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422", code)
	}
}

func TestSafety_Location(t *testing.T) {
	e := newTestEnv(t)
	id := e.createRide(t)

	code, body := e.do(t, rider, http.MethodGet, "/rides/"+id+"/location", nil)
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if body["location"] != "Simulated location between A and B" {
		t.Fatalf("location = %v", body["location"])
	}
}

func TestAdmin(t *testing.T) {
	e := newTestEnv(t)
	first := e.createRide(t)
	e.createRide(t)
	e.do(t, rider, http.MethodPost, "/rides/"+first+"/cancel", map[string]string{"reason": "x"})

	code, body := e.do(t, admin, http.MethodGet, "/admin/rides?status=CANCELLED", nil)
	if code != http.StatusOK || body["total"] != float64(1) {
		t.Fatalf("filtered rides: code = %d, body = %v", code, body)
	}

	if code, _ := e.do(t, admin, http.MethodGet, "/admin/rides?status=nope", nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("bad filter: code = %d, want 422", code)
	}

	code, body = e.do(t, admin, http.MethodGet, "/admin/statistics", nil)
	if code != http.StatusOK {
		t.Fatalf("statistics: code = %d", code)
	}
	stats := body["statistics"].(map[string]any)
	if stats["total_rides"] != float64(2) || stats["cancelled_rides"] != float64(1) {
		t.Fatalf("unexpected statistics %v", stats)
	}
}
