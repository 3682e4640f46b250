package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/ride-safety/docs"
	"github.com/Temutjin2k/ride-safety/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-safety/internal/adapter/http/middleware"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware, auth handler.TokenValidator) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	setupRideRoutes(mux, routes, m)
	setupSafetyRoutes(mux, routes, m)
	setupAdminRoutes(mux, routes, m)

	mux.HandleFunc("GET /ws/riders/{rider_id}", routes.riders.Connect(auth)) // WebSocket connection for safety prompts
}

// setupRideRoutes setups routes for the ride lifecycle
func setupRideRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /rides", m.RequireRoles(routes.ride.CreateRide, types.PassengerRole))                                   // Request a ride
	mux.Handle("GET /rides/available", m.RequireRoles(routes.ride.GetAvailableRides, types.DriverRole))                      // Unassigned rides
	mux.Handle("GET /rides/mine", m.RequireRoles(routes.ride.GetMyRides))                                                    // Caller's rides
	mux.Handle("GET /drivers/{driver_id}/rides", m.RequireRoles(routes.ride.GetDriverRides, types.DriverRole, types.AdminRole)) // Driver's rides
	mux.Handle("GET /rides/{ride_id}", m.RequireRoles(routes.ride.GetRide))                                                  // Ride details
	mux.Handle("GET /rides/{ride_id}/trip", m.RequireRoles(routes.ride.GetTrip))                                             // Trip details
	mux.Handle("POST /rides/{ride_id}/assign", m.RequireRoles(routes.ride.AssignRide, types.DriverRole))                     // Take the ride
	mux.Handle("POST /rides/{ride_id}/start", m.RequireRoles(routes.ride.StartRide, types.DriverRole))                       // Start the ride
	mux.Handle("POST /rides/{ride_id}/complete", m.RequireRoles(routes.ride.CompleteRide, types.DriverRole))                 // Complete the ride
	mux.Handle("POST /rides/{ride_id}/cancel", m.RequireRoles(routes.ride.CancelRide))                                       // Cancel the ride
	mux.Handle("PATCH /rides/{ride_id}/status", m.RequireRoles(routes.ride.UpdateStatus, types.AdminRole))                   // Force a status
}

// setupSafetyRoutes setups routes for rider safety monitoring
func setupSafetyRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /rides/{ride_id}/monitoring", m.RequireRoles(routes.safety.StartMonitoring, types.PassengerRole))     // Start monitoring
	mux.Handle("POST /rides/{ride_id}/safety/response", m.RequireRoles(routes.safety.SafetyResponse, types.PassengerRole)) // Answer a check
	mux.Handle("GET /rides/{ride_id}/safety/log", m.RequireRoles(routes.safety.GetSafetyLog))                             // Safety log
	mux.Handle("GET /rides/{ride_id}/safety/status", m.RequireRoles(routes.safety.GetSafetyStatus))                       // Monitoring state
	mux.Handle("GET /rides/{ride_id}/location", m.RequireRoles(routes.safety.GetLocation))                                // Current location
}

// setupAdminRoutes setups routes for admins
func setupAdminRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /admin/rides", m.RequireRoles(routes.admin.GetRides, types.AdminRole))           // All rides
	mux.Handle("GET /admin/statistics", m.RequireRoles(routes.admin.GetStatistics, types.AdminRole)) // Ride statistics
}

// setupSwaggerRoutes configures Swagger UI endpoints
func setupSwaggerRoutes(mux *http.ServeMux) {
	swaggerURL := httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName())
	mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
