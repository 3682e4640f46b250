package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/ride-safety/config"
	"github.com/Temutjin2k/ride-safety/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-safety/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/ride-safety/internal/adapter/http/ws"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
)

const (
	serverIPAddress = "%s:%s"
	serviceName     = "ride-safety"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers // routes/handlers
	m      *middleware.Middleware
	auth   handler.TokenValidator

	addr string
	log  logger.Logger
}

type handlers struct {
	health *handler.Health
	ride   *handler.Ride
	safety *handler.Safety
	admin  *handler.Admin
	riders *wshandler.RiderHub
}

func New(
	cfg config.HTTPConfig,
	rideService handler.RideService,
	safetyService handler.SafetyService,
	riders *wshandler.RiderHub,
	authService handler.TokenValidator,
	logger logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}
	if rideService == nil || safetyService == nil || riders == nil {
		return nil, errors.New("ride, safety and rider hub are required")
	}

	api := &API{
		mux: http.NewServeMux(),
		routes: &handlers{
			health: handler.NewHealth(serviceName, logger),
			ride:   handler.NewRide(logger, rideService, safetyService),
			safety: handler.NewSafety(logger, rideService, safetyService),
			admin:  handler.NewAdmin(rideService, logger),
			riders: riders,
		},
		m:    middleware.NewMiddleware(authService, logger),
		auth: authService,
		addr: fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Port),
		log:  logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// Run serves until the server is shut down. http.ErrServerClosed is not an error.
func (a *API) Run(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "http_server_start")
	a.log.Info(ctx, "started http server", "address", a.addr)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Handler exposes the full middleware chain, used by tests.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) setupRoutes() {
	setupRoutes(a.mux, a.routes, a.m, a.auth)
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(
		a.m.RequestID(
			a.m.Logging(
				a.m.Auth(
					a.m.Metrics(serviceName)(a.mux),
				),
			),
		),
	)
}
