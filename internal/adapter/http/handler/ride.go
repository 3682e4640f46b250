package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/validator"
)

type Ride struct {
	l       logger.Logger
	rides   RideService
	monitor SafetyService
}

func NewRide(l logger.Logger, rides RideService, monitor SafetyService) *Ride {
	return &Ride{
		l:       l,
		rides:   rides,
		monitor: monitor,
	}
}

// CreateRide godoc
// @Summary      Request a ride
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateRideRequest true "pickup and drop"
// @Success      201  {object}  dto.RideResponse
// @Failure      422  {object}  map[string]any
// @Security     BearerAuth
// @Router       /rides [post]
func (h *Ride) CreateRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionRequestRide)
	id := models.IdentityFromContext(ctx)

	var req dto.CreateRideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if errs := validator.Struct(req); errs != nil {
		failedValidationResponse(w, errs)
		return
	}

	ride, err := h.rides.RequestRide(ctx, id.UserID, req.Pickup, req.Drop)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to request ride", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"ride": dto.NewRideResponse(ride)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// GetAvailableRides godoc
// @Summary      Rides waiting for a driver
// @Tags         Rides
// @Produce      json
// @Success      200  {array}  dto.RideResponse
// @Security     BearerAuth
// @Router       /rides/available [get]
func (h *Ride) GetAvailableRides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.writeRides(ctx, w, h.rides.GetAvailableRides(ctx))
}

// GetMyRides lists the caller's rides: assigned rides for drivers, booked rides for everyone else.
func (h *Ride) GetMyRides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := models.IdentityFromContext(ctx)
	h.writeRides(ctx, w, h.rides.GetUserRides(ctx, id.UserID, id.Role))
}

func (h *Ride) GetDriverRides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := models.IdentityFromContext(ctx)

	driverID := r.PathValue("driver_id")
	if id.Role == types.DriverRole && driverID != id.UserID {
		errorResponse(w, http.StatusForbidden, types.ErrPermissionDenied.Error())
		return
	}

	h.writeRides(ctx, w, h.rides.GetDriverRides(ctx, driverID))
}

func (h *Ride) writeRides(ctx context.Context, w http.ResponseWriter, rides []*models.Ride) {
	if err := writeJSON(w, http.StatusOK, envelope{"rides": dto.NewRideList(rides)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// GetRide godoc
// @Summary      Ride details
// @Tags         Rides
// @Produce      json
// @Param        ride_id path string true "ride id"
// @Success      200  {object}  dto.RideResponse
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /rides/{ride_id} [get]
func (h *Ride) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx, ride, ok := h.loadRide(w, r)
	if !ok {
		return
	}
	h.writeRide(ctx, w, ride)
}

// GetTrip returns trip details with the current location and ETA.
func (h *Ride) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, ride, ok := h.loadRide(w, r)
	if !ok {
		return
	}

	trip, err := h.rides.TripDetails(ctx, ride.ID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	if loc, err := h.monitor.GetCurrentLocation(ctx, ride.ID); err == nil {
		trip.CurrentLocation = loc
	}

	if err := writeJSON(w, http.StatusOK, envelope{"trip": trip}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// AssignRide assigns the calling driver to the ride.
func (h *Ride) AssignRide(w http.ResponseWriter, r *http.Request) {
	h.driverTransition(w, r, func(ctx context.Context, rideID uuid.UUID, driverID string) error {
		return h.rides.AssignRide(ctx, rideID, driverID)
	})
}

func (h *Ride) StartRide(w http.ResponseWriter, r *http.Request) {
	h.driverTransition(w, r, func(ctx context.Context, rideID uuid.UUID, _ string) error {
		return h.rides.StartRide(ctx, rideID)
	})
}

func (h *Ride) CompleteRide(w http.ResponseWriter, r *http.Request) {
	h.driverTransition(w, r, func(ctx context.Context, rideID uuid.UUID, _ string) error {
		return h.rides.CompleteRide(ctx, rideID)
	})
}

// driverTransition runs op and answers with the resulting ride. Transitions ignore
// unknown rides, so the follow-up read is what reports 404.
func (h *Ride) driverTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, rideID uuid.UUID, driverID string) error) {
	ctx := r.Context()
	id := models.IdentityFromContext(ctx)

	rideID, err := rideIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	if err := op(ctx, rideID, id.UserID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "ride transition failed", err)
		serviceErrorResponse(w, err)
		return
	}

	ride, err := h.rides.GetRideDetails(ctx, rideID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}
	h.writeRide(ctx, w, ride)
}

// CancelRide godoc
// @Summary      Cancel a ride
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Param        ride_id path string true "ride id"
// @Param        request body dto.CancelRideRequest true "reason"
// @Success      200  {object}  dto.RideResponse
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /rides/{ride_id}/cancel [post]
func (h *Ride) CancelRide(w http.ResponseWriter, r *http.Request) {
	ctx, ride, ok := h.loadRide(w, r)
	if !ok {
		return
	}

	var req dto.CancelRideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	if errs := validator.Struct(req); errs != nil {
		failedValidationResponse(w, errs)
		return
	}

	if err := h.rides.CancelRide(ctx, ride.ID, req.Reason); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel ride", err)
		serviceErrorResponse(w, err)
		return
	}

	h.reload(ctx, w, ride.ID)
}

// UpdateStatus sets any status directly. Admin only.
func (h *Ride) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rideID, err := rideIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	var req dto.UpdateStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	if errs := validator.Struct(req); errs != nil {
		failedValidationResponse(w, errs)
		return
	}

	if err := h.rides.UpdateRideStatus(ctx, rideID, types.RideStatus(req.Status)); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update ride status", err)
		serviceErrorResponse(w, err)
		return
	}

	h.reload(ctx, w, rideID)
}

// loadRide resolves {ride_id} and checks the caller may see the ride.
func (h *Ride) loadRide(w http.ResponseWriter, r *http.Request) (context.Context, *models.Ride, bool) {
	ctx := r.Context()

	rideID, err := rideIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return ctx, nil, false
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	ride, err := h.rides.GetRideDetails(ctx, rideID)
	if err != nil {
		serviceErrorResponse(w, err)
		return ctx, nil, false
	}

	if !canAccess(models.IdentityFromContext(ctx), ride) {
		errorResponse(w, http.StatusForbidden, types.ErrPermissionDenied.Error())
		return ctx, nil, false
	}
	return ctx, ride, true
}

func (h *Ride) reload(ctx context.Context, w http.ResponseWriter, rideID uuid.UUID) {
	ride, err := h.rides.GetRideDetails(ctx, rideID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}
	h.writeRide(ctx, w, ride)
}

func (h *Ride) writeRide(ctx context.Context, w http.ResponseWriter, ride *models.Ride) {
	if err := writeJSON(w, http.StatusOK, envelope{"ride": dto.NewRideResponse(ride)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// canAccess lets admins, the rider and the assigned driver see a ride. Drivers may also
// see unassigned requests so they can pick them up.
func canAccess(id *models.Identity, ride *models.Ride) bool {
	if id == nil {
		return false
	}
	switch id.Role {
	case types.AdminRole:
		return true
	case types.DriverRole:
		return ride.DriverID == nil || *ride.DriverID == id.UserID
	default:
		return ride.RiderID == id.UserID
	}
}
