package handler

import (
	"net/http"

	"github.com/Temutjin2k/ride-safety/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-safety/pkg/validator"
)

type Safety struct {
	l       logger.Logger
	rides   RideService
	monitor SafetyService
}

func NewSafety(l logger.Logger, rides RideService, monitor SafetyService) *Safety {
	return &Safety{
		l:       l,
		rides:   rides,
		monitor: monitor,
	}
}

// StartMonitoring godoc
// @Summary      Start safety monitoring
// @Description  Records waypoints and the emergency contact, then starts periodic safety checks.
// @Tags         Safety
// @Accept       json
// @Produce      json
// @Param        ride_id path string true "ride id"
// @Param        request body dto.StartMonitoringRequest true "waypoints and contact"
// @Success      200  {object}  models.SafetyStatus
// @Failure      404  {object}  map[string]any
// @Security     BearerAuth
// @Router       /rides/{ride_id}/monitoring [post]
func (h *Safety) StartMonitoring(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionStartMonitoring)

	ride, ok := h.ownRide(w, r)
	if !ok {
		return
	}
	ctx = wrap.WithRideID(ctx, ride.ID.String())

	var req dto.StartMonitoringRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	if errs := validator.Struct(req); errs != nil {
		failedValidationResponse(w, errs)
		return
	}

	if err := h.monitor.StartLocationMonitoring(ctx, ride.ID, req.Waypoints, req.EmergencyContact); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start monitoring", err)
		serviceErrorResponse(w, err)
		return
	}

	h.writeStatus(w, r, ride)
}

// SafetyResponse godoc
// @Summary      Answer a safety check
// @Tags         Safety
// @Accept       json
// @Produce      json
// @Param        ride_id path string true "ride id"
// @Param        request body dto.SafetyResponseRequest true "responded"
// @Success      200  {object}  models.SafetyStatus
// @Failure      409  {object}  map[string]any
// @Security     BearerAuth
// @Router       /rides/{ride_id}/safety/response [post]
func (h *Safety) SafetyResponse(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionHandleSafetyAlert)

	ride, ok := h.ownRide(w, r)
	if !ok {
		return
	}
	ctx = wrap.WithRideID(ctx, ride.ID.String())

	var req dto.SafetyResponseRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	if errs := validator.Struct(req); errs != nil {
		failedValidationResponse(w, errs)
		return
	}

	if err := h.monitor.HandleSafetyAlert(ctx, ride.ID, *req.Responded); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to handle safety response", err)
		serviceErrorResponse(w, err)
		return
	}

	h.writeStatus(w, r, ride)
}

func (h *Safety) GetSafetyLog(w http.ResponseWriter, r *http.Request) {
	ride, ok := h.visibleRide(w, r)
	if !ok {
		return
	}

	entries, err := h.monitor.GetSafetyLog(r.Context(), ride.ID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride_id": ride.ID, "safety_log": entries}, nil); err != nil {
		h.l.Error(r.Context(), "failed to write response", err)
	}
}

func (h *Safety) GetSafetyStatus(w http.ResponseWriter, r *http.Request) {
	ride, ok := h.visibleRide(w, r)
	if !ok {
		return
	}
	h.writeStatus(w, r, ride)
}

func (h *Safety) GetLocation(w http.ResponseWriter, r *http.Request) {
	ride, ok := h.visibleRide(w, r)
	if !ok {
		return
	}

	loc, err := h.monitor.GetCurrentLocation(r.Context(), ride.ID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride_id": ride.ID, "location": loc}, nil); err != nil {
		h.l.Error(r.Context(), "failed to write response", err)
	}
}

func (h *Safety) writeStatus(w http.ResponseWriter, r *http.Request, ride *models.Ride) {
	status, err := h.monitor.Status(r.Context(), ride.ID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"safety": status}, nil); err != nil {
		h.l.Error(r.Context(), "failed to write response", err)
	}
}

// ownRide only lets the rider who booked the ride act on its safety checks.
func (h *Safety) ownRide(w http.ResponseWriter, r *http.Request) (*models.Ride, bool) {
	ride, ok := h.visibleRide(w, r)
	if !ok {
		return nil, false
	}
	if id := models.IdentityFromContext(r.Context()); id.UserID != ride.RiderID {
		errorResponse(w, http.StatusForbidden, types.ErrPermissionDenied.Error())
		return nil, false
	}
	return ride, true
}

func (h *Safety) visibleRide(w http.ResponseWriter, r *http.Request) (*models.Ride, bool) {
	rideID, err := rideIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return nil, false
	}

	ride, err := h.rides.GetRideDetails(r.Context(), rideID)
	if err != nil {
		serviceErrorResponse(w, err)
		return nil, false
	}
	if !canAccess(models.IdentityFromContext(r.Context()), ride) {
		errorResponse(w, http.StatusForbidden, types.ErrPermissionDenied.Error())
		return nil, false
	}
	return ride, true
}
