package handler

import (
	"net/http"

	"github.com/Temutjin2k/ride-safety/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
)

type Admin struct {
	s RideService
	l logger.Logger
}

func NewAdmin(s RideService, l logger.Logger) *Admin {
	return &Admin{
		s: s,
		l: l,
	}
}

// GetRides godoc
// @Summary      All rides
// @Description  Optional filters: status, rider_id, driver_id.
// @Tags         Admin
// @Produce      json
// @Param        status query string false "ride status"
// @Success      200  {array}  dto.RideResponse
// @Security     BearerAuth
// @Router       /admin/rides [get]
func (h *Admin) GetRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionListRides)
	qs := r.URL.Query()

	filter := models.RideFilter{
		RiderID:  qs.Get("rider_id"),
		DriverID: qs.Get("driver_id"),
	}
	if s := qs.Get("status"); s != "" {
		status, err := types.ParseRideStatus(s)
		if err != nil {
			failedValidationResponse(w, map[string]string{"status": "unknown ride status"})
			return
		}
		filter.Status = status
	}

	var rides []*models.Ride
	for _, ride := range h.s.GetAllRides(ctx) {
		if filter.Match(ride) {
			rides = append(rides, ride)
		}
	}

	h.l.Debug(ctx, "fetched rides", "total", len(rides))

	if err := writeJSON(w, http.StatusOK, envelope{"rides": dto.NewRideList(rides), "total": len(rides)}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// GetStatistics godoc
// @Summary      Ride statistics
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  models.RideStatistics
// @Security     BearerAuth
// @Router       /admin/statistics [get]
func (h *Admin) GetStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionRideStatistics)

	stats := h.s.Statistics(ctx)
	h.l.Debug(ctx, "computed statistics", "total_rides", stats.TotalRides)

	if err := writeJSON(w, http.StatusOK, envelope{"statistics": stats}, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}
