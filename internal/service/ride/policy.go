package ride

import (
	"context"
	"errors"

	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
)

type missingPolicy int

const (
	missingSilent missingPolicy = iota
	missingNotFound
)

// What each operation does when the ride id is unknown. Callers depend on which
// operations raise, so the table is kept as is rather than unified.
var missingRidePolicy = map[string]missingPolicy{
	types.ActionAssignRide:        missingSilent,
	types.ActionStartRide:         missingSilent,
	types.ActionCompleteRide:      missingSilent,
	types.ActionStartMonitoring:   missingSilent,
	types.ActionHandleSafetyAlert: missingSilent,
	types.ActionCancelRide:        missingNotFound,
	types.ActionUpdateRideStatus:  missingNotFound,
	types.ActionGetRide:           missingNotFound,
}

// SilentOnMissing reports whether action swallows ErrRideNotFound.
func SilentOnMissing(action string) bool {
	p, ok := missingRidePolicy[action]
	return ok && p == missingSilent
}

// ResolveMissing applies the missing-ride policy of action to err.
// Errors other than ErrRideNotFound pass through wrapped.
func ResolveMissing(ctx context.Context, l logger.Logger, action string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrRideNotFound) && SilentOnMissing(action) {
		l.Debug(ctx, "ride not found, ignoring", "policy", "silent")
		return nil
	}
	return wrap.Error(ctx, err)
}
