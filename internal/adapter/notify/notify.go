package notify

import (
	"context"
	"errors"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
)

type Notifier interface {
	Notify(ctx context.Context, contact string, alert models.EmergencyAlert) error
}

// LogNotifier writes the alert to the service log.
type LogNotifier struct {
	l logger.Logger
}

func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{l: l}
}

func (n *LogNotifier) Notify(ctx context.Context, contact string, alert models.EmergencyAlert) error {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, types.ActionNotifyEmergency), alert.RideID.String())
	n.l.Warn(ctx, "emergency alert", "contact", contact, "alert", alert.String())
	return nil
}

// Fanout delivers to every sink and joins their errors. One failing sink does not stop the rest.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, contact string, alert models.EmergencyAlert) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, contact, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
