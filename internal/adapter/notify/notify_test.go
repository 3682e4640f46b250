package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
)

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) Notify(ctx context.Context, contact string, alert models.EmergencyAlert) error {
	c.calls++
	return c.err
}

func TestFanout_DeliversToAll(t *testing.T) {
	boom := errors.New("boom")
	first := &countingNotifier{err: boom}
	second := &countingNotifier{}

	err := Fanout{first, nil, second}.Notify(context.Background(), "c", models.EmergencyAlert{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("every sink must be called once: %d %d", first.calls, second.calls)
	}

	if err := (Fanout{second}).Notify(context.Background(), "c", models.EmergencyAlert{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestLogNotifier_WritesAlert(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(&buf, "test", logger.LevelDebug))

	alert := models.EmergencyAlert{RideID: uuid.New(), RiderID: "r1", EmergencyContact: "contact-1"}
	if err := n.Notify(context.Background(), "contact-1", alert); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"emergency alert", "contact-1", alert.RideID.String()} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}
