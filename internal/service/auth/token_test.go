package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
)

func TestIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	s := NewTokenService("secret", time.Hour, logger.Discard())

	token, err := s.Issue(ctx, models.Identity{UserID: "r1", Role: types.PassengerRole})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := s.Validate(ctx, token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id.UserID != "r1" || id.Role != types.PassengerRole {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestIssue_RejectsUnknownRole(t *testing.T) {
	s := NewTokenService("secret", time.Hour, logger.Discard())
	if _, err := s.Issue(context.Background(), models.Identity{UserID: "r1", Role: "PILOT"}); !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	ctx := context.Background()
	s := NewTokenService("secret", time.Hour, logger.Discard())

	good, _ := s.Issue(ctx, models.Identity{UserID: "d1", Role: types.DriverRole})
	other := NewTokenService("other-secret", time.Hour, logger.Discard())

	expired := NewTokenService("secret", time.Hour, logger.Discard())
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue(ctx, models.Identity{UserID: "d1", Role: types.DriverRole})

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ":     accessTokenType,
		"user_id": "x",
		"role":    "PILOT",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	tests := []struct {
		name    string
		svc     *TokenService
		token   string
		wantErr error
	}{
		{"garbage", s, "not-a-token", ErrInvalidToken},
		{"wrong secret", other, good, ErrInvalidToken},
		{"expired", s, old, ErrExpToken},
		{"unknown role", s, badRole, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Validate(ctx, tt.token); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
