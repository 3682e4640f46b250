package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-safety/internal/domain/models"
	"github.com/Temutjin2k/ride-safety/internal/domain/types"
	"github.com/Temutjin2k/ride-safety/pkg/logger"
	wrap "github.com/Temutjin2k/ride-safety/pkg/logger/wrapper"
)

const accessTokenType = "access"

// TokenService verifies the access tokens issued by the identity provider.
// Issue exists for local tooling and tests.
type TokenService struct {
	AccessTTL time.Duration
	secret    string
	log       logger.Logger
	now       func() time.Time
}

func NewTokenService(secret string, accessTTL time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		AccessTTL: accessTTL,
		secret:    secret,
		log:       log,
		now:       time.Now,
	}
}

func (s *TokenService) getSecret() string {
	return s.secret
}

// Issue signs an access token for id.
func (s *TokenService) Issue(ctx context.Context, id models.Identity) (string, error) {
	ctx = wrap.WithAction(ctx, "issue_token")

	if id.UserID == "" || !id.Role.Valid() {
		return "", wrap.Error(ctx, fmt.Errorf("%w: user id and a known role are required", types.ErrInvalidInput))
	}

	issuedAt := s.now().UTC()
	claims := jwt.MapClaims{
		"typ":     accessTokenType,
		"jti":     uuid.NewString(),
		"user_id": id.UserID,
		"role":    id.Role.String(),
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(s.AccessTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.getSecret()))
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("failed to sign token: %w", err))
	}
	return token, nil
}

// Validate checks signature, expiry and claims and returns the caller identity.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.Identity, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.getSecret()), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}
	if !parsedToken.Valid {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	mc, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	if typ, _ := mc["typ"].(string); typ != accessTokenType {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	userID, _ := mc["user_id"].(string)
	if userID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'user_id' claim", ErrInvalidToken))
	}

	role, _ := mc["role"].(string)
	if !types.UserRole(role).Valid() {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", ErrInvalidToken, types.ErrInvalidRole))
	}

	return &models.Identity{
		UserID: userID,
		Role:   types.UserRole(role),
	}, nil
}
