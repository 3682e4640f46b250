package models

import (
	"context"

	"github.com/Temutjin2k/ride-safety/internal/domain/types"
)

// Identity is the authenticated caller, as resolved from a bearer token.
type Identity struct {
	UserID string
	Role   types.UserRole
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns nil when the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
