package edge

import (
	"context"
	"time"
)

// Identity is the caller resolved by the auth service for one request.
type Identity struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Role      string
	Email     string
	ExpiresAt time.Time
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity installed by the gate. ok is false
// on public routes.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
