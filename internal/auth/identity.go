package auth

import (
	"context"

	"github.com/pcbuilderguide/pcbg/internal/models"
)

// Identity is what a verified token proves about the caller.
type Identity struct {
	ID       int
	Username string
}

// IsAdmin reports whether this identity may read contact messages.
func (i Identity) IsAdmin() bool {
	return models.IsAdmin(i.Username)
}

type identityKey struct{}

// WithIdentity stores the verified identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity set by the auth middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
