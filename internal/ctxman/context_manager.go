package ctxman

import (
	"context"

	"storefront/internal/structs"
)

type (
	UserCtx         struct{}
	GuestSessionCtx struct{}
)

func Get[T any](ctx context.Context, key any) (T, bool) {
	var result T

	value := ctx.Value(key)
	if value == nil {
		return result, false
	}

	result, ok := value.(T)
	return result, ok
}

// WithIdentity marks the request as authenticated.
func WithIdentity(ctx context.Context, identity structs.Identity) context.Context {
	return context.WithValue(ctx, UserCtx{}, identity)
}

// Identity returns the caller identity; false means anonymous.
func Identity(ctx context.Context) (structs.Identity, bool) {
	identity, ok := Get[structs.Identity](ctx, UserCtx{})
	if !ok || identity.UserID == "" {
		return structs.Identity{}, false
	}
	return identity, true
}

// WithGuestSession binds a request-scoped guest cart slot. The value is
// whatever the session store hands out; guestcart reads it back by type.
func WithGuestSession(ctx context.Context, slot any) context.Context {
	return context.WithValue(ctx, GuestSessionCtx{}, slot)
}
