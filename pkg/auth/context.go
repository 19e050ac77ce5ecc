package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const actorIDKey contextKey = "actor_id"

// ErrActorNotFound is returned when no authenticated actor exists in the
// request context. Handlers should return 401 when this error occurs.
var ErrActorNotFound = errors.New("actor_id not found in context")

// ActorIDFromCtx extracts the authenticated actor (the user issuing catalog
// commands) from the request context.
// Returns uuid.Nil and ErrActorNotFound for anonymous requests.
func ActorIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	actorID, ok := ctx.Value(actorIDKey).(uuid.UUID)
	if !ok || actorID == uuid.Nil {
		return uuid.Nil, ErrActorNotFound
	}
	return actorID, nil
}

// WithActorID returns a new context with the given actor attached.
// Used by the session middlewares after validating the cookie.
func WithActorID(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}
