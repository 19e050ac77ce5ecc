package auth

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/pantry/pkg/httpx"
	"github.com/ghuser/pantry/pkg/logger"
)

const sessionName = "pantry_session"
const sessionActorIDKey = "actor_id"

var (
	errNoSession      = errors.New("session missing actor_id")
	errInvalidSession = errors.New("invalid actor_id in session")
)

// actorFromSession reads and parses the actor id stored in the session cookie.
func actorFromSession(store sessions.Store, r *http.Request) (uuid.UUID, error) {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return uuid.Nil, err
	}
	raw, ok := session.Values[sessionActorIDKey].(string)
	if !ok || raw == "" {
		return uuid.Nil, errNoSession
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errInvalidSession
	}
	return actorID, nil
}

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the actor id and injects it into the
// request context and the request's log attributes.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a valid actor_id.
//
// After this middleware, handlers can safely call auth.ActorIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID, err := actorFromSession(store, r)
			if err != nil {
				log.WarnContext(r.Context(), "rejected unauthenticated request", "error", err)
				msg := "authentication required"
				if errors.Is(err, errInvalidSession) {
					msg = "invalid session data"
				}
				httpx.JSONErrorCode(w, http.StatusUnauthorized, msg, "auth.required")
				return
			}

			ctx := WithActorID(r.Context(), actorID)
			ctx = logger.ContextWith(ctx, "actor_id", actorID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the actor when a valid session is present and lets
// anonymous requests through unchanged.
func OptionalAuth(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID, err := actorFromSession(store, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithActorID(r.Context(), actorID)
			ctx = logger.ContextWith(ctx, "actor_id", actorID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
