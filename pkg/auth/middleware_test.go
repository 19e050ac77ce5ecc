package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// newTestLogger creates a logger that discards output.
func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// requestWithSessionValue builds a POST /api/v1/items request whose session
// cookie stores value under the actor key. A nil value leaves the key unset.
func requestWithSessionValue(t *testing.T, store sessions.Store, value any) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)

	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if value != nil {
		session.Values[sessionActorIDKey] = value
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	actorID := uuid.New()

	var captured uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = ActorIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	RequireAuth(store, newTestLogger())(next).ServeHTTP(w, requestWithSessionValue(t, store, actorID.String()))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured != actorID {
		t.Fatalf("expected actor %v in context, got %v", actorID, captured)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	store := newTestStore()

	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"missing cookie", func(*testing.T) *http.Request {
			return httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)
		}},
		{"session without actor", func(t *testing.T) *http.Request {
			return requestWithSessionValue(t, store, nil)
		}},
		{"malformed actor id", func(t *testing.T) *http.Request {
			return requestWithSessionValue(t, store, "not-a-valid-uuid")
		}},
		{"cookie from another key", func(t *testing.T) *http.Request {
			other := sessions.NewCookieStore([]byte("another-auth-key-of-32-bytes!!!!"))
			return requestWithSessionValue(t, other, uuid.NewString())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("next handler should not be called")
			})
			w := httptest.NewRecorder()
			RequireAuth(store, newTestLogger())(next).ServeHTTP(w, tt.req(t))

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	store := newTestStore()
	actorID := uuid.New()

	tests := []struct {
		name      string
		req       *http.Request
		wantActor uuid.UUID
	}{
		{"anonymous passes", httptest.NewRequest(http.MethodGet, "/api/v1/items", nil), uuid.Nil},
		{"session attaches actor", requestWithSessionValue(t, store, actorID.String()), actorID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, _ = ActorIDFromCtx(r.Context())
			})
			OptionalAuth(store)(next).ServeHTTP(httptest.NewRecorder(), tt.req)

			if !called {
				t.Fatal("next handler must always run")
			}
			if got != tt.wantActor {
				t.Fatalf("expected actor %v, got %v", tt.wantActor, got)
			}
		})
	}
}
