package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/pantry/pkg/app"
	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/logger"
	"github.com/ghuser/pantry/services/item/application/handlers"
	appsvcs "github.com/ghuser/pantry/services/item/application/services"
	"github.com/ghuser/pantry/services/item/infrastructure/persistence/memory"
)

func newTestRouter(t *testing.T, cfg *config.Config, store sessions.Store) http.Handler {
	t.Helper()
	log := logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
	mem := memory.NewStore()
	svcs := &appsvcs.Services{Item: appsvcs.NewItemService(mem.UnitOfWork(), mem.Repository(), log)}
	a := &app.Application{Config: cfg, Logger: log, SessionStore: store}

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) { Mount(r, a, svcs) })
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestItemRoutes_CreateAndFetch(t *testing.T) {
	h := newTestRouter(t, &config.Config{}, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/items", `{"name":"Apple","measure_type":"Weight"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body)
	}
	created := decode[handlers.ItemResponse](t, rec)
	if created.Name != "Apple" || created.MeasureType != "weight" || created.IsArchive {
		t.Fatalf("unexpected item: %+v", created)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/items/"+created.ID.String() {
		t.Fatalf("unexpected Location %q", loc)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/items/"+created.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	if got := decode[handlers.ItemResponse](t, rec); got.ID != created.ID {
		t.Fatalf("get returned %s", got.ID)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/items", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	if list := decode[[]handlers.ItemResponse](t, rec); len(list) != 1 {
		t.Fatalf("expected 1 item, got %d", len(list))
	}
}

func TestItemRoutes_ErrorMapping(t *testing.T) {
	h := newTestRouter(t, &config.Config{}, nil)
	rec := do(t, h, http.MethodPost, "/api/v1/items", `{"name":"Apple","measure_type":"weight"}`)
	created := decode[handlers.ItemResponse](t, rec)
	id := created.ID.String()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"duplicate", http.MethodPost, "/api/v1/items", `{"name":"APPLE","measure_type":"weight"}`, http.StatusConflict, "item.unique.violation"},
		{"blank name", http.MethodPost, "/api/v1/items", `{"name":"   ","measure_type":"weight"}`, http.StatusBadRequest, "value.is.invalid"},
		{"unknown type", http.MethodPost, "/api/v1/items", `{"name":"Pear","measure_type":"kg"}`, http.StatusBadRequest, "unknown.measure.type"},
		{"malformed json", http.MethodPost, "/api/v1/items", `{"name":`, http.StatusBadRequest, "request.malformed"},
		{"name too long", http.MethodPost, "/api/v1/items", `{"name":"` + strings.Repeat("x", 256) + `","measure_type":"weight"}`, http.StatusUnprocessableEntity, "request.validation.failed"},
		{"unarchive active", http.MethodPost, "/api/v1/items/" + id + "/unarchive", "", http.StatusConflict, "item.is.already.unarchived"},
		{"missing item", http.MethodGet, "/api/v1/items/" + uuid.NewString(), "", http.StatusNotFound, "item.is.not.exists"},
		{"bad id", http.MethodGet, "/api/v1/items/not-a-uuid", "", http.StatusBadRequest, "value.is.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if body := decode[errorBody](t, rec); body.Code != tt.wantCode {
				t.Fatalf("code: got %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestItemRoutes_ArchiveTwice(t *testing.T) {
	h := newTestRouter(t, &config.Config{}, nil)
	created := decode[handlers.ItemResponse](t,
		do(t, h, http.MethodPost, "/api/v1/items", `{"name":"Milk","measure_type":"liquid"}`))
	path := "/api/v1/items/" + created.ID.String() + "/archive"

	rec := do(t, h, http.MethodPost, path, "")
	if rec.Code != http.StatusOK || !decode[handlers.ItemResponse](t, rec).IsArchive {
		t.Fatalf("first archive: status %d body %s", rec.Code, rec.Body)
	}
	rec = do(t, h, http.MethodPost, path, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second archive: expected 409, got %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Code != "item.is.already.archived" {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestItemRoutes_ListEmptyIsArray(t *testing.T) {
	h := newTestRouter(t, &config.Config{}, nil)
	rec := do(t, h, http.MethodGet, "/api/v1/items", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected 200 [], got %d %s", rec.Code, rec.Body)
	}
}

func TestItemRoutes_AuthRequiredGuardsWrites(t *testing.T) {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	h := newTestRouter(t, &config.Config{AuthRequired: true}, store)

	rec := do(t, h, http.MethodPost, "/api/v1/items", `{"name":"Apple","measure_type":"weight"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/items", ""); rec.Code != http.StatusOK {
		t.Fatalf("reads stay public, got %d", rec.Code)
	}
}
