package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/app"
	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/logger"
	"github.com/ghuser/pantry/services/product/application/handlers"
	appsvcs "github.com/ghuser/pantry/services/product/application/services"
	"github.com/ghuser/pantry/services/product/infrastructure/persistence/memory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
	store := memory.NewStore()
	repos := store.Repositories()
	svcs := &appsvcs.Services{
		Product: appsvcs.NewProductService(store.UnitOfWork(), repos.Products, log),
		Measure: appsvcs.NewMeasureService(store.UnitOfWork(), repos.Measures, log),
	}
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		Mount(r, &app.Application{Config: &config.Config{}, Logger: log}, svcs)
	})
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func code(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body.Code
}

func TestProductRoutes(t *testing.T) {
	h := newTestRouter(t)

	rec := send(h, http.MethodPost, "/api/v1/products", `{"name":"Sugar","measure_type_id":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var created handlers.ProductResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.MeasureType != "weight" || created.MeasureTypeID != 1 {
		t.Fatalf("unexpected product %+v", created)
	}
	id := created.ID.String()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"duplicate", http.MethodPost, "/api/v1/products", `{"name":"sugar","measure_type_id":1}`, http.StatusConflict, "product.unique.violation"},
		{"missing type", http.MethodPost, "/api/v1/products", `{"name":"Salt"}`, http.StatusBadRequest, "unknown.measure.type"},
		{"unknown type", http.MethodPost, "/api/v1/products", `{"name":"Salt","measure_type_id":3}`, http.StatusBadRequest, "unknown.measure.type"},
		{"archive", http.MethodPost, "/api/v1/products/" + id + "/archive", "", http.StatusOK, ""},
		{"archive again", http.MethodPost, "/api/v1/products/" + id + "/archive", "", http.StatusConflict, "product.is.already.archived"},
		{"unarchive", http.MethodPost, "/api/v1/products/" + id + "/unarchive", "", http.StatusOK, ""},
		{"missing", http.MethodGet, "/api/v1/products/" + uuid.NewString(), "", http.StatusNotFound, "product.is.not.exists"},
		{"get", http.MethodGet, "/api/v1/products/" + id, "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(h, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantCode != "" && code(t, rec) != tt.wantCode {
				t.Fatalf("code: got %q, want %q", code(t, rec), tt.wantCode)
			}
		})
	}
}

func TestMeasureRoutes(t *testing.T) {
	h := newTestRouter(t)

	rec := send(h, http.MethodGet, "/api/v1/measures", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty list: %d %s", rec.Code, rec.Body)
	}

	rec = send(h, http.MethodPost, "/api/v1/measures", `{"full_name":"Litre","short_name":"l","measure_type_id":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var created handlers.MeasureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ShortName != "l" || created.MeasureType != "liquid" {
		t.Fatalf("unexpected measure %+v", created)
	}

	rec = send(h, http.MethodPost, "/api/v1/measures", `{"full_name":"Millilitre","short_name":"millilitre","measure_type_id":2}`)
	if rec.Code != http.StatusBadRequest || code(t, rec) != "value.is.too.long" {
		t.Fatalf("long short name: %d %s", rec.Code, rec.Body)
	}

	rec = send(h, http.MethodPost, "/api/v1/measures/"+created.ID.String()+"/unarchive", "")
	if rec.Code != http.StatusConflict || code(t, rec) != "measure.is.already.unarchived" {
		t.Fatalf("unarchive active: %d %s", rec.Code, rec.Body)
	}

	rec = send(h, http.MethodGet, "/api/v1/measures", "")
	var list []handlers.MeasureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %d", err, len(list))
	}
}
