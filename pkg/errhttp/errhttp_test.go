package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
)

var itemKind = kernel.Kind{Name: "Item", Code: "item"}

func writeError(err error, isProduction bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodPost, "/api/v1/items", http.NoBody), err, isProduction)
	return w
}

func TestWriteError_StatusCodes(t *testing.T) {
	id := uuid.New()
	_, unknownType := kernel.MeasureTypeFromName("kg")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"value required", kernel.ValueRequired("measureType"), http.StatusBadRequest, "value.is.required"},
		{"value invalid", kernel.ValueInvalid("name"), http.StatusBadRequest, "value.is.invalid"},
		{"too long", kernel.ValueTooLong("shortName", 6), http.StatusBadRequest, "value.is.too.long"},
		{"unknown measure type", unknownType, http.StatusBadRequest, "unknown.measure.type"},
		{"not found", kernel.NotFound(id, itemKind), http.StatusNotFound, "item.is.not.exists"},
		{"already archived", kernel.AlreadyArchived(id, itemKind), http.StatusConflict, "item.is.already.archived"},
		{"already unarchived", kernel.AlreadyUnarchived(id, itemKind), http.StatusConflict, "item.is.already.unarchived"},
		{"unique violation", kernel.UniqueViolation(itemKind, "Apple", kernel.Weight), http.StatusConflict, "item.unique.violation"},
		{"wrapped", fmt.Errorf("archive item: %w", kernel.AlreadyArchived(id, itemKind)), http.StatusConflict, "item.is.already.archived"},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError, "internal"},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := writeError(tt.err, false)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body is not valid JSON: %v", err)
			}
			if body["code"] != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, body["code"])
			}
			if body["error"] == "" {
				t.Fatal("response body missing 'error' message")
			}
		})
	}
}

func TestWriteError_DomainMessageWithoutWrapping(t *testing.T) {
	id := uuid.New()
	w := writeError(fmt.Errorf("archive item: %w", kernel.AlreadyArchived(id, itemKind)), false)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "The Item with ID: " + id.String() + " is already archived"
	if body["error"] != want {
		t.Fatalf("got %q, want %q", body["error"], want)
	}
}

func TestWriteError_MasksInternalErrorsInProduction(t *testing.T) {
	w := writeError(errors.New("pgx: connection refused"), true)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected masked message, got %q", body["error"])
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := writeError(kernel.ValueInvalid("name"), false)

	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
