package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/ghuser/pantry/pkg/validator"
)

type sampleStruct struct {
	ActorID     string `validate:"required,uuid"`
	Name        string `validate:"required,min=1,max=10"`
	MeasureType string `validate:"omitempty,oneof=weight liquid"`
}

func TestValidate_valid(t *testing.T) {
	s := sampleStruct{
		ActorID: "550e8400-e29b-41d4-a716-446655440000",
		Name:    "apple",
	}
	if err := pkgvalidator.Validate(&s); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidate_missingRequired(t *testing.T) {
	s := sampleStruct{}
	if err := pkgvalidator.Validate(&s); err == nil {
		t.Fatal("expected validation error for empty struct")
	}
}

func TestFormatValidationErrors(t *testing.T) {
	valid := "550e8400-e29b-41d4-a716-446655440000"
	tests := []struct {
		name  string
		input sampleStruct
		field string
		want  string
	}{
		{"required", sampleStruct{Name: "ok"}, "ActorID", "This field is required"},
		{"uuid", sampleStruct{ActorID: "not-a-uuid", Name: "ok"}, "ActorID", "Must be a valid UUID"},
		{"max", sampleStruct{ActorID: valid, Name: "12345678901"}, "Name", "Maximum length is 10"},
		{"oneof", sampleStruct{ActorID: valid, Name: "ok", MeasureType: "kg"}, "MeasureType", "Must be one of: weight liquid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&tt.input))
			if m[tt.field] != tt.want {
				t.Errorf("unexpected %s message: %q", tt.field, m[tt.field])
			}
		})
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie)
	if len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

// --- ValidateRequest ---

type productReq struct {
	Name          string `json:"name"            validate:"max=255"`
	MeasureTypeID int    `json:"measure_type_id" validate:"gte=0"`
}

func TestValidateRequest_valid(t *testing.T) {
	body := `{"name":"Milk","measure_type_id":2}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[productReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.Name != "Milk" || req.MeasureTypeID != 2 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestValidateRequest_invalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad json"))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[productReq](w, r)
	if ok {
		t.Fatal("expected ok=false for malformed JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "request.malformed") {
		t.Errorf("expected error code in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_tagFailure(t *testing.T) {
	body := `{"name":"Milk","measure_type_id":-1}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[productReq](w, r)
	if ok {
		t.Fatal("expected ok=false for negative measure_type_id")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "measure_type_id") {
		t.Errorf("expected json field name in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_bodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", 64) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	_, ok := pkgvalidator.ValidateRequest[productReq](w, r)
	if ok {
		t.Fatal("expected ok=false for oversized body")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
