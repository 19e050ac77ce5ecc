package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/errhttp"
	"github.com/ghuser/pantry/pkg/httpx"
	pkgvalidator "github.com/ghuser/pantry/pkg/validator"
	appsvcs "github.com/ghuser/pantry/services/product/application/services"
	"github.com/ghuser/pantry/services/product/domain/models"
)

// MeasureHandlers serves the /measures routes.
type MeasureHandlers struct {
	svc          *appsvcs.Services
	isProduction bool
}

func NewMeasureHandlers(svc *appsvcs.Services, isProduction bool) *MeasureHandlers {
	return &MeasureHandlers{svc: svc, isProduction: isProduction}
}

func (h *MeasureHandlers) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateMeasureRequest](w, r)
	if !ok {
		return
	}

	m, err := h.svc.Measure.Create(r.Context(), req.FullName, req.ShortName, req.MeasureTypeID)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+m.ID().String())
	httpx.JSON(w, http.StatusCreated, toMeasureResponse(m))
}

func (h *MeasureHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, MeasureIDParam)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	m, err := h.svc.Measure.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	httpx.JSON(w, http.StatusOK, toMeasureResponse(m))
}

func (h *MeasureHandlers) List(w http.ResponseWriter, r *http.Request) {
	measures, err := h.svc.Measure.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	resp := make([]MeasureResponse, 0, len(measures))
	for _, m := range measures {
		resp = append(resp, toMeasureResponse(m))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *MeasureHandlers) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Measure.Archive)
}

func (h *MeasureHandlers) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Measure.Unarchive)
}

func (h *MeasureHandlers) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, uuid.UUID) (*models.Measure, error)) {
	id, err := idFromPath(r, MeasureIDParam)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	m, err := apply(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	httpx.JSON(w, http.StatusOK, toMeasureResponse(m))
}
