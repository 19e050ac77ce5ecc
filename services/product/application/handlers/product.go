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

// ProductHandlers serves the /products routes.
type ProductHandlers struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewProductHandlers returns the product handlers backed by svc.
func NewProductHandlers(svc *appsvcs.Services, isProduction bool) *ProductHandlers {
	return &ProductHandlers{svc: svc, isProduction: isProduction}
}

// Create handles POST /products.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateProductRequest](w, r)
	if !ok {
		return
	}

	p, err := h.svc.Product.Create(r.Context(), req.Name, req.MeasureTypeID)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+p.ID().String())
	httpx.JSON(w, http.StatusCreated, toProductResponse(p))
}

// Get handles GET /products/{productID}.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, ProductIDParam)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	p, err := h.svc.Product.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(p))
}

// List handles GET /products. An empty catalog answers 200 with [].
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Product.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Archive handles POST /products/{productID}/archive.
func (h *ProductHandlers) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Product.Archive)
}

// Unarchive handles POST /products/{productID}/unarchive.
func (h *ProductHandlers) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Product.Unarchive)
}

func (h *ProductHandlers) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, uuid.UUID) (*models.Product, error)) {
	id, err := idFromPath(r, ProductIDParam)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	p, err := apply(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(p))
}
