package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/services/product/domain/models"
)

// URL parameters of the product context routes.
const (
	ProductIDParam = "productID"
	MeasureIDParam = "measureID"
)

// CreateProductRequest is the request body for POST /products.
type CreateProductRequest struct {
	Name          string `json:"name" validate:"max=255"`
	MeasureTypeID int    `json:"measure_type_id"`
}

// ProductResponse is the JSON shape of one product.
type ProductResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MeasureTypeID int       `json:"measure_type_id"`
	MeasureType   string    `json:"measure_type"`
	IsArchive     bool      `json:"is_archive"`
	CreatedAt     time.Time `json:"created_at"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID(),
		Name:          p.Name().String(),
		MeasureTypeID: p.MeasureType().ID(),
		MeasureType:   p.MeasureType().Name(),
		IsArchive:     p.IsArchive(),
		CreatedAt:     p.CreatedAt(),
	}
}

// CreateMeasureRequest is the request body for POST /measures.
// Short names longer than six characters are rejected by the domain.
type CreateMeasureRequest struct {
	FullName      string `json:"full_name" validate:"max=255"`
	ShortName     string `json:"short_name" validate:"max=50"`
	MeasureTypeID int    `json:"measure_type_id"`
}

// MeasureResponse is the JSON shape of one measure.
type MeasureResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	ShortName     string    `json:"short_name"`
	MeasureTypeID int       `json:"measure_type_id"`
	MeasureType   string    `json:"measure_type"`
	IsArchive     bool      `json:"is_archive"`
	CreatedAt     time.Time `json:"created_at"`
}

func toMeasureResponse(m *models.Measure) MeasureResponse {
	return MeasureResponse{
		ID:            m.ID(),
		FullName:      m.FullName().String(),
		ShortName:     m.ShortName().String(),
		MeasureTypeID: m.MeasureType().ID(),
		MeasureType:   m.MeasureType().Name(),
		IsArchive:     m.IsArchive(),
		CreatedAt:     m.CreatedAt(),
	}
}

func idFromPath(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, kernel.ValueInvalid("id")
	}
	return id, nil
}
