package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
	"github.com/ghuser/pantry/services/item/domain/models"
)

// ItemIDParam is the chi URL parameter carrying the item id.
const ItemIDParam = "itemID"

// CreateItemRequest is the request body for POST /items.
// Blank names and unknown measure types are rejected by the domain with 400.
type CreateItemRequest struct {
	Name        string `json:"name" validate:"max=255"`
	MeasureType string `json:"measure_type" validate:"max=50"`
}

// ItemResponse is the JSON shape of one item.
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MeasureType string    `json:"measure_type"`
	IsArchive   bool      `json:"is_archive"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID(),
		Name:        item.Name().String(),
		MeasureType: item.MeasureType().Name(),
		IsArchive:   item.IsArchive(),
		CreatedAt:   item.CreatedAt(),
	}
}

func itemIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, ItemIDParam))
	if err != nil {
		return uuid.Nil, kernel.ValueInvalid("id")
	}
	return id, nil
}
