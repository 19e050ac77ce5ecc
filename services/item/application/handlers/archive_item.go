package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/errhttp"
	"github.com/ghuser/pantry/pkg/httpx"
	appsvcs "github.com/ghuser/pantry/services/item/application/services"
	"github.com/ghuser/pantry/services/item/domain/models"
)

// ArchiveItemHandler handles POST /items/{itemID}/archive and
// POST /items/{itemID}/unarchive.
type ArchiveItemHandler struct {
	transition   func(ctx context.Context, id uuid.UUID) (*models.Item, error)
	isProduction bool
}

// NewArchiveItemHandler returns the handler that archives an item.
func NewArchiveItemHandler(svc *appsvcs.Services, isProduction bool) *ArchiveItemHandler {
	return &ArchiveItemHandler{transition: svc.Item.Archive, isProduction: isProduction}
}

// NewUnarchiveItemHandler returns the handler that unarchives an item.
func NewUnarchiveItemHandler(svc *appsvcs.Services, isProduction bool) *ArchiveItemHandler {
	return &ArchiveItemHandler{transition: svc.Item.Unarchive, isProduction: isProduction}
}

// Execute applies the transition. 409 when the item is already in the target state.
func (h *ArchiveItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromPath(r)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}

	item, err := h.transition(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(item))
}
