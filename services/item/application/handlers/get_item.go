package handlers

import (
	"net/http"

	"github.com/ghuser/pantry/pkg/errhttp"
	"github.com/ghuser/pantry/pkg/httpx"
	appsvcs "github.com/ghuser/pantry/services/item/application/services"
)

// GetItemHandler handles GET /items/{itemID}.
type GetItemHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

func NewGetItemHandler(svc *appsvcs.Services, isProduction bool) *GetItemHandler {
	return &GetItemHandler{svc: svc, isProduction: isProduction}
}

func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDFromPath(r)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}

	item, err := h.svc.Item.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(item))
}

// ListItemsHandler handles GET /items. An empty catalog answers 200 with [].
type ListItemsHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

func NewListItemsHandler(svc *appsvcs.Services, isProduction bool) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, isProduction: isProduction}
}

func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Item.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err, h.isProduction)
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(item))
	}
	httpx.JSON(w, http.StatusOK, resp)
}
