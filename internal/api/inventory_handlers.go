package api

import (
	"log/slog"
	"net/http"

	"github.com/example/inventory-api/internal/api/middleware"
	"github.com/example/inventory-api/internal/domain/inventory"
)

type InventoryHandlers struct {
	inventory *inventory.Service
	logger    *slog.Logger
}

func NewInventoryHandlers(svc *inventory.Service, logger *slog.Logger) *InventoryHandlers {
	return &InventoryHandlers{inventory: svc, logger: logger}
}

// UpdateQuantityRequest is the body of an item quantity update.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *InventoryHandlers) GetInventory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	items, err := h.inventory.GetInventory(r.Context(), userID, middleware.TokenFromContext(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *InventoryHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	var item inventory.Item
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	added, err := h.inventory.AddItem(r.Context(), userID, middleware.TokenFromContext(r.Context()), item)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

func (h *InventoryHandlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	itemID, err := pathID(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	var req UpdateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "quantity is required")
		return
	}

	updated, err := h.inventory.UpdateItemQuantity(r.Context(), userID, itemID, middleware.TokenFromContext(r.Context()), *req.Quantity)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *InventoryHandlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	itemID, err := pathID(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	if err := h.inventory.DeleteItem(r.Context(), userID, itemID, middleware.TokenFromContext(r.Context())); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Item deleted successfully."})
}
