package handlers

import (
	"net/http"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/pkg/logging"
)

// InventoryHandler serves the inventory page. Low-stock flags come from the
// backend along with the items.
type InventoryHandler struct {
	client    *backend.Client
	logger    *logging.Logger
	loginPath string
}

func NewInventoryHandler(client *backend.Client, loginPath string, logger *logging.Logger) *InventoryHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &InventoryHandler{
		client:    client,
		logger:    logger.Component("inventory"),
		loginPath: loginPath,
	}
}

// List returns the workspace's inventory items.
// GET /app/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.respondWithList(w, r, token)
}

// Create adds an item and returns the re-read list.
// POST /app/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	var req backend.InventoryItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	}
	if _, err := h.client.CreateInventoryItem(r.Context(), token, req); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

// Update edits an item and returns the re-read list.
// PUT /app/inventory/{itemID}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	itemID, ok := intParam(r, "itemID")
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	var req backend.InventoryItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.client.UpdateInventoryItem(r.Context(), token, itemID, req); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

// Delete removes an item and returns the re-read list.
// DELETE /app/inventory/{itemID}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	itemID, ok := intParam(r, "itemID")
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err := h.client.DeleteInventoryItem(r.Context(), token, itemID); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

func (h *InventoryHandler) respondWithList(w http.ResponseWriter, r *http.Request, token string) {
	items, err := h.client.ListInventory(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if items == nil {
		items = []backend.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
