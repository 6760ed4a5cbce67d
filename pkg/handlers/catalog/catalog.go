package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/zedx/codeshop/pkg/api"
	"github.com/zedx/codeshop/pkg/mapping"
	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
)

// Maintainer is the administrative catalog surface consumed by this handler.
type Maintainer interface {
	Catalog(ctx context.Context) ([]models.CatalogItem, error)
	UpsertItem(ctx context.Context, name string, update storage.ItemUpdate) (*models.CatalogItem, error)
	DeleteItem(ctx context.Context, name string) error
	InsertCode(ctx context.Context, itemName, payload string) (*models.Code, error)
	CodeSummaries(ctx context.Context) ([]models.CodeSummary, error)
}

// CatalogHandler holds the dependencies for catalog-related handlers.
type CatalogHandler struct {
	Shop Maintainer
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(shopService Maintainer) *CatalogHandler {
	return &CatalogHandler{Shop: shopService}
}

// ListCatalog handles the logic for the public catalog listing.
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.Shop.Catalog(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve catalog: %v", err), http.StatusInternalServerError)
		return
	}

	entries := make([]*api.CatalogEntry, len(items))
	for i, item := range items {
		entries[i] = mapping.ToApiCatalogEntry(&item)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// UpsertItem handles the logic for creating or editing a catalog item.
func (h *CatalogHandler) UpsertItem(w http.ResponseWriter, r *http.Request, itemName string) {
	var req api.UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	item, err := h.Shop.UpsertItem(r.Context(), itemName, storage.ItemUpdate{
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to upsert item: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiCatalogEntry(item)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// DeleteItem handles the logic for removing an item and its codes.
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request, itemName string) {
	if err := h.Shop.DeleteItem(r.Context(), itemName); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to delete item: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InsertCode handles the logic for adding a code to an item's inventory.
func (h *CatalogHandler) InsertCode(w http.ResponseWriter, r *http.Request, itemName string) {
	var req api.NewCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Payload == "" {
		http.Error(w, "payload is required", http.StatusBadRequest)
		return
	}

	if _, err := h.Shop.InsertCode(r.Context(), itemName, req.Payload); err != nil {
		http.Error(w, fmt.Sprintf("Failed to insert code: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// ListCodeSummaries handles the logic for the admin inventory overview.
func (h *CatalogHandler) ListCodeSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Shop.CodeSummaries(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve code summaries: %v", err), http.StatusInternalServerError)
		return
	}

	apiSummaries := make([]*api.CodeSummary, len(summaries))
	for i, summary := range summaries {
		apiSummaries[i] = mapping.ToApiCodeSummary(&summary)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiSummaries); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
