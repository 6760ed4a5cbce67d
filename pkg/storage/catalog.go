package storage

import (
	"context"

	"github.com/zedx/codeshop/pkg/models"
)

// ItemUpdate carries the optional fields of an administrative item upsert.
// Nil fields are left unchanged (or defaulted on create).
type ItemUpdate struct {
	Price *int64
	Stock *int64
}

// CatalogStore defines the interface for managing catalog items.
type CatalogStore interface {
	// GetItem retrieves a catalog item by name. Lookup is case-insensitive.
	// Returns ErrItemNotFound if no such item exists.
	GetItem(ctx context.Context, name string) (*models.CatalogItem, error)

	// ListItems retrieves all catalog items ordered by name.
	ListItems(ctx context.Context) ([]models.CatalogItem, error)

	// UpsertItem creates or updates a catalog item.
	UpsertItem(ctx context.Context, name string, update ItemUpdate) (*models.CatalogItem, error)

	// DeleteItem removes a catalog item and all of its codes.
	// Returns ErrItemNotFound if no such item exists.
	DeleteItem(ctx context.Context, name string) error

	// RecountStock recomputes an item's stock counter from its unused codes
	// and persists the result. Returns the recomputed count.
	RecountStock(ctx context.Context, name string) (int64, error)
}
