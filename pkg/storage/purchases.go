package storage

import (
	"context"

	"github.com/zedx/codeshop/pkg/models"
)

// PurchaseStore defines the interface for committing and reading purchases.
type PurchaseStore interface {
	// CommitPurchase atomically applies every effect of one purchase: debits the
	// buyer's balance by price, flips the code from unused to consumed, updates
	// the item's stock counter, and appends a PurchaseRecord. All four effects
	// succeed or none do. A buyer without an account row reads as balance zero
	// and the row is created by the debit, so a zero-price item never fails
	// the funds check.
	//
	// Returns ErrInsufficientFunds if the balance dropped below price since the
	// advisory check, and ErrCodeUnavailable if the code was consumed by a
	// concurrent purchase. In both cases no state was changed.
	CommitPurchase(ctx context.Context, buyerID string, itemName string, code *models.Code, price int64) (*models.PurchaseRecord, error)

	// ListPurchases retrieves the most recent purchase records, newest first.
	ListPurchases(ctx context.Context, limit int32) ([]models.PurchaseRecord, error)
}
