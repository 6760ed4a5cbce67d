package storage

import (
	"context"

	"github.com/zedx/codeshop/pkg/models"
)

// CodeStore defines the interface for managing single-use codes.
type CodeStore interface {
	// ReserveUnusedCode selects the oldest unused code for an item. It does not
	// mutate the code; CommitPurchase conditions on the code still being unused,
	// which makes selection and reservation effectively one indivisible step.
	// Returns ErrOutOfStock when no unused code exists, even if the cached stock
	// counter showed a positive number.
	ReserveUnusedCode(ctx context.Context, itemName string) (*models.Code, error)

	// InsertCode adds a new unused code for an item, creating the item with a
	// default price if it does not exist, and updates the item's stock counter
	// in the same atomic step.
	InsertCode(ctx context.Context, itemName, payload string) (*models.Code, error)

	// SummarizeCodes reports total and unused code counts per item.
	SummarizeCodes(ctx context.Context) ([]models.CodeSummary, error)
}
