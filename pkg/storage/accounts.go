package storage

import (
	"context"

	"github.com/zedx/codeshop/pkg/models"
)

// AccountStore defines the interface for managing buyer accounts.
type AccountStore interface {
	// GetAccount retrieves an account by its user ID. An unknown ID returns a
	// zero-balance account; persisting it is the caller's responsibility and
	// happens lazily on the first credit or purchase.
	GetAccount(ctx context.Context, id string) (*models.Account, error)

	// CreditAccount atomically adds amount to the account balance, creating the
	// account if it does not exist. Amount must be positive.
	CreditAccount(ctx context.Context, id string, amount int64) (*models.Account, error)

	// ListAccounts retrieves all accounts, for reporting and export.
	ListAccounts(ctx context.Context) ([]models.Account, error)
}
