package shop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
	"github.com/zedx/codeshop/pkg/websockets"
)

// CatalogService is the administrative side of the shop: item definitions,
// inventory codes, and balance credits. Every mutation goes through an atomic
// storage operation, so the stock counter is never observable in a state that
// disagrees with the code set.
type CatalogService struct {
	store  storage.Storage
	push   websockets.Publisher
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService. The push publisher may be nil.
func NewCatalogService(store storage.Storage, push websockets.Publisher, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		store:  store,
		push:   push,
		logger: logger,
	}
}

// Catalog returns all items ordered by name.
func (s *CatalogService) Catalog(ctx context.Context) ([]models.CatalogItem, error) {
	return s.store.ListItems(ctx)
}

// Balance returns the account for the given buyer, zero-balance when unknown.
func (s *CatalogService) Balance(ctx context.Context, buyerID string) (*models.Account, error) {
	return s.store.GetAccount(ctx, buyerID)
}

// UpsertItem creates or edits an item definition.
func (s *CatalogService) UpsertItem(ctx context.Context, name string, update storage.ItemUpdate) (*models.CatalogItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name must not be empty")
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, fmt.Errorf("item price must not be negative, got %d", *update.Price)
	}

	item, err := s.store.UpsertItem(ctx, name, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item upserted", "item", item.Name, "price", item.Price, "stock", item.Stock)
	s.broadcastStock(ctx, item)
	return item, nil
}

// DeleteItem removes an item together with all of its codes.
func (s *CatalogService) DeleteItem(ctx context.Context, name string) error {
	if err := s.store.DeleteItem(ctx, name); err != nil {
		return err
	}
	s.logger.Info("item deleted", "item", name)
	return nil
}

// InsertCode adds one single-use code to an item's inventory, creating the
// item implicitly on first insertion. The stock counter is updated in the
// same atomic step as the code row.
func (s *CatalogService) InsertCode(ctx context.Context, itemName, payload string) (*models.Code, error) {
	code, err := s.store.InsertCode(ctx, itemName, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("code inserted", "item", code.ItemName, "code_id", code.ID)

	if item, err := s.store.GetItem(ctx, code.ItemName); err == nil {
		s.broadcastStock(ctx, item)
	}
	return code, nil
}

// Credit adds a positive amount to a buyer's balance, creating the account
// lazily on first credit.
func (s *CatalogService) Credit(ctx context.Context, buyerID string, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	account, err := s.store.CreditAccount(ctx, buyerID, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account credited", "buyer_id", buyerID, "amount", amount, "balance", account.Balance)

	if s.push != nil {
		if err := s.push.Publish(ctx, websockets.Message{
			Type: websockets.MessageTypeBalanceUpdate,
			Payload: websockets.BalanceUpdatePayload{
				UserID:     account.ID,
				NewBalance: account.Balance,
			},
		}); err != nil {
			s.logger.Warn("failed to broadcast balance update", "buyer_id", buyerID, "error", err)
		}
	}

	return account, nil
}

// Purchases returns the most recent purchase records, newest first.
func (s *CatalogService) Purchases(ctx context.Context, limit int32) ([]models.PurchaseRecord, error) {
	return s.store.ListPurchases(ctx, limit)
}

// CodeSummaries reports per-item total and unused code counts.
func (s *CatalogService) CodeSummaries(ctx context.Context) ([]models.CodeSummary, error) {
	return s.store.SummarizeCodes(ctx)
}

func (s *CatalogService) broadcastStock(ctx context.Context, item *models.CatalogItem) {
	if s.push == nil {
		return
	}
	if err := s.push.Publish(ctx, websockets.Message{
		Type: websockets.MessageTypeStockUpdate,
		Payload: websockets.StockUpdatePayload{
			ItemName: item.Name,
			Stock:    item.Stock,
			Price:    item.Price,
		},
	}); err != nil {
		s.logger.Warn("failed to broadcast stock update", "item", item.Name, "error", err)
	}
}
