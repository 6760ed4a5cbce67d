// Package shop contains the purchase coordinator and the catalog maintainer.
// Both mutate state only through the storage layer's atomic operations, which
// is what keeps the balance, code, and stock invariants enforceable.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zedx/codeshop/pkg/events"
	"github.com/zedx/codeshop/pkg/mapping"
	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
	"github.com/zedx/codeshop/pkg/websockets"
)

// allocationAttempts bounds how often a purchase re-allocates after losing a
// code to a concurrent buyer before giving up with ErrOutOfStock.
const allocationAttempts = 3

// PurchaseOutcome is the result of a completed purchase.
type PurchaseOutcome struct {
	// Payload is the single-use deliverable content of the consumed code.
	Payload string
	// RemainingBalance is the buyer's balance after the debit.
	RemainingBalance int64
	// Record is the appended purchase log entry.
	Record *models.PurchaseRecord
}

// PurchaseService coordinates one purchase attempt: item lookup, advisory
// funds check, code allocation, and the single atomic commit.
type PurchaseService struct {
	store  storage.Storage
	events events.Publisher
	push   websockets.Publisher
	logger *slog.Logger
}

// NewPurchaseService creates a new PurchaseService. The publishers may be nil;
// post-commit notifications are then skipped.
func NewPurchaseService(store storage.Storage, eventPublisher events.Publisher, push websockets.Publisher, logger *slog.Logger) *PurchaseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseService{
		store:  store,
		events: eventPublisher,
		push:   push,
		logger: logger,
	}
}

// Purchase executes one purchase attempt for the buyer and item.
//
// Rejections are returned as the storage sentinel errors, wrapped with
// actionable detail: storage.ErrItemNotFound, storage.ErrInsufficientFunds,
// storage.ErrOutOfStock. The price charged is the price read at allocation
// time; an admin repricing a moment later never retroactively reprices a
// purchase in flight. Repeated requests are not deduplicated here; at-most-
// once-per-click semantics belong to the front end.
func (s *PurchaseService) Purchase(ctx context.Context, buyerID, itemName string) (*PurchaseOutcome, error) {
	// ItemLookup.
	item, err := s.store.GetItem(ctx, itemName)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return nil, fmt.Errorf("%w: %s", storage.ErrItemNotFound, itemName)
		}
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}

	// FundsCheck. Advisory only: the commit re-enforces the balance condition
	// atomically, so a race between this check and the debit cannot overdraw.
	account, err := s.store.GetAccount(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer account: %w", err)
	}
	if account.Balance < item.Price {
		return nil, fmt.Errorf("%w: need %d, have %d", storage.ErrInsufficientFunds, item.Price, account.Balance)
	}

	// Allocate + Commit, re-allocating when a concurrent buyer wins the code.
	var record *models.PurchaseRecord
	var code *models.Code
	for attempt := 0; attempt < allocationAttempts; attempt++ {
		code, err = s.store.ReserveUnusedCode(ctx, item.Name)
		if err != nil {
			if errors.Is(err, storage.ErrOutOfStock) {
				return nil, fmt.Errorf("%w: %s", storage.ErrOutOfStock, itemName)
			}
			return nil, fmt.Errorf("failed to allocate code: %w", err)
		}

		record, err = s.store.CommitPurchase(ctx, buyerID, item.Name, code, item.Price)
		if err == nil {
			break
		}
		if errors.Is(err, storage.ErrCodeUnavailable) {
			s.logger.Debug("allocated code lost to concurrent purchase, re-allocating",
				"item", item.Name, "code_id", code.ID, "attempt", attempt+1)
			record = nil
			continue
		}
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return nil, fmt.Errorf("%w: need %d, have %d", storage.ErrInsufficientFunds, item.Price, account.Balance)
		}
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrOutOfStock, itemName)
	}

	outcome := &PurchaseOutcome{
		Payload:          code.Payload,
		RemainingBalance: account.Balance - item.Price,
		Record:           record,
	}

	// The committed debit is authoritative; re-read so concurrent credits are
	// reflected in the reported balance.
	if updated, err := s.store.GetAccount(ctx, buyerID); err == nil {
		outcome.RemainingBalance = updated.Balance
	} else {
		s.logger.Warn("purchase committed but failed to re-read account", "buyer_id", buyerID, "error", err)
	}

	s.logger.Info("purchase committed",
		"buyer_id", buyerID, "item", item.Name, "price", item.Price, "record_id", record.ID)

	s.notify(ctx, item.Name, record, outcome.RemainingBalance)

	return outcome, nil
}

// notify publishes the post-commit audit event and storefront updates.
// Failures are logged and never unwind the purchase.
func (s *PurchaseService) notify(ctx context.Context, itemName string, record *models.PurchaseRecord, remainingBalance int64) {
	if s.events != nil {
		if err := s.events.PublishPurchase(ctx, mapping.ToPurchaseEvent(record, remainingBalance)); err != nil {
			s.logger.Error("purchase committed but audit event was not published",
				"record_id", record.ID, "error", err)
		}
	}

	if s.push == nil {
		return
	}
	item, err := s.store.GetItem(ctx, itemName)
	if err != nil {
		s.logger.Warn("failed to read item for stock broadcast", "item", itemName, "error", err)
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
		s.logger.Warn("failed to broadcast stock update", "item", itemName, "error", err)
	}
}
