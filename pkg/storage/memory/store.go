// Package memory provides an in-process implementation of the storage
// interfaces. It backs local development and the concurrency property tests;
// the DynamoDB store is the durable production implementation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
)

// Store implements the Storage interface with in-memory maps.
//
// Logical transactions (a purchase commit, a credit, a catalog edit) are
// serialized per entity through keyed mutexes, so purchases of different
// items or by different buyers never contend with each other. The state
// mutex is only held while applying or reading the in-memory state, which
// keeps readers from ever observing a partially applied commit.
type Store struct {
	state state
	locks keyedMutex
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		state: state{
			accounts:    make(map[string]*models.Account),
			items:       make(map[string]*models.CatalogItem),
			codes:       make(map[string]*models.Code),
			codesByItem: make(map[string][]*models.Code),
		},
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func accountKey(id string) string  { return "account/" + id }
func itemKey(name string) string   { return "item/" + name }
func normalizeName(n string) string { return strings.ToLower(strings.TrimSpace(n)) }

// defaultItemPrice matches the DynamoDB store's implicit-creation default.
const defaultItemPrice = 1

// GetAccount returns a copy of the account, or a zero-balance account when
// the ID is unknown.
func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	if account, ok := s.state.accounts[id]; ok {
		copy := *account
		return &copy, nil
	}
	return &models.Account{ID: id}, nil
}

// CreditAccount adds amount to the balance, creating the account lazily.
func (s *Store) CreditAccount(ctx context.Context, id string, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	unlock := s.locks.lock(accountKey(id))
	defer unlock()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	account, ok := s.state.accounts[id]
	if !ok {
		account = &models.Account{ID: id, CreatedAt: time.Now()}
		s.state.accounts[id] = account
	}
	account.Balance += amount
	account.Version++

	copy := *account
	return &copy, nil
}

// ListAccounts returns copies of all accounts ordered by ID.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	accounts := make([]models.Account, 0, len(s.state.accounts))
	for _, account := range s.state.accounts {
		accounts = append(accounts, *account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// GetItem retrieves a catalog item by name, case-insensitively.
func (s *Store) GetItem(ctx context.Context, name string) (*models.CatalogItem, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	item, ok := s.state.items[normalizeName(name)]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	copy := *item
	return &copy, nil
}

// ListItems returns copies of all items ordered by name.
func (s *Store) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	items := make([]models.CatalogItem, 0, len(s.state.items))
	for _, item := range s.state.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// UpsertItem creates or updates an item.
func (s *Store) UpsertItem(ctx context.Context, name string, update storage.ItemUpdate) (*models.CatalogItem, error) {
	normalized := normalizeName(name)

	unlock := s.locks.lock(itemKey(normalized))
	defer unlock()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	item, ok := s.state.items[normalized]
	if !ok {
		item = &models.CatalogItem{
			Name:      normalized,
			Price:     defaultItemPrice,
			CreatedAt: time.Now(),
		}
		s.state.items[normalized] = item
	}
	item.DisplayName = strings.TrimSpace(name)
	if update.Price != nil {
		item.Price = *update.Price
	}
	if update.Stock != nil {
		item.Stock = *update.Stock
	}

	copy := *item
	return &copy, nil
}

// DeleteItem removes an item and all of its codes in one step.
func (s *Store) DeleteItem(ctx context.Context, name string) error {
	normalized := normalizeName(name)

	unlock := s.locks.lock(itemKey(normalized))
	defer unlock()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, ok := s.state.items[normalized]; !ok {
		return storage.ErrItemNotFound
	}
	delete(s.state.items, normalized)
	for _, code := range s.state.codesByItem[normalized] {
		delete(s.state.codes, code.ID)
	}
	delete(s.state.codesByItem, normalized)
	return nil
}

// RecountStock recomputes the stock counter from the unused code set.
func (s *Store) RecountStock(ctx context.Context, name string) (int64, error) {
	normalized := normalizeName(name)

	unlock := s.locks.lock(itemKey(normalized))
	defer unlock()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	item, ok := s.state.items[normalized]
	if !ok {
		return 0, storage.ErrItemNotFound
	}
	item.Stock = s.state.countUnused(normalized)
	return item.Stock, nil
}

// ReserveUnusedCode returns a copy of the oldest unused code for the item.
// The reservation becomes final in CommitPurchase, which re-checks the
// status under the same entity lock.
func (s *Store) ReserveUnusedCode(ctx context.Context, itemName string) (*models.Code, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	for _, code := range s.state.codesByItem[normalizeName(itemName)] {
		if code.Status == models.CodeUnused {
			copy := *code
			return &copy, nil
		}
	}
	return nil, storage.ErrOutOfStock
}

// InsertCode adds an unused code and recomputes the item's stock in the same
// step, creating the item implicitly on first insertion.
func (s *Store) InsertCode(ctx context.Context, itemName, payload string) (*models.Code, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("code payload must not be empty")
	}

	normalized := normalizeName(itemName)

	unlock := s.locks.lock(itemKey(normalized))
	defer unlock()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	item, ok := s.state.items[normalized]
	if !ok {
		item = &models.CatalogItem{
			Name:        normalized,
			DisplayName: strings.TrimSpace(itemName),
			Price:       defaultItemPrice,
			CreatedAt:   time.Now(),
		}
		s.state.items[normalized] = item
	}

	s.state.seq++
	code := &models.Code{
		ID:        uuid.New().String(),
		ItemName:  normalized,
		Payload:   payload,
		Status:    models.CodeUnused,
		Seq:       s.state.seq,
		CreatedAt: time.Now(),
	}
	s.state.codes[code.ID] = code
	s.state.codesByItem[normalized] = append(s.state.codesByItem[normalized], code)
	item.Stock = s.state.countUnused(normalized)

	copy := *code
	return &copy, nil
}

// SummarizeCodes reports per-item total and unused counts.
func (s *Store) SummarizeCodes(ctx context.Context) ([]models.CodeSummary, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	summaries := make([]models.CodeSummary, 0, len(s.state.codesByItem))
	for itemName, codes := range s.state.codesByItem {
		summary := models.CodeSummary{ItemName: itemName, Total: int64(len(codes))}
		for _, code := range codes {
			if code.Status == models.CodeUnused {
				summary.Unused++
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ItemName < summaries[j].ItemName })
	return summaries, nil
}

// CommitPurchase applies all effects of one purchase, or none. The buyer and
// item entity locks are held together (in sorted order, to avoid lock cycles)
// so the funds check, the code status check, and the mutations form one
// linearizable step for that buyer/item pair.
func (s *Store) CommitPurchase(ctx context.Context, buyerID string, itemName string, code *models.Code, price int64) (*models.PurchaseRecord, error) {
	normalized := normalizeName(itemName)

	unlock := s.locks.lock(accountKey(buyerID), itemKey(normalized))
	defer unlock()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	now := time.Now()

	// A missing account row reads as balance zero, so a zero-price item is
	// purchasable by a buyer who was never credited. The row is created by
	// the debit itself.
	account, exists := s.state.accounts[buyerID]
	if !exists {
		account = &models.Account{ID: buyerID, CreatedAt: now}
	}
	if account.Balance < price {
		return nil, storage.ErrInsufficientFunds
	}

	item, ok := s.state.items[normalized]
	if !ok {
		return nil, storage.ErrItemNotFound
	}

	stored, ok := s.state.codes[code.ID]
	if !ok || stored.ItemName != normalized || stored.Status != models.CodeUnused {
		return nil, storage.ErrCodeUnavailable
	}

	if !exists {
		s.state.accounts[buyerID] = account
	}
	account.Balance -= price
	account.Version++
	stored.Status = models.CodeConsumed
	stored.ConsumedAt = &now
	item.Stock = s.state.countUnused(normalized)

	record := models.PurchaseRecord{
		ID:        uuid.New().String(),
		BuyerID:   buyerID,
		ItemName:  normalized,
		Price:     price,
		Timestamp: now,
	}
	s.state.purchases = append(s.state.purchases, record)

	return &record, nil
}

// ListPurchases returns the most recent purchase records, newest first.
func (s *Store) ListPurchases(ctx context.Context, limit int32) ([]models.PurchaseRecord, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	n := len(s.state.purchases)
	count := int(limit)
	if count <= 0 || count > n {
		count = n
	}

	records := make([]models.PurchaseRecord, 0, count)
	for i := n - 1; i >= n-count; i-- {
		records = append(records, s.state.purchases[i])
	}
	return records, nil
}
