package mapping

import (
	"github.com/zedx/codeshop/pkg/api"
	"github.com/zedx/codeshop/pkg/models"
)

// ToApiCatalogEntry converts a domain CatalogItem to an API CatalogEntry.
// The displayed name keeps the admin's original casing.
func ToApiCatalogEntry(item *models.CatalogItem) *api.CatalogEntry {
	name := item.DisplayName
	if name == "" {
		name = item.Name
	}
	return &api.CatalogEntry{
		Name:  name,
		Stock: item.Stock,
		Price: item.Price,
	}
}

// ToApiAccount converts a domain Account to an API Account.
func ToApiAccount(account *models.Account) *api.Account {
	return &api.Account{
		ID:          account.ID,
		DisplayName: account.DisplayName,
		Balance:     account.Balance,
	}
}

// ToApiPurchaseRecord converts a domain PurchaseRecord to an API PurchaseRecord.
func ToApiPurchaseRecord(record *models.PurchaseRecord) *api.PurchaseRecord {
	return &api.PurchaseRecord{
		ID:        record.ID,
		BuyerID:   record.BuyerID,
		ItemName:  record.ItemName,
		Price:     record.Price,
		Timestamp: record.Timestamp,
	}
}

// ToApiCodeSummary converts a domain CodeSummary to an API CodeSummary.
func ToApiCodeSummary(summary *models.CodeSummary) *api.CodeSummary {
	return &api.CodeSummary{
		ItemName: summary.ItemName,
		Total:    summary.Total,
		Unused:   summary.Unused,
	}
}

// ToPurchaseEvent builds the audit-feed event for a committed purchase.
func ToPurchaseEvent(record *models.PurchaseRecord, remainingBalance int64) *api.PurchaseEvent {
	return &api.PurchaseEvent{
		RecordID:         record.ID,
		BuyerID:          record.BuyerID,
		ItemName:         record.ItemName,
		Price:            record.Price,
		RemainingBalance: remainingBalance,
		Timestamp:        record.Timestamp,
	}
}
