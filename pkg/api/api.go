// Package api declares the transport-level request and response types of the
// shop. Transports (HTTP handlers here, a chat bot elsewhere) exchange these
// with their clients; pkg/mapping converts between them and the domain models.
package api

import "time"

// PurchaseRequest asks to buy one unit of an item for a buyer.
type PurchaseRequest struct {
	BuyerID  string `json:"buyer_id"`
	ItemName string `json:"item_name"`
}

// PurchaseResult is the successful outcome of a purchase: the single-use
// payload and the buyer's balance after the debit.
type PurchaseResult struct {
	Payload          string `json:"payload"`
	RemainingBalance int64  `json:"remaining_balance"`
}

// CatalogEntry is one row of the public catalog listing.
type CatalogEntry struct {
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
	Price int64  `json:"price"`
}

// Account is the public view of a buyer's account.
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Balance     int64  `json:"balance"`
}

// CreditRequest tops up an account balance by a positive amount.
type CreditRequest struct {
	Amount int64 `json:"amount"`
}

// UpsertItemRequest creates or edits a catalog item. Nil fields are left
// unchanged.
type UpsertItemRequest struct {
	Price *int64 `json:"price,omitempty"`
	Stock *int64 `json:"stock,omitempty"`
}

// NewCodeRequest adds a single-use code payload to an item's inventory.
type NewCodeRequest struct {
	Payload string `json:"payload"`
}

// PurchaseRecord is one entry of the purchase log.
type PurchaseRecord struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyer_id"`
	ItemName  string    `json:"item_name"`
	Price     int64     `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// PurchaseEvent is published to the audit feed after every committed purchase.
type PurchaseEvent struct {
	RecordID         string    `json:"record_id"`
	BuyerID          string    `json:"buyer_id"`
	ItemName         string    `json:"item_name"`
	Price            int64     `json:"price"`
	RemainingBalance int64     `json:"remaining_balance"`
	Timestamp        time.Time `json:"timestamp"`
}

// CodeSummary reports per-item inventory counts for administrators.
type CodeSummary struct {
	ItemName string `json:"item_name"`
	Total    int64  `json:"total"`
	Unused   int64  `json:"unused"`
}
