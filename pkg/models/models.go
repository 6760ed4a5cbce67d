package models

import (
	"time"
)

// CodeStatus defines the possible states of a single-use code.
type CodeStatus string

const (
	// CodeUnused means the code is still available for purchase.
	CodeUnused CodeStatus = "unused"
	// CodeConsumed means the code has been sold. A consumed code never
	// transitions back to unused.
	CodeConsumed CodeStatus = "consumed"
)

// Account represents a buyer's coin balance record.
// It includes dynamodbav tags for marshalling.
type Account struct {
	ID          string    `json:"id" dynamodbav:"user_id"`
	DisplayName string    `json:"display_name,omitempty" dynamodbav:"display_name,omitempty"`
	Balance     int64     `json:"balance" dynamodbav:"balance"`
	Version     int64     `json:"version" dynamodbav:"version"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}

// CatalogItem represents a purchasable product.
//
// Stock is a derived cache of the number of unused codes for the item. It is
// maintained inside the same transaction as any code mutation, but readers
// must treat it as advisory; code reservation is authoritative.
type CatalogItem struct {
	Name        string    `json:"name" dynamodbav:"name"`
	DisplayName string    `json:"display_name" dynamodbav:"display_name"`
	Price       int64     `json:"price" dynamodbav:"price"`
	Stock       int64     `json:"stock" dynamodbav:"stock"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Code represents a single-use payload belonging to a catalog item.
// Seq records insertion order; allocation consumes codes oldest-first.
type Code struct {
	ID         string     `dynamodbav:"id"`
	ItemName   string     `dynamodbav:"item_name"`
	Payload    string     `dynamodbav:"payload"`
	Status     CodeStatus `dynamodbav:"status"`
	Seq        int64      `dynamodbav:"seq"`
	CreatedAt  time.Time  `dynamodbav:"created_at"`
	ConsumedAt *time.Time `dynamodbav:"consumed_at,omitempty"`
}

// PurchaseRecord is one entry in the append-only purchase log.
type PurchaseRecord struct {
	ID        string    `dynamodbav:"id"`
	BuyerID   string    `dynamodbav:"buyer_id"`
	ItemName  string    `dynamodbav:"item_name"`
	Price     int64     `dynamodbav:"price"`
	Timestamp time.Time `dynamodbav:"ts"`
	GSI1PK    string    `dynamodbav:"gsi1pk"`
}

// CodeSummary reports per-item code counts for the admin inventory view.
type CodeSummary struct {
	ItemName string `json:"item_name"`
	Total    int64  `json:"total"`
	Unused   int64  `json:"unused"`
}
