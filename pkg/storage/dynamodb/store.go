package dynamodb

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/zedx/codeshop/pkg/storage"
)

// DynamoDBAPI defines the subset of the DynamoDB client used by the Store.
// It exists so tests can substitute a mock client.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

const (
	// allCodesIndex orders every code of an item by insertion sequence.
	allCodesIndex = "item_name-index"
	// unusedCodesIndex is sparse: codes appear under it only while unused
	// (the unused_seq attribute is removed on consumption). Querying it
	// ascending with a limit of 1 yields the FIFO allocation candidate.
	unusedCodesIndex = "item_name-unused-index"
	// purchaseLogPK is the constant partition key that keeps the purchase
	// log queryable in timestamp order.
	purchaseLogPK = "PURCHASES"
)

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client               DynamoDBAPI
	AccountsTableName    string
	ItemsTableName       string
	CodesTableName       string
	PurchasesTableName   string
	ConnectionsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, accountsTable, itemsTable, codesTable, purchasesTable string) *Store {
	return &Store{
		Client:             client,
		AccountsTableName:  accountsTable,
		ItemsTableName:     itemsTable,
		CodesTableName:     codesTable,
		PurchasesTableName: purchasesTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// normalizeName maps an item name to its storage key. Item lookup is
// case-insensitive; the original casing is kept in the display_name attribute.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
