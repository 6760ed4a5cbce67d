package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
)

// Positions of the operations inside the commit transaction, used to map
// cancellation reasons back to rejection errors.
const (
	commitOpDebit = iota
	commitOpConsumeCode
	commitOpStock
	commitOpRecord
)

// CommitPurchase atomically applies all four effects of a purchase in a single
// TransactWriteItems call: debit the buyer, consume the code, decrement the
// item's stock counter, and append the purchase record.
//
// The stock decrement is guarded by the code's unused->consumed flip in the
// same transaction, so it is equivalent to a recount as long as the counter
// invariant held beforehand; DynamoDB cannot aggregate inside a transaction.
func (s *Store) CommitPurchase(ctx context.Context, buyerID string, itemName string, code *models.Code, price int64) (*models.PurchaseRecord, error) {
	normalized := normalizeName(itemName)
	now := time.Now()

	record := &models.PurchaseRecord{
		ID:        uuid.New().String(),
		BuyerID:   buyerID,
		ItemName:  normalized,
		Price:     price,
		Timestamp: now,
		GSI1PK:    purchaseLogPK,
	}

	recordAV, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal purchase record: %w", err)
	}
	priceAV, err := attributevalue.Marshal(price)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal price: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	slog.Log(ctx, slog.LevelDebug, "committing purchase",
		"buyer_id", buyerID, "item", normalized, "code_id", code.ID, "price", price)

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Debit the buyer's balance. The condition closes
				// the race between the advisory funds check and the commit. A
				// missing account row reads as balance zero and is created by
				// the debit, so never-credited buyers can take zero-price items.
				Update: &types.Update{
					TableName: aws.String(s.AccountsTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: buyerID},
					},
					UpdateExpression:    aws.String("SET balance = if_not_exists(balance, :zero) - :price, version = if_not_exists(version, :zero) + :inc, created_at = if_not_exists(created_at, :now)"),
					ConditionExpression: aws.String("(attribute_not_exists(balance) AND :price <= :zero) OR balance >= :price"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":price": priceAV,
						":zero":  &types.AttributeValueMemberN{Value: "0"},
						":inc":   &types.AttributeValueMemberN{Value: "1"},
						":now":   nowAV,
					},
				},
			},
			{
				// Operation 2: Consume the code. Removing unused_seq drops it
				// out of the sparse allocation index. The condition guarantees
				// no two purchases ever consume the same code.
				Update: &types.Update{
					TableName: aws.String(s.CodesTableName),
					Key: map[string]types.AttributeValue{
						"id": &types.AttributeValueMemberS{Value: code.ID},
					},
					UpdateExpression:    aws.String("SET #status = :consumed, consumed_at = :now REMOVE unused_seq"),
					ConditionExpression: aws.String("#status = :unused"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":consumed": &types.AttributeValueMemberS{Value: string(models.CodeConsumed)},
						":unused":   &types.AttributeValueMemberS{Value: string(models.CodeUnused)},
						":now":      nowAV,
					},
				},
			},
			{
				// Operation 3: Keep the derived stock counter in step with the
				// code set, inside the same transaction.
				Update: &types.Update{
					TableName: aws.String(s.ItemsTableName),
					Key: map[string]types.AttributeValue{
						"name": &types.AttributeValueMemberS{Value: normalized},
					},
					UpdateExpression:    aws.String("SET stock = stock - :one"),
					ConditionExpression: aws.String("stock >= :one"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":one": &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			{
				// Operation 4: Append the purchase record.
				Put: &types.Put{
					TableName:           aws.String(s.PurchasesTableName),
					Item:                recordAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		return nil, mapCommitError(err)
	}

	return record, nil
}

// mapCommitError translates a cancelled commit transaction into the rejection
// taxonomy by the position of the failed conditional check.
func mapCommitError(err error) error {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
				continue
			}
			switch i {
			case commitOpDebit:
				return storage.ErrInsufficientFunds
			case commitOpConsumeCode, commitOpStock:
				return storage.ErrCodeUnavailable
			}
		}
	}
	return fmt.Errorf("failed to execute purchase transaction: %w", err)
}

// ListPurchases retrieves the most recent purchase records, newest first.
func (s *Store) ListPurchases(ctx context.Context, limit int32) ([]models.PurchaseRecord, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.PurchasesTableName),
		IndexName:              aws.String("gsi1pk-ts-index"),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: purchaseLogPK},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase log: %w", err)
	}

	var records []models.PurchaseRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal purchase records: %w", err)
	}

	return records, nil
}
