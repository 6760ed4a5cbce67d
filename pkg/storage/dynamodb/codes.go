package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
)

// ReserveUnusedCode selects the oldest unused code for an item by querying the
// sparse unused-codes index ascending with a limit of 1. The read does not
// mutate the code; CommitPurchase's condition on the code still being unused
// is what makes the reservation stick. A candidate lost to a concurrent buyer
// surfaces there as ErrCodeUnavailable and the caller re-allocates.
func (s *Store) ReserveUnusedCode(ctx context.Context, itemName string) (*models.Code, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.CodesTableName),
		IndexName:              aws.String(unusedCodesIndex),
		KeyConditionExpression: aws.String("item_name = :item_name"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":item_name": &types.AttributeValueMemberS{Value: normalizeName(itemName)},
		},
		ScanIndexForward: aws.Bool(true),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query unused codes: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, storage.ErrOutOfStock
	}

	var code models.Code
	if err := attributevalue.UnmarshalMap(result.Items[0], &code); err != nil {
		return nil, fmt.Errorf("failed to unmarshal code: %w", err)
	}

	return &code, nil
}

// InsertCode adds a new unused code for an item and bumps the item's stock
// counter in the same transaction, creating the item with default attributes
// if it does not exist yet.
func (s *Store) InsertCode(ctx context.Context, itemName, payload string) (*models.Code, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("code payload must not be empty")
	}

	normalized := normalizeName(itemName)
	now := time.Now()
	code := &models.Code{
		ID:        uuid.New().String(),
		ItemName:  normalized,
		Payload:   payload,
		Status:    models.CodeUnused,
		Seq:       now.UnixNano(),
		CreatedAt: now,
	}

	codeAV, err := attributevalue.MarshalMap(code)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal code: %w", err)
	}
	// unused_seq mirrors seq while the code is unused; its presence puts the
	// code under the sparse allocation index.
	codeAV["unused_seq"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", code.Seq)}

	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Create the code record.
				Put: &types.Put{
					TableName:           aws.String(s.CodesTableName),
					Item:                codeAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 2: Bump the item's stock counter, creating the
				// item implicitly on first insertion.
				Update: &types.Update{
					TableName: aws.String(s.ItemsTableName),
					Key: map[string]types.AttributeValue{
						"name": &types.AttributeValueMemberS{Value: normalized},
					},
					UpdateExpression: aws.String("SET stock = if_not_exists(stock, :zero) + :inc, price = if_not_exists(price, :default_price), display_name = if_not_exists(display_name, :display_name), created_at = if_not_exists(created_at, :now)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":zero":          &types.AttributeValueMemberN{Value: "0"},
						":inc":           &types.AttributeValueMemberN{Value: "1"},
						":default_price": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", defaultItemPrice)},
						":display_name":  &types.AttributeValueMemberS{Value: strings.TrimSpace(itemName)},
						":now":           nowAV,
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to insert code: %w", err)
	}

	return code, nil
}

// SummarizeCodes reports per-item total and unused code counts.
func (s *Store) SummarizeCodes(ctx context.Context) ([]models.CodeSummary, error) {
	var codes []models.Code
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.CodesTableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan codes table: %w", err)
		}

		var page []models.Code
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal codes: %w", err)
		}
		codes = append(codes, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	byItem := make(map[string]*models.CodeSummary)
	for _, code := range codes {
		summary, ok := byItem[code.ItemName]
		if !ok {
			summary = &models.CodeSummary{ItemName: code.ItemName}
			byItem[code.ItemName] = summary
		}
		summary.Total++
		if code.Status == models.CodeUnused {
			summary.Unused++
		}
	}

	summaries := make([]models.CodeSummary, 0, len(byItem))
	for _, summary := range byItem {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ItemName < summaries[j].ItemName })

	return summaries, nil
}
