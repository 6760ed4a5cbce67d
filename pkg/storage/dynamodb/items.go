package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
)

// defaultItemPrice is used when an item is created implicitly by a code
// insertion, matching the catalog's historical default.
const defaultItemPrice = 1

// transactWriteBatchLimit is the DynamoDB cap on items per TransactWriteItems call.
const transactWriteBatchLimit = 100

// GetItem retrieves a catalog item by name. Lookup is case-insensitive.
func (s *Store) GetItem(ctx context.Context, name string) (*models.CatalogItem, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"name": normalizeName(name)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item name: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.ItemsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrItemNotFound
	}

	var item models.CatalogItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return &item, nil
}

// ListItems retrieves all catalog items, ordered by name.
func (s *Store) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.ItemsTableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan items table: %w", err)
	}

	var items []models.CatalogItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// UpsertItem creates or updates a catalog item. Nil fields of the update are
// left unchanged on existing items and defaulted on create. A stock value set
// here is advisory; any code mutation recomputes the counter.
func (s *Store) UpsertItem(ctx context.Context, name string, update storage.ItemUpdate) (*models.CatalogItem, error) {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	sets := []string{
		"display_name = :display_name",
		"created_at = if_not_exists(created_at, :now)",
	}
	values := map[string]types.AttributeValue{
		":display_name": &types.AttributeValueMemberS{Value: strings.TrimSpace(name)},
		":now":          nowAV,
	}

	if update.Price != nil {
		sets = append(sets, "price = :price")
		values[":price"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", *update.Price)}
	} else {
		sets = append(sets, "price = if_not_exists(price, :default_price)")
		values[":default_price"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", defaultItemPrice)}
	}

	if update.Stock != nil {
		sets = append(sets, "stock = :stock")
		values[":stock"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", *update.Stock)}
	} else {
		sets = append(sets, "stock = if_not_exists(stock, :zero)")
		values[":zero"] = &types.AttributeValueMemberN{Value: "0"}
	}

	result, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.ItemsTableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: normalizeName(name)},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert item: %w", err)
	}

	var item models.CatalogItem
	if err := attributevalue.UnmarshalMap(result.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upserted item: %w", err)
	}

	return &item, nil
}

// DeleteItem removes a catalog item together with all of its codes. The item
// row is deleted in the first transactional batch, so no new purchases can
// allocate against the remaining codes while large inventories are drained.
func (s *Store) DeleteItem(ctx context.Context, name string) error {
	normalized := normalizeName(name)

	codeIDs, err := s.listCodeIDs(ctx, normalized)
	if err != nil {
		return fmt.Errorf("failed to list codes for item deletion: %w", err)
	}

	itemDelete := types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(s.ItemsTableName),
			Key: map[string]types.AttributeValue{
				"name": &types.AttributeValueMemberS{Value: normalized},
			},
			ConditionExpression: aws.String("attribute_exists(#n)"),
			ExpressionAttributeNames: map[string]string{
				"#n": "name",
			},
		},
	}

	batch := []types.TransactWriteItem{itemDelete}
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: batch,
		})
		batch = batch[:0]
		return err
	}

	for _, id := range codeIDs {
		if len(batch) == transactWriteBatchLimit {
			if err := flush(); err != nil {
				return mapDeleteItemError(err)
			}
		}
		batch = append(batch, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(s.CodesTableName),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: id},
				},
			},
		})
	}

	if err := flush(); err != nil {
		return mapDeleteItemError(err)
	}

	return nil
}

// mapDeleteItemError converts the conditional failure on the item row into
// ErrItemNotFound.
func mapDeleteItemError(err error) error {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return storage.ErrItemNotFound
			}
		}
	}
	return fmt.Errorf("failed to delete item: %w", err)
}

// RecountStock recomputes an item's stock counter from its unused codes and
// persists the result.
func (s *Store) RecountStock(ctx context.Context, name string) (int64, error) {
	normalized := normalizeName(name)

	count, err := s.countUnusedCodes(ctx, normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to count unused codes: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.ItemsTableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: normalized},
		},
		UpdateExpression:    aws.String("SET stock = :stock"),
		ConditionExpression: aws.String("attribute_exists(#n)"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stock": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", count)},
		},
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return 0, storage.ErrItemNotFound
		}
		return 0, fmt.Errorf("failed to persist recounted stock: %w", err)
	}

	return count, nil
}

// countUnusedCodes counts the codes for an item present under the sparse
// unused-codes index, following pagination.
func (s *Store) countUnusedCodes(ctx context.Context, normalized string) (int64, error) {
	var total int64
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.CodesTableName),
			IndexName:              aws.String(unusedCodesIndex),
			KeyConditionExpression: aws.String("item_name = :item_name"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":item_name": &types.AttributeValueMemberS{Value: normalized},
			},
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, err
		}

		total += int64(result.Count)
		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return total, nil
}

// listCodeIDs returns the IDs of every code belonging to an item.
func (s *Store) listCodeIDs(ctx context.Context, normalized string) ([]string, error) {
	var ids []string
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.CodesTableName),
			IndexName:              aws.String(allCodesIndex),
			KeyConditionExpression: aws.String("item_name = :item_name"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":item_name": &types.AttributeValueMemberS{Value: normalized},
			},
			ProjectionExpression: aws.String("id"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, err
		}

		var codes []models.Code
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &codes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal code keys: %w", err)
		}
		for _, c := range codes {
			ids = append(ids, c.ID)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return ids, nil
}
