package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zedx/codeshop/pkg/storage"
	"github.com/zedx/codeshop/pkg/storage/dynamodb/mocks"
)

func TestGetItem_DynamoDB(t *testing.T) {
	ctx := context.Background()

	t.Run("Success with case-insensitive key", func(t *testing.T) {
		client := new(mocks.DynamoDBAPI)
		client.On("GetItem", ctx, mock.MatchedBy(func(input *awsdynamodb.GetItemInput) bool {
			name, ok := input.Key["name"].(*types.AttributeValueMemberS)
			return ok && name.Value == "fb mail"
		})).Return(&awsdynamodb.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"name":         &types.AttributeValueMemberS{Value: "fb mail"},
				"display_name": &types.AttributeValueMemberS{Value: "FB MAIL"},
				"price":        &types.AttributeValueMemberN{Value: "5"},
				"stock":        &types.AttributeValueMemberN{Value: "3"},
			},
		}, nil)

		store := newTestStore(client)
		item, err := store.GetItem(ctx, "  FB MAIL  ")
		require.NoError(t, err)
		assert.Equal(t, "fb mail", item.Name)
		assert.Equal(t, "FB MAIL", item.DisplayName)
		assert.Equal(t, int64(5), item.Price)
		assert.Equal(t, int64(3), item.Stock)
		client.AssertExpectations(t)
	})

	t.Run("Missing item", func(t *testing.T) {
		client := new(mocks.DynamoDBAPI)
		client.On("GetItem", ctx, mock.AnythingOfType("*dynamodb.GetItemInput")).
			Return(&awsdynamodb.GetItemOutput{Item: nil}, nil)

		store := newTestStore(client)
		_, err := store.GetItem(ctx, "ghost")
		assert.ErrorIs(t, err, storage.ErrItemNotFound)
	})
}

func TestUpsertItem_DynamoDB(t *testing.T) {
	ctx := context.Background()
	price := int64(5)

	client := new(mocks.DynamoDBAPI)
	client.On("UpdateItem", ctx, mock.MatchedBy(func(input *awsdynamodb.UpdateItemInput) bool {
		return *input.TableName == "items" && input.ReturnValues == types.ReturnValueAllNew
	})).Return(&awsdynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{
			"name":         &types.AttributeValueMemberS{Value: "mail"},
			"display_name": &types.AttributeValueMemberS{Value: "Mail"},
			"price":        &types.AttributeValueMemberN{Value: "5"},
			"stock":        &types.AttributeValueMemberN{Value: "0"},
		},
	}, nil)

	store := newTestStore(client)
	item, err := store.UpsertItem(ctx, "Mail", storage.ItemUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "mail", item.Name)
	assert.Equal(t, int64(5), item.Price)
	client.AssertExpectations(t)
}

func TestDeleteItem_DynamoDB(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the item row and its codes", func(t *testing.T) {
		client := new(mocks.DynamoDBAPI)
		client.On("Query", ctx, queryOn("codes", allCodesIndex)).
			Return(&awsdynamodb.QueryOutput{
				Items: []map[string]types.AttributeValue{
					{"id": &types.AttributeValueMemberS{Value: "code-1"}},
					{"id": &types.AttributeValueMemberS{Value: "code-2"}},
				},
			}, nil)
		client.On("TransactWriteItems", ctx, transactWithOps(3)).
			Return(&awsdynamodb.TransactWriteItemsOutput{}, nil)

		store := newTestStore(client)
		require.NoError(t, store.DeleteItem(ctx, "Mail"))
		client.AssertExpectations(t)
	})

	t.Run("Missing item", func(t *testing.T) {
		client := new(mocks.DynamoDBAPI)
		client.On("Query", ctx, queryOn("codes", allCodesIndex)).
			Return(&awsdynamodb.QueryOutput{}, nil)
		client.On("TransactWriteItems", ctx, transactWithOps(1)).
			Return(nil, &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: aws.String("ConditionalCheckFailed")},
				},
			})

		store := newTestStore(client)
		assert.ErrorIs(t, store.DeleteItem(ctx, "ghost"), storage.ErrItemNotFound)
	})

	t.Run("Large inventories are deleted in batches", func(t *testing.T) {
		items := make([]map[string]types.AttributeValue, 150)
		for i := range items {
			items[i] = map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: fmt.Sprintf("code-%d", i)},
			}
		}

		client := new(mocks.DynamoDBAPI)
		client.On("Query", ctx, queryOn("codes", allCodesIndex)).
			Return(&awsdynamodb.QueryOutput{Items: items}, nil)
		// First batch carries the item delete plus 99 codes, the second the rest.
		client.On("TransactWriteItems", ctx, transactWithOps(transactWriteBatchLimit)).
			Return(&awsdynamodb.TransactWriteItemsOutput{}, nil).Once()
		client.On("TransactWriteItems", ctx, transactWithOps(51)).
			Return(&awsdynamodb.TransactWriteItemsOutput{}, nil).Once()

		store := newTestStore(client)
		require.NoError(t, store.DeleteItem(ctx, "mail"))
		client.AssertExpectations(t)
	})
}

func TestRecountStock_DynamoDB(t *testing.T) {
	ctx := context.Background()

	t.Run("Persists the recomputed counter", func(t *testing.T) {
		client := new(mocks.DynamoDBAPI)
		client.On("Query", ctx, queryOn("codes", unusedCodesIndex)).
			Return(&awsdynamodb.QueryOutput{Count: 4}, nil)
		client.On("UpdateItem", ctx, mock.MatchedBy(func(input *awsdynamodb.UpdateItemInput) bool {
			stock, ok := input.ExpressionAttributeValues[":stock"].(*types.AttributeValueMemberN)
			return ok && stock.Value == "4"
		})).Return(&awsdynamodb.UpdateItemOutput{}, nil)

		store := newTestStore(client)
		count, err := store.RecountStock(ctx, "mail")
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		client.AssertExpectations(t)
	})

	t.Run("Missing item", func(t *testing.T) {
		client := new(mocks.DynamoDBAPI)
		client.On("Query", ctx, queryOn("codes", unusedCodesIndex)).
			Return(&awsdynamodb.QueryOutput{Count: 0}, nil)
		client.On("UpdateItem", ctx, mock.AnythingOfType("*dynamodb.UpdateItemInput")).
			Return(nil, &types.ConditionalCheckFailedException{})

		store := newTestStore(client)
		_, err := store.RecountStock(ctx, "ghost")
		assert.ErrorIs(t, err, storage.ErrItemNotFound)
	})

	t.Run("Count fault", func(t *testing.T) {
		client := new(mocks.DynamoDBAPI)
		client.On("Query", ctx, queryOn("codes", unusedCodesIndex)).
			Return(nil, errors.New("throttled"))

		store := newTestStore(client)
		_, err := store.RecountStock(ctx, "mail")
		assert.Error(t, err)
	})
}
