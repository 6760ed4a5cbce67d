package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
	"github.com/zedx/codeshop/pkg/storage/mocks"
)

func TestUpsertItemValidation(t *testing.T) {
	ctx := context.Background()
	service := NewCatalogService(new(mocks.Storage), nil, nil)

	t.Run("Empty name", func(t *testing.T) {
		_, err := service.UpsertItem(ctx, "   ", storage.ItemUpdate{})
		assert.Error(t, err)
	})

	t.Run("Negative price", func(t *testing.T) {
		price := int64(-1)
		_, err := service.UpsertItem(ctx, "mail", storage.ItemUpdate{Price: &price})
		assert.Error(t, err)
	})
}

func TestUpsertItem(t *testing.T) {
	ctx := context.Background()
	price := int64(5)

	store := new(mocks.Storage)
	store.On("UpsertItem", ctx, "Mail", storage.ItemUpdate{Price: &price}).
		Return(&models.CatalogItem{Name: "mail", DisplayName: "Mail", Price: 5}, nil)

	service := NewCatalogService(store, nil, nil)
	item, err := service.UpsertItem(ctx, "Mail", storage.ItemUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Price)
	store.AssertExpectations(t)
}

func TestCreditValidation(t *testing.T) {
	ctx := context.Background()
	service := NewCatalogService(new(mocks.Storage), nil, nil)

	for _, amount := range []int64{0, -10} {
		_, err := service.Credit(ctx, "alice", amount)
		assert.Error(t, err, "amount %d", amount)
	}
}

func TestCredit(t *testing.T) {
	ctx := context.Background()

	store := new(mocks.Storage)
	store.On("CreditAccount", ctx, "alice", int64(30)).
		Return(&models.Account{ID: "alice", Balance: 42}, nil)

	service := NewCatalogService(store, nil, nil)
	account, err := service.Credit(ctx, "alice", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(42), account.Balance)
	store.AssertExpectations(t)
}

func TestDeleteItemPropagatesNotFound(t *testing.T) {
	ctx := context.Background()

	store := new(mocks.Storage)
	store.On("DeleteItem", ctx, "ghost").Return(storage.ErrItemNotFound)

	service := NewCatalogService(store, nil, nil)
	assert.ErrorIs(t, service.DeleteItem(ctx, "ghost"), storage.ErrItemNotFound)
}

func TestInsertCodeRefreshesStock(t *testing.T) {
	ctx := context.Background()

	store := new(mocks.Storage)
	store.On("InsertCode", ctx, "mail", "user:pass").
		Return(&models.Code{ID: "code-1", ItemName: "mail", Payload: "user:pass"}, nil)
	store.On("GetItem", ctx, "mail").
		Return(&models.CatalogItem{Name: "mail", Price: 5, Stock: 3}, nil)

	service := NewCatalogService(store, nil, nil)
	code, err := service.InsertCode(ctx, "mail", "user:pass")
	require.NoError(t, err)
	assert.Equal(t, "code-1", code.ID)
	store.AssertExpectations(t)
}
