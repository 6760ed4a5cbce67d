package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zedx/codeshop/pkg/api"
	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/storage"
)

type mockMaintainer struct {
	mock.Mock
}

func (m *mockMaintainer) Catalog(ctx context.Context) ([]models.CatalogItem, error) {
	ret := m.Called(ctx)
	var items []models.CatalogItem
	if ret.Get(0) != nil {
		items = ret.Get(0).([]models.CatalogItem)
	}
	return items, ret.Error(1)
}

func (m *mockMaintainer) UpsertItem(ctx context.Context, name string, update storage.ItemUpdate) (*models.CatalogItem, error) {
	ret := m.Called(ctx, name, update)
	var item *models.CatalogItem
	if ret.Get(0) != nil {
		item = ret.Get(0).(*models.CatalogItem)
	}
	return item, ret.Error(1)
}

func (m *mockMaintainer) DeleteItem(ctx context.Context, name string) error {
	ret := m.Called(ctx, name)
	return ret.Error(0)
}

func (m *mockMaintainer) InsertCode(ctx context.Context, itemName, payload string) (*models.Code, error) {
	ret := m.Called(ctx, itemName, payload)
	var code *models.Code
	if ret.Get(0) != nil {
		code = ret.Get(0).(*models.Code)
	}
	return code, ret.Error(1)
}

func (m *mockMaintainer) CodeSummaries(ctx context.Context) ([]models.CodeSummary, error) {
	ret := m.Called(ctx)
	var summaries []models.CodeSummary
	if ret.Get(0) != nil {
		summaries = ret.Get(0).([]models.CodeSummary)
	}
	return summaries, ret.Error(1)
}

func TestListCatalog(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		maintainer := new(mockMaintainer)
		maintainer.On("Catalog", mock.Anything).Return([]models.CatalogItem{
			{Name: "mail", DisplayName: "Mail", Price: 5, Stock: 3},
			{Name: "vpn", Price: 2, Stock: 0},
		}, nil)

		handler := NewCatalogHandler(maintainer)
		req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
		rec := httptest.NewRecorder()
		handler.ListCatalog(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var entries []api.CatalogEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "Mail", entries[0].Name)
		assert.Equal(t, int64(3), entries[0].Stock)
		assert.Equal(t, "vpn", entries[1].Name)
	})

	t.Run("Storage fault", func(t *testing.T) {
		maintainer := new(mockMaintainer)
		maintainer.On("Catalog", mock.Anything).Return(nil, errors.New("throttled"))

		handler := NewCatalogHandler(maintainer)
		rec := httptest.NewRecorder()
		handler.ListCatalog(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUpsertItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		price := int64(5)
		maintainer := new(mockMaintainer)
		maintainer.On("UpsertItem", mock.Anything, "mail", storage.ItemUpdate{Price: &price}).
			Return(&models.CatalogItem{Name: "mail", Price: 5}, nil)

		handler := NewCatalogHandler(maintainer)
		req := httptest.NewRequest(http.MethodPut, "/catalog/mail", strings.NewReader(`{"price": 5}`))
		rec := httptest.NewRecorder()
		handler.UpsertItem(rec, req, "mail")

		assert.Equal(t, http.StatusOK, rec.Code)
		maintainer.AssertExpectations(t)
	})

	t.Run("Invalid body", func(t *testing.T) {
		handler := NewCatalogHandler(new(mockMaintainer))
		req := httptest.NewRequest(http.MethodPut, "/catalog/mail", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.UpsertItem(rec, req, "mail")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteItem(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		maintainer := new(mockMaintainer)
		maintainer.On("DeleteItem", mock.Anything, "mail").Return(nil)

		handler := NewCatalogHandler(maintainer)
		rec := httptest.NewRecorder()
		handler.DeleteItem(rec, httptest.NewRequest(http.MethodDelete, "/catalog/mail", nil), "mail")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Missing item", func(t *testing.T) {
		maintainer := new(mockMaintainer)
		maintainer.On("DeleteItem", mock.Anything, "ghost").Return(storage.ErrItemNotFound)

		handler := NewCatalogHandler(maintainer)
		rec := httptest.NewRecorder()
		handler.DeleteItem(rec, httptest.NewRequest(http.MethodDelete, "/catalog/ghost", nil), "ghost")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInsertCode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		maintainer := new(mockMaintainer)
		maintainer.On("InsertCode", mock.Anything, "mail", "user:pass").
			Return(&models.Code{ID: "code-1", ItemName: "mail"}, nil)

		handler := NewCatalogHandler(maintainer)
		req := httptest.NewRequest(http.MethodPost, "/catalog/mail/codes", strings.NewReader(`{"payload": "user:pass"}`))
		rec := httptest.NewRecorder()
		handler.InsertCode(rec, req, "mail")
		assert.Equal(t, http.StatusCreated, rec.Code)
		maintainer.AssertExpectations(t)
	})

	t.Run("Missing payload", func(t *testing.T) {
		handler := NewCatalogHandler(new(mockMaintainer))
		req := httptest.NewRequest(http.MethodPost, "/catalog/mail/codes", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		handler.InsertCode(rec, req, "mail")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListCodeSummaries(t *testing.T) {
	maintainer := new(mockMaintainer)
	maintainer.On("CodeSummaries", mock.Anything).Return([]models.CodeSummary{
		{ItemName: "mail", Total: 5, Unused: 2},
	}, nil)

	handler := NewCatalogHandler(maintainer)
	rec := httptest.NewRecorder()
	handler.ListCodeSummaries(rec, httptest.NewRequest(http.MethodGet, "/codes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []api.CodeSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].Unused)
}
