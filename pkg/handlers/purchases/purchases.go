package purchases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zedx/codeshop/pkg/api"
	"github.com/zedx/codeshop/pkg/mapping"
	"github.com/zedx/codeshop/pkg/models"
	"github.com/zedx/codeshop/pkg/shop"
	"github.com/zedx/codeshop/pkg/storage"
)

// defaultLogLimit caps the purchase-log listing when no limit is given.
const defaultLogLimit = 100

// Purchaser executes purchase attempts.
type Purchaser interface {
	Purchase(ctx context.Context, buyerID, itemName string) (*shop.PurchaseOutcome, error)
}

// LogReader lists committed purchases, newest first.
type LogReader interface {
	Purchases(ctx context.Context, limit int32) ([]models.PurchaseRecord, error)
}

// PurchasesHandler holds the dependencies for purchase-related handlers.
type PurchasesHandler struct {
	Shop Purchaser
	Log  LogReader
}

// NewPurchasesHandler creates a new PurchasesHandler.
func NewPurchasesHandler(shopService Purchaser, log LogReader) *PurchasesHandler {
	return &PurchasesHandler{Shop: shopService, Log: log}
}

// CreatePurchase handles the logic for executing a purchase.
func (h *PurchasesHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req api.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.BuyerID == "" || req.ItemName == "" {
		http.Error(w, "buyer_id and item_name are required", http.StatusBadRequest)
		return
	}

	outcome, err := h.Shop.Purchase(r.Context(), req.BuyerID, req.ItemName)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrItemNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, storage.ErrInsufficientFunds):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, storage.ErrOutOfStock):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Failed to execute purchase: %v", err), http.StatusInternalServerError)
		}
		return
	}

	result := api.PurchaseResult{
		Payload:          outcome.Payload,
		RemainingBalance: outcome.RemainingBalance,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListPurchases handles the logic for reading the purchase log.
func (h *PurchasesHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	limit := int32(defaultLogLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	records, err := h.Log.Purchases(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve purchases: %v", err), http.StatusInternalServerError)
		return
	}

	apiRecords := make([]*api.PurchaseRecord, len(records))
	for i, record := range records {
		apiRecords[i] = mapping.ToApiPurchaseRecord(&record)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiRecords); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
