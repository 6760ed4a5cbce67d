package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zedx/codeshop/pkg/api"
	"github.com/zedx/codeshop/pkg/mapping"
	"github.com/zedx/codeshop/pkg/models"
)

// AccountService is the account surface consumed by this handler.
type AccountService interface {
	Balance(ctx context.Context, buyerID string) (*models.Account, error)
	Credit(ctx context.Context, buyerID string, amount int64) (*models.Account, error)
}

// AccountsHandler holds the dependencies for account-related handlers.
type AccountsHandler struct {
	Shop AccountService
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(shopService AccountService) *AccountsHandler {
	return &AccountsHandler{Shop: shopService}
}

// GetAccount handles the logic for retrieving a buyer's balance.
// Unknown buyers read as zero-balance accounts.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request, userID string) {
	account, err := h.Shop.Balance(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve account: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiAccount(account)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// CreditAccount handles the logic for an administrative balance top-up.
func (h *AccountsHandler) CreditAccount(w http.ResponseWriter, r *http.Request, userID string) {
	var req api.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	account, err := h.Shop.Credit(r.Context(), userID, req.Amount)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to credit account: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiAccount(account)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
