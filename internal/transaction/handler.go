package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"cashbook/internal/auth"
	"cashbook/internal/transport"
	"cashbook/pkg/logger"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(userID string, dto CreateTransactionDTO) (*Transaction, error)
	CreateBatch(userID string, dtos []CreateTransactionDTO) ([]*Transaction, error)
	List(userID string) ([]*Transaction, error)
	Update(userID, transactionID string, dto UpdateTransactionDTO) (*Transaction, error)
	Delete(userID, transactionID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	transactions, err := h.Service.List(user.ID)
	if err != nil {
		h.Logger.Error("ListTransactions: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TransactionsResponse{Success: true, Transactions: transactions})
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var dto CreateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.Service.Create(user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateTransaction: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, TransactionResponse{Success: true, Transaction: tx})
}

// CreateBatch persists a confirmed recognition result. Earlier saves
// survive a mid-batch failure, matching the no-rollback batch contract.
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var dto BatchCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBatch: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.Service.CreateBatch(user.ID, dto.Transactions)
	if err != nil {
		h.Logger.Error("CreateBatch: service error", "error", err, "user_id", user.ID, "saved", len(saved))
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, BatchCreateResponse{Success: true, Saved: saved})
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	transactionID := chi.URLParam(r, "id")

	var dto UpdateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.Service.Update(user.ID, transactionID, dto)
	if err != nil {
		h.Logger.Error("UpdateTransaction: service error", "error", err, "transaction_id", transactionID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TransactionResponse{Success: true, Transaction: tx})
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	transactionID := chi.URLParam(r, "id")

	if err := h.Service.Delete(user.ID, transactionID); err != nil {
		h.Logger.Error("DeleteTransaction: service error", "error", err, "transaction_id", transactionID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
