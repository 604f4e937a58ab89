package stats

import (
	"log/slog"
	"net/http"

	"cashbook/internal/auth"
	"cashbook/internal/category"
	"cashbook/internal/transaction"
	"cashbook/internal/transport"
	"cashbook/pkg/logger"

	"github.com/shopspring/decimal"
)

// TransactionLister supplies the caller's transactions for aggregation.
type TransactionLister interface {
	List(userID string) ([]*transaction.Transaction, error)
}

// CategoryLister supplies the caller's visible categories for name and
// icon resolution.
type CategoryLister interface {
	ListAll(userID string) ([]category.Category, error)
}

type Handler struct {
	*transport.BaseHandler
	Transactions TransactionLister
	Categories   CategoryLister
}

func NewHandler(transactions TransactionLister, categories CategoryLister) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(lg),
		Transactions: transactions,
		Categories:   categories,
	}
}

type StatisticsResponse struct {
	Success           bool            `json:"success"`
	Income            decimal.Decimal `json:"income"`
	Expense           decimal.Decimal `json:"expense"`
	Balance           decimal.Decimal `json:"balance"`
	Daily             []DateTotals    `json:"daily"`
	Monthly           []MonthPoint    `json:"monthly"`
	Yearly            []YearPoint     `json:"yearly"`
	IncomeCategories  []CategoryStat  `json:"incomeCategories"`
	ExpenseCategories []CategoryStat  `json:"expenseCategories"`
}

// GetStatistics aggregates the caller's transactions into overview totals
// and chart series. The optional year query parameter scopes everything
// except the yearly series, which always spans all recorded years.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	all, err := h.Transactions.List(user.ID)
	if err != nil {
		h.Logger.Error("GetStatistics: failed to list transactions", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	categories, err := h.Categories.ListAll(user.ID)
	if err != nil {
		h.Logger.Error("GetStatistics: failed to list categories", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	scoped := all
	if year := r.URL.Query().Get("year"); year != "" {
		scoped = FilterByYear(all, year)
	}

	income := Total(scoped, transaction.TypeIncome)
	expense := Total(scoped, transaction.TypeExpense)

	h.WriteJSON(w, http.StatusOK, StatisticsResponse{
		Success:           true,
		Income:            income.Round(2),
		Expense:           expense.Round(2),
		Balance:           income.Sub(expense).Round(2),
		Daily:             GroupByDate(scoped),
		Monthly:           MonthlyStats(scoped),
		Yearly:            YearlyStats(all),
		IncomeCategories:  CategoryStats(scoped, transaction.TypeIncome, categories),
		ExpenseCategories: CategoryStats(scoped, transaction.TypeExpense, categories),
	})
}
