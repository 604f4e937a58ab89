package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CreateTransactionDTO is the payload for recording a transaction. Amount
// unmarshals from either a JSON number or a numeric string.
type CreateTransactionDTO struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Note        *string         `json:"note,omitempty"`
	Date        string          `json:"date"`
}

func (dto CreateTransactionDTO) Validate() error {
	if dto.Type != TypeIncome && dto.Type != TypeExpense {
		return errors.New("type must be either 'income' or 'expense'")
	}
	if !dto.Amount.IsPositive() {
		return errors.New("amount must be greater than 0")
	}
	if dto.Category == "" {
		return errors.New("category is required")
	}
	if dto.Date == "" {
		return errors.New("date is required")
	}
	if _, err := time.Parse(dateLayout, dto.Date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	return nil
}

// UpdateTransactionDTO carries a partial update; nil fields stay untouched.
type UpdateTransactionDTO struct {
	Type        *string          `json:"type,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Note        *string          `json:"note,omitempty"`
	Date        *string          `json:"date,omitempty"`
}

func (dto UpdateTransactionDTO) Validate() error {
	if dto.Type != nil && *dto.Type != TypeIncome && *dto.Type != TypeExpense {
		return errors.New("type must be either 'income' or 'expense'")
	}
	if dto.Amount != nil && !dto.Amount.IsPositive() {
		return errors.New("amount must be greater than 0")
	}
	if dto.Category != nil && *dto.Category == "" {
		return errors.New("category cannot be empty")
	}
	if dto.Date != nil {
		if _, err := time.Parse(dateLayout, *dto.Date); err != nil {
			return errors.New("date must be in YYYY-MM-DD format")
		}
	}
	return nil
}

func (dto UpdateTransactionDTO) IsEmpty() bool {
	return dto.Type == nil && dto.Amount == nil && dto.Category == nil &&
		dto.Description == nil && dto.Note == nil && dto.Date == nil
}

// BatchCreateDTO bulk-confirms recognized transactions.
type BatchCreateDTO struct {
	Transactions []CreateTransactionDTO `json:"transactions"`
}

type TransactionsResponse struct {
	Success      bool           `json:"success"`
	Transactions []*Transaction `json:"transactions"`
}

type TransactionResponse struct {
	Success     bool         `json:"success"`
	Transaction *Transaction `json:"transaction"`
}

type BatchCreateResponse struct {
	Success bool           `json:"success"`
	Saved   []*Transaction `json:"saved"`
}
