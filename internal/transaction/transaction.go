package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is one financial record owned by exactly one user. The
// category field is a soft reference: it must resolve to a category visible
// to the owner, but no foreign key enforces it.
type Transaction struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	UserID      string          `json:"-" gorm:"column:user_id;not null;index"`
	Type        string          `json:"type" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	Category    string          `json:"category" gorm:"not null"`
	Description string          `json:"description"`
	Note        *string         `json:"note,omitempty"`
	Date        string          `json:"date" gorm:"type:varchar(10);not null;index"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"column:created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}
