// Package recognition turns a photographed bank statement or receipt into
// transaction proposals via a vision-capable chat completion model. The
// pipeline is prompt construction, model call, lenient JSON extraction and
// normalization; proposals are only suggestions until the client confirms
// them through the transaction batch endpoint.
package recognition

import "github.com/shopspring/decimal"

// Proposal is one recognized transaction candidate. Amounts are always
// positive; direction is carried by Type. Category holds a repaired
// category id, which may still be unknown to the user's category set.
type Proposal struct {
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	OriginalInfo string          `json:"originalInfo"`
}
