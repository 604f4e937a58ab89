package recognition

import (
	"bytes"
	"encoding/json"

	"cashbook/internal"
	"cashbook/internal/category"
	"cashbook/internal/transaction"

	"github.com/shopspring/decimal"
)

// ParseProposals extracts transaction proposals from raw model output.
// Models wrap their answer in prose or code fences often enough that the
// parser first hunts for a balanced top-level JSON array, then falls back
// to parsing the whole content. Elements missing required fields are
// dropped silently; an empty array is a valid result.
func ParseProposals(content string) ([]Proposal, error) {
	raw := extractJSONArray(content)
	if raw == "" {
		raw = content
	}

	elements, err := decodeElements(raw)
	if err != nil {
		if raw != content {
			elements, err = decodeElements(content)
		}
		if err != nil {
			return nil, internal.NewParseError("recognition result is not a JSON array")
		}
	}

	proposals := make([]Proposal, 0, len(elements))
	for _, raw := range elements {
		var el map[string]json.RawMessage
		if err := json.Unmarshal(raw, &el); err != nil {
			continue
		}
		if p, ok := normalizeElement(el); ok {
			proposals = append(proposals, p)
		}
	}
	return proposals, nil
}

func decodeElements(raw string) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	var elements []json.RawMessage
	if err := dec.Decode(&elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// extractJSONArray returns the first balanced top-level [...] span, aware
// of strings and escapes so brackets inside description text do not trip
// the depth count. Empty string means no span was found.
func extractJSONArray(content string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range content {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '[':
			if start < 0 {
				start = i
			}
			depth++
		case ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return ""
}

// normalizeElement validates one decoded element and shapes it into a
// Proposal: required fields must be present with the right JSON type,
// amounts become absolute, the category id gets repaired, and the
// optional originalInfo defaults to empty.
func normalizeElement(el map[string]json.RawMessage) (Proposal, bool) {
	date, ok := stringField(el, "date")
	if !ok || date == "" {
		return Proposal{}, false
	}
	amount, ok := numberField(el, "amount")
	if !ok {
		return Proposal{}, false
	}
	txType, ok := stringField(el, "type")
	if !ok || (txType != transaction.TypeIncome && txType != transaction.TypeExpense) {
		return Proposal{}, false
	}
	cat, ok := stringField(el, "category")
	if !ok || cat == "" {
		return Proposal{}, false
	}
	description, ok := stringField(el, "description")
	if !ok {
		return Proposal{}, false
	}
	originalInfo, ok := stringField(el, "originalInfo")
	if !ok {
		originalInfo = ""
	}

	return Proposal{
		Date:         date,
		Amount:       amount.Abs(),
		Type:         txType,
		Category:     category.CleanID(cat),
		Description:  description,
		OriginalInfo: originalInfo,
	}, true
}

func stringField(el map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := el[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func numberField(el map[string]json.RawMessage, key string) (decimal.Decimal, bool) {
	raw, ok := el[key]
	if !ok {
		return decimal.Decimal{}, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
