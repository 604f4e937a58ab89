package recognition

import (
	"fmt"
	"strings"

	"cashbook/internal/category"
)

// BuildPrompt assembles the extraction instruction for one recognition
// call. The caller's live categories are rendered as id:name pairs so the
// model can answer with an id it has actually seen; a colon separates the
// two because ids themselves contain hyphens.
func BuildPrompt(income, expense []category.Category) string {
	var b strings.Builder

	b.WriteString("You are a bookkeeping assistant. Analyze the bank statement or receipt in the image and extract every transaction row you can find.\n\n")

	b.WriteString("Respond with ONLY a JSON array, no explanation and no markdown fences. Each element must have exactly these fields:\n")
	b.WriteString(`[{"date":"YYYY-MM-DD","amount":123.45,"type":"income|expense","category":"<category id>","description":"<short description>","originalInfo":"<raw text of the row>"}]` + "\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- type is \"income\" for money received and \"expense\" for money spent.\n")
	b.WriteString("- amount is the absolute numeric value, no currency symbols.\n")
	b.WriteString("- category MUST be one of the ids listed below. Use only the part before the colon. Pick the closest match; use other-income or other-expense when unsure.\n")
	b.WriteString("- Statement rows are ordered newest first. If a row has no date, infer it from neighbouring rows: a row above a dated row happened on the same day or the following day.\n")
	b.WriteString("- originalInfo is the original text of the row as printed, for reference.\n")
	b.WriteString("- If the image contains no transactions, respond with [].\n\n")

	b.WriteString("Income categories (id:name):\n")
	writeCategoryLines(&b, income)
	b.WriteString("\nExpense categories (id:name):\n")
	writeCategoryLines(&b, expense)

	return b.String()
}

func writeCategoryLines(b *strings.Builder, categories []category.Category) {
	for _, c := range categories {
		fmt.Fprintf(b, "- %s:%s\n", c.ID, c.Name)
	}
}
