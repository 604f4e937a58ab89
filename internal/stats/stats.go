// Package stats holds the pure aggregation functions behind the statistics
// views. Everything here is synchronous and side-effect free; empty input
// yields zero totals, never an error.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cashbook/internal/category"
	"cashbook/internal/transaction"

	"github.com/shopspring/decimal"
)

// Total sums the amounts of all transactions of the given type.
func Total(transactions []*transaction.Transaction, txType string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type == txType {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Balance is income minus expense.
func Balance(transactions []*transaction.Transaction) decimal.Decimal {
	return Total(transactions, transaction.TypeIncome).
		Sub(Total(transactions, transaction.TypeExpense))
}

// GroupByCategory sums amounts per repaired category id for one type.
func GroupByCategory(transactions []*transaction.Transaction, txType string) map[string]decimal.Decimal {
	grouped := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != txType {
			continue
		}
		id := category.CleanID(t.Category)
		grouped[id] = grouped[id].Add(t.Amount)
	}
	return grouped
}

type DateTotals struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// GroupByDate rolls transactions up per calendar day, ascending by date.
func GroupByDate(transactions []*transaction.Transaction) []DateTotals {
	grouped := make(map[string]*DateTotals)
	for _, t := range transactions {
		entry, ok := grouped[t.Date]
		if !ok {
			entry = &DateTotals{Date: t.Date}
			grouped[t.Date] = entry
		}
		if t.IsIncome() {
			entry.Income = entry.Income.Add(t.Amount)
		} else {
			entry.Expense = entry.Expense.Add(t.Amount)
		}
	}

	result := make([]DateTotals, 0, len(grouped))
	for _, entry := range grouped {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}

type DailyGroup struct {
	Date         string                     `json:"date"`
	DateDisplay  string                     `json:"dateDisplay"`
	Transactions []*transaction.Transaction `json:"transactions"`
	Income       decimal.Decimal            `json:"income"`
	Expense      decimal.Decimal            `json:"expense"`
	Balance      decimal.Decimal            `json:"balance"`
	Count        int                        `json:"count"`
}

type MonthlyGroup struct {
	MonthKey     string                     `json:"monthKey"`
	MonthName    string                     `json:"monthName"`
	Transactions []*transaction.Transaction `json:"transactions"`
	Income       decimal.Decimal            `json:"income"`
	Expense      decimal.Decimal            `json:"expense"`
	Balance      decimal.Decimal            `json:"balance"`
	Count        int                        `json:"count"`
	DailyGroups  []DailyGroup               `json:"dailyGroups"`
}

// GroupByMonth partitions transactions into month buckets, most recent
// month first, with a nested per-day breakdown (days descending).
func GroupByMonth(transactions []*transaction.Transaction) []MonthlyGroup {
	grouped := make(map[string]*MonthlyGroup)
	for _, t := range transactions {
		key := monthKey(t.Date)
		bucket, ok := grouped[key]
		if !ok {
			bucket = &MonthlyGroup{
				MonthKey:  key,
				MonthName: monthDisplayName(t.Date),
			}
			grouped[key] = bucket
		}

		bucket.Transactions = append(bucket.Transactions, t)
		bucket.Count++
		if t.IsIncome() {
			bucket.Income = bucket.Income.Add(t.Amount)
		} else {
			bucket.Expense = bucket.Expense.Add(t.Amount)
		}
		bucket.Balance = bucket.Income.Sub(bucket.Expense)
	}

	months := make([]MonthlyGroup, 0, len(grouped))
	for _, bucket := range grouped {
		bucket.DailyGroups = groupByDay(bucket.Transactions)
		months = append(months, *bucket)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].MonthKey > months[j].MonthKey })
	return months
}

func groupByDay(transactions []*transaction.Transaction) []DailyGroup {
	grouped := make(map[string]*DailyGroup)
	for _, t := range transactions {
		day, ok := grouped[t.Date]
		if !ok {
			day = &DailyGroup{
				Date:        t.Date,
				DateDisplay: dayDisplayName(t.Date),
			}
			grouped[t.Date] = day
		}

		day.Transactions = append(day.Transactions, t)
		day.Count++
		if t.IsIncome() {
			day.Income = day.Income.Add(t.Amount)
		} else {
			day.Expense = day.Expense.Add(t.Amount)
		}
		day.Balance = day.Income.Sub(day.Expense)
	}

	days := make([]DailyGroup, 0, len(grouped))
	for _, day := range grouped {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

type MonthPoint struct {
	Month     string          `json:"month"`
	FullMonth string          `json:"fullMonth"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Balance   decimal.Decimal `json:"balance"`
}

// MonthlyStats is the ascending month series used by bar charts.
func MonthlyStats(transactions []*transaction.Transaction) []MonthPoint {
	type totals struct{ income, expense decimal.Decimal }
	grouped := make(map[string]*totals)
	for _, t := range transactions {
		key := monthKey(t.Date)
		entry, ok := grouped[key]
		if !ok {
			entry = &totals{}
			grouped[key] = entry
		}
		if t.IsIncome() {
			entry.income = entry.income.Add(t.Amount)
		} else {
			entry.expense = entry.expense.Add(t.Amount)
		}
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]MonthPoint, 0, len(keys))
	for _, key := range keys {
		entry := grouped[key]
		month := key
		if len(key) > 5 {
			month = key[5:]
		}
		points = append(points, MonthPoint{
			Month:     month,
			FullMonth: key,
			Income:    entry.income.Round(2),
			Expense:   entry.expense.Round(2),
			Balance:   entry.income.Sub(entry.expense).Round(2),
		})
	}
	return points
}

type YearPoint struct {
	Year    string          `json:"year"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// YearlyStats is the descending year series (most recent year first).
func YearlyStats(transactions []*transaction.Transaction) []YearPoint {
	type totals struct{ income, expense decimal.Decimal }
	grouped := make(map[string]*totals)
	for _, t := range transactions {
		key := yearKey(t.Date)
		entry, ok := grouped[key]
		if !ok {
			entry = &totals{}
			grouped[key] = entry
		}
		if t.IsIncome() {
			entry.income = entry.income.Add(t.Amount)
		} else {
			entry.expense = entry.expense.Add(t.Amount)
		}
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	points := make([]YearPoint, 0, len(keys))
	for _, key := range keys {
		entry := grouped[key]
		points = append(points, YearPoint{
			Year:    key,
			Income:  entry.income.Round(2),
			Expense: entry.expense.Round(2),
			Balance: entry.income.Sub(entry.expense).Round(2),
		})
	}
	return points
}

type CategoryStat struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
	Icon       string          `json:"icon"`
	Color      string          `json:"color"`
}

// CategoryStats resolves per-category totals into chart-ready entries with
// display names, icons and share of the type's total, descending by amount.
func CategoryStats(transactions []*transaction.Transaction, txType string, categories []category.Category) []CategoryStat {
	grouped := GroupByCategory(transactions, txType)
	total := Total(transactions, txType)

	result := make([]CategoryStat, 0, len(grouped))
	for id, amount := range grouped {
		stat := CategoryStat{
			Name:   "未知分类",
			Amount: amount.Round(2),
			Icon:   "💰",
			Color:  "#6b7280",
		}
		if cat, ok := category.Resolve(id, categories); ok {
			stat.Name = cat.Name
			stat.Icon = cat.Icon
			stat.Color = cat.Color
		}
		if total.IsPositive() {
			share, _ := amount.Div(total).Mul(decimal.NewFromInt(100)).Float64()
			stat.Percentage = math.Round(share*10) / 10
		}
		result = append(result, stat)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount.Equal(result[j].Amount) {
			return result[i].Name < result[j].Name
		}
		return result[i].Amount.GreaterThan(result[j].Amount)
	})
	return result
}

type NameValue struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// AggregateSmallCategories keeps chart legends readable: entries at or
// below thresholdPercent of the current total collapse into one synthesized
// "other" entry. The threshold is computed from the total of the entries
// passed in, so it tracks active filters.
func AggregateSmallCategories(entries []NameValue, thresholdPercent float64) []NameValue {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Value)
	}
	if !total.IsPositive() {
		return entries
	}

	limit := total.Mul(decimal.NewFromFloat(thresholdPercent)).Div(decimal.NewFromInt(100))

	kept := make([]NameValue, 0, len(entries))
	small := decimal.Zero
	smallCount := 0
	for _, e := range entries {
		if e.Value.LessThanOrEqual(limit) {
			small = small.Add(e.Value)
			smallCount++
			continue
		}
		kept = append(kept, e)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Value.GreaterThan(kept[j].Value) })

	if smallCount > 0 {
		kept = append(kept, NameValue{
			Name:  fmt.Sprintf("other (%d items)", smallCount),
			Value: small,
		})
	}
	return kept
}

// FilterByYear keeps transactions whose date falls in the given year.
func FilterByYear(transactions []*transaction.Transaction, year string) []*transaction.Transaction {
	filtered := make([]*transaction.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if yearKey(t.Date) == year {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

const dateLayout = "2006-01-02"

func monthKey(date string) string {
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

func yearKey(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

func monthDisplayName(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return monthKey(date)
	}
	return fmt.Sprintf("%d年%d月", t.Year(), int(t.Month()))
}

func dayDisplayName(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d月%d日", int(t.Month()), t.Day())
}
