package category

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// CustomIDPrefix marks user-created categories; everything else is a
// system category baked into the binary.
const CustomIDPrefix = "custom-"

type Category struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"-" gorm:"column:user_id;index"`
	Type      string    `json:"type,omitempty" gorm:"column:type"`
	Name      string    `json:"name" gorm:"not null"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// IncomeCategories and ExpenseCategories are the shared system taxonomy,
// visible to every user and immutable.
var IncomeCategories = []Category{
	{ID: "salary", Name: "工资", Icon: "💼", Color: "#10b981", Type: TypeIncome},
	{ID: "bonus", Name: "奖金", Icon: "🎁", Color: "#3b82f6", Type: TypeIncome},
	{ID: "investment", Name: "投资", Icon: "📈", Color: "#8b5cf6", Type: TypeIncome},
	{ID: "gift", Name: "礼物", Icon: "🎁", Color: "#ec4899", Type: TypeIncome},
	{ID: "other-income", Name: "其他", Icon: "💰", Color: "#6b7280", Type: TypeIncome},
}

var ExpenseCategories = []Category{
	{ID: "food", Name: "餐饮", Icon: "🍔", Color: "#f59e0b", Type: TypeExpense},
	{ID: "transport", Name: "交通", Icon: "🚗", Color: "#3b82f6", Type: TypeExpense},
	{ID: "shopping", Name: "购物", Icon: "🛍️", Color: "#ec4899", Type: TypeExpense},
	{ID: "entertainment", Name: "娱乐", Icon: "🎬", Color: "#8b5cf6", Type: TypeExpense},
	{ID: "bills", Name: "账单", Icon: "📄", Color: "#ef4444", Type: TypeExpense},
	{ID: "health", Name: "医疗", Icon: "🏥", Color: "#10b981", Type: TypeExpense},
	{ID: "education", Name: "教育", Icon: "📚", Color: "#6366f1", Type: TypeExpense},
	{ID: "other-expense", Name: "其他", Icon: "💸", Color: "#6b7280", Type: TypeExpense},
}

func SystemCategories(categoryType string) []Category {
	if categoryType == TypeIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}

var systemIDs = func() map[string]bool {
	ids := make(map[string]bool)
	for _, c := range IncomeCategories {
		ids[c.ID] = true
	}
	for _, c := range ExpenseCategories {
		ids[c.ID] = true
	}
	return ids
}()

func IsSystemID(id string) bool {
	return systemIDs[id]
}

func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomIDPrefix)
}

// NewCustomID generates an identifier for a user-created category.
func NewCustomID() string {
	return fmt.Sprintf("%s%s", CustomIDPrefix, uuid.NewString())
}

// customColonPattern matches "custom-<uuid>:<anything>", the most common way
// the recognition model pollutes an id with the category name.
var customColonPattern = regexp.MustCompile(`^(custom-[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}):(.+)$`)

// systemPollutionPattern matches "<letters-and-hyphens>:<rest>" or
// "<letters-and-hyphens>-<rest>"; the head is only stripped when it is a
// recognized system id.
var systemPollutionPattern = regexp.MustCompile(`^([a-z-]+)[-:](.+)$`)

// CleanID repairs a category identifier the model echoed back with the
// display name appended ("food:餐饮", "custom-<uuid>-名称"). Unknown shapes
// pass through unchanged; repairing a clean id is a no-op.
func CleanID(id string) string {
	if id == "" {
		return id
	}

	if strings.HasPrefix(id, CustomIDPrefix) {
		if m := customColonPattern.FindStringSubmatch(id); m != nil {
			return m[1]
		}

		// custom ids are exactly 6 hyphen-separated segments
		// (the prefix plus the five UUID groups); anything beyond
		// that is name pollution.
		parts := strings.Split(id, "-")
		if len(parts) > 6 {
			return strings.Join(parts[:6], "-")
		}
		return id
	}

	if m := systemPollutionPattern.FindStringSubmatch(id); m != nil {
		if IsSystemID(m[1]) {
			return m[1]
		}
	}

	return id
}
