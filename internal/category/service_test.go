package category

import (
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cashbook/internal"
)

type mockCategoryRepository struct {
	rows map[string]*Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{rows: map[string]*Category{}}
}

func (m *mockCategoryRepository) GetByUser(userID string) ([]Category, error) {
	var out []Category
	for _, c := range m.rows {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) GetByUserAndType(userID, categoryType string) ([]Category, error) {
	var out []Category
	for _, c := range m.rows {
		if c.UserID == userID && c.Type == categoryType {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) GetByID(userID, id string) (*Category, error) {
	c, ok := m.rows[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (m *mockCategoryRepository) Create(cat *Category) error {
	m.rows[cat.ID] = cat
	return nil
}

func (m *mockCategoryRepository) Update(cat *Category) error {
	m.rows[cat.ID] = cat
	return nil
}

func (m *mockCategoryRepository) Delete(userID, id string) error {
	delete(m.rows, id)
	return nil
}

type mockTransactionCounter struct {
	counts map[string]int64
}

func (m *mockTransactionCounter) CountByCategory(userID, categoryID string) (int64, error) {
	return m.counts[categoryID], nil
}

var _ = Describe("CategoryService", func() {
	var (
		service *Service
		repo    *mockCategoryRepository
		counter *mockTransactionCounter
	)

	BeforeEach(func() {
		repo = newMockCategoryRepository()
		counter = &mockTransactionCounter{counts: map[string]int64{}}
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = NewService(repo, counter, slogger)
	})

	Describe("ListByType", func() {
		It("returns the system taxonomy when the user has no custom categories", func() {
			categories, err := service.ListByType("user-1", TypeExpense)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(len(ExpenseCategories)))
			Expect(categories[0].ID).To(Equal("food"))
		})

		It("appends custom categories after the system ones", func() {
			created, err := service.Create("user-1", CreateCategoryDTO{
				Type: TypeExpense, Name: "宠物", Icon: "🐱", Color: "#f97316",
			})
			Expect(err).NotTo(HaveOccurred())

			categories, err := service.ListByType("user-1", TypeExpense)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(len(ExpenseCategories) + 1))
			Expect(categories[len(categories)-1].ID).To(Equal(created.ID))
		})

		It("does not leak other users' categories", func() {
			_, err := service.Create("user-2", CreateCategoryDTO{
				Type: TypeExpense, Name: "宠物", Icon: "🐱", Color: "#f97316",
			})
			Expect(err).NotTo(HaveOccurred())

			categories, err := service.ListByType("user-1", TypeExpense)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(len(ExpenseCategories)))
		})

		It("rejects an unknown type", func() {
			_, err := service.ListByType("user-1", "savings")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("Create", func() {
		It("assigns a generated custom id", func() {
			created, err := service.Create("user-1", CreateCategoryDTO{
				Type: TypeIncome, Name: "副业", Icon: "💻", Color: "#0ea5e9",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(IsCustomID(created.ID)).To(BeTrue())
			Expect(created.UserID).To(Equal("user-1"))
		})

		It("rejects a missing name", func() {
			_, err := service.Create("user-1", CreateCategoryDTO{Type: TypeIncome})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("Update", func() {
		It("refuses to touch system categories", func() {
			name := "改名"
			_, err := service.Update("user-1", "food", UpdateCategoryDTO{Name: &name})
			Expect(err).To(Equal(internal.ErrSystemCategory))
		})

		It("applies a partial update to a custom category", func() {
			created, err := service.Create("user-1", CreateCategoryDTO{
				Type: TypeExpense, Name: "宠物", Icon: "🐱", Color: "#f97316",
			})
			Expect(err).NotTo(HaveOccurred())

			name := "猫咪"
			updated, err := service.Update("user-1", created.ID, UpdateCategoryDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("猫咪"))
			Expect(updated.Icon).To(Equal("🐱"))
		})

		It("reports not found for another user's category", func() {
			created, err := service.Create("user-2", CreateCategoryDTO{
				Type: TypeExpense, Name: "宠物", Icon: "🐱", Color: "#f97316",
			})
			Expect(err).NotTo(HaveOccurred())

			name := "猫咪"
			_, err = service.Update("user-1", created.ID, UpdateCategoryDTO{Name: &name})
			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})
	})

	Describe("Delete", func() {
		It("refuses to delete system categories", func() {
			Expect(service.Delete("user-1", "salary")).To(Equal(internal.ErrSystemCategory))
		})

		It("deletes an unreferenced custom category", func() {
			created, err := service.Create("user-1", CreateCategoryDTO{
				Type: TypeExpense, Name: "宠物", Icon: "🐱", Color: "#f97316",
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete("user-1", created.ID)).To(Succeed())

			got, err := repo.GetByID("user-1", created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("refuses to delete a referenced category and reports the count", func() {
			created, err := service.Create("user-1", CreateCategoryDTO{
				Type: TypeExpense, Name: "宠物", Icon: "🐱", Color: "#f97316",
			})
			Expect(err).NotTo(HaveOccurred())
			counter.counts[created.ID] = 3

			err = service.Delete("user-1", created.ID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
			Expect(appErr.Message).To(ContainSubstring("3 transaction(s)"))
		})
	})

	Describe("VisibleCategories", func() {
		It("returns both taxonomies including fresh custom rows", func() {
			income, expense, err := service.VisibleCategories("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(income).To(HaveLen(len(IncomeCategories)))
			Expect(expense).To(HaveLen(len(ExpenseCategories)))

			_, err = service.Create("user-1", CreateCategoryDTO{
				Type: TypeIncome, Name: "副业", Icon: "💻", Color: "#0ea5e9",
			})
			Expect(err).NotTo(HaveOccurred())

			income, _, err = service.VisibleCategories("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(income).To(HaveLen(len(IncomeCategories) + 1))
		})
	})
})
