package category

import (
	"fmt"
	"log/slog"

	"cashbook/internal"
)

// Repository is the data access contract for custom categories.
type Repository interface {
	GetByUser(userID string) ([]Category, error)
	GetByUserAndType(userID, categoryType string) ([]Category, error)
	GetByID(userID, id string) (*Category, error)
	Create(cat *Category) error
	Update(cat *Category) error
	Delete(userID, id string) error
}

// TransactionCounter reports how many of a user's transactions reference a
// category id. Kept as a narrow interface so the category service does not
// depend on the transaction package.
type TransactionCounter interface {
	CountByCategory(userID, categoryID string) (int64, error)
}

type Service struct {
	repo         Repository
	transactions TransactionCounter
	logger       *slog.Logger
}

func NewService(repo Repository, transactions TransactionCounter, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		transactions: transactions,
		logger:       logger,
	}
}

// ListByType returns the caller's visible categories for one type: the
// system taxonomy followed by the user's custom rows.
func (s *Service) ListByType(userID, categoryType string) ([]Category, error) {
	if categoryType != TypeIncome && categoryType != TypeExpense {
		return nil, internal.NewValidationError("type must be either 'income' or 'expense'", internal.ErrCodeValidationFailed)
	}

	custom, err := s.repo.GetByUserAndType(userID, categoryType)
	if err != nil {
		s.logger.Error("failed to get custom categories", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to get categories", err)
	}

	merged := make([]Category, 0, len(custom)+8)
	merged = append(merged, SystemCategories(categoryType)...)
	merged = append(merged, custom...)
	return merged, nil
}

// ListAll returns the full visible union across both types.
func (s *Service) ListAll(userID string) ([]Category, error) {
	custom, err := s.repo.GetByUser(userID)
	if err != nil {
		s.logger.Error("failed to get custom categories", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to get categories", err)
	}

	merged := make([]Category, 0, len(custom)+len(IncomeCategories)+len(ExpenseCategories))
	merged = append(merged, IncomeCategories...)
	merged = append(merged, ExpenseCategories...)
	merged = append(merged, custom...)
	return merged, nil
}

func (s *Service) Create(userID string, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	cat := &Category{
		ID:     NewCustomID(),
		UserID: userID,
		Type:   dto.Type,
		Name:   dto.Name,
		Icon:   dto.Icon,
		Color:  dto.Color,
	}

	if err := s.repo.Create(cat); err != nil {
		s.logger.Error("failed to create category", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to create category", err)
	}

	s.logger.Info("custom category created", "category_id", cat.ID, "user_id", userID, "type", cat.Type)
	return cat, nil
}

func (s *Service) Update(userID, categoryID string, dto UpdateCategoryDTO) (*Category, error) {
	if !IsCustomID(categoryID) {
		return nil, internal.ErrSystemCategory
	}
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	cat, err := s.repo.GetByID(userID, categoryID)
	if err != nil {
		s.logger.Error("failed to load category", "error", err, "category_id", categoryID)
		return nil, internal.NewStorageError("failed to load category", err)
	}
	if cat == nil {
		return nil, internal.ErrCategoryNotFound
	}

	if dto.IsEmpty() {
		return cat, nil
	}

	if dto.Name != nil {
		cat.Name = *dto.Name
	}
	if dto.Icon != nil {
		cat.Icon = *dto.Icon
	}
	if dto.Color != nil {
		cat.Color = *dto.Color
	}

	if err := s.repo.Update(cat); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", categoryID)
		return nil, internal.NewStorageError("failed to update category", err)
	}

	return cat, nil
}

func (s *Service) Delete(userID, categoryID string) error {
	if !IsCustomID(categoryID) {
		return internal.ErrSystemCategory
	}

	cat, err := s.repo.GetByID(userID, categoryID)
	if err != nil {
		s.logger.Error("failed to load category", "error", err, "category_id", categoryID)
		return internal.NewStorageError("failed to load category", err)
	}
	if cat == nil {
		return internal.ErrCategoryNotFound
	}

	count, err := s.transactions.CountByCategory(userID, categoryID)
	if err != nil {
		s.logger.Error("failed to count category references", "error", err, "category_id", categoryID)
		return internal.NewStorageError("failed to check category references", err)
	}
	if count > 0 {
		return internal.NewConflictError(
			fmt.Sprintf("category is referenced by %d transaction(s) and cannot be deleted", count),
			internal.ErrCodeCategoryReferenced,
		)
	}

	if err := s.repo.Delete(userID, categoryID); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", categoryID)
		return internal.NewStorageError("failed to delete category", err)
	}

	s.logger.Info("custom category deleted", "category_id", categoryID, "user_id", userID)
	return nil
}

// VisibleCategories returns the caller's income and expense taxonomies,
// always read fresh so a just-created custom category is included.
func (s *Service) VisibleCategories(userID string) (income, expense []Category, err error) {
	income, err = s.ListByType(userID, TypeIncome)
	if err != nil {
		return nil, nil, err
	}
	expense, err = s.ListByType(userID, TypeExpense)
	if err != nil {
		return nil, nil, err
	}
	return income, expense, nil
}
