package transaction

import (
	"fmt"
	"log/slog"
	"time"

	"cashbook/internal"

	"github.com/google/uuid"
)

// Repository is the data access contract for transactions. Every method is
// scoped to an owning user; there is no cross-user access.
type Repository interface {
	Create(tx *Transaction) error
	GetByID(userID, id string) (*Transaction, error)
	GetByUser(userID string) ([]*Transaction, error)
	Update(tx *Transaction) error
	Delete(userID, id string) error
	CountByCategory(userID, categoryID string) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(userID string, dto CreateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	tx := &Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        dto.Type,
		Amount:      dto.Amount,
		Category:    dto.Category,
		Description: dto.Description,
		Note:        dto.Note,
		Date:        dto.Date,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(tx); err != nil {
		s.logger.Error("failed to create transaction", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to create transaction", err)
	}

	s.logger.Info("transaction created",
		"transaction_id", tx.ID,
		"user_id", userID,
		"type", tx.Type,
		"amount", tx.Amount)

	return tx, nil
}

// CreateBatch persists recognized transactions in order. The first failure
// aborts the rest of the batch; items saved before it stay persisted, and
// the error reports which item failed.
func (s *Service) CreateBatch(userID string, dtos []CreateTransactionDTO) ([]*Transaction, error) {
	if len(dtos) == 0 {
		return nil, internal.NewValidationError("transactions are required", internal.ErrCodeValidationFailed)
	}

	saved := make([]*Transaction, 0, len(dtos))
	for i, dto := range dtos {
		tx, err := s.Create(userID, dto)
		if err != nil {
			s.logger.Error("batch create aborted", "error", err, "user_id", userID, "failed_index", i, "saved", len(saved))
			if appErr, ok := internal.IsAppError(err); ok {
				// the failing index must reach the client, so it goes
				// into the message rather than the cause chain
				indexed := *appErr
				indexed.Message = fmt.Sprintf("item %d: %s", i, appErr.Message)
				return saved, &indexed
			}
			return saved, err
		}
		saved = append(saved, tx)
	}

	s.logger.Info("batch create complete", "user_id", userID, "count", len(saved))
	return saved, nil
}

// List returns all of the caller's transactions, newest date first, ties
// broken by newest creation time.
func (s *Service) List(userID string) ([]*Transaction, error) {
	transactions, err := s.repo.GetByUser(userID)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to list transactions", err)
	}
	return transactions, nil
}

func (s *Service) Update(userID, transactionID string, dto UpdateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	tx, err := s.repo.GetByID(userID, transactionID)
	if err != nil {
		s.logger.Error("failed to load transaction", "error", err, "transaction_id", transactionID)
		return nil, internal.NewStorageError("failed to load transaction", err)
	}
	if tx == nil {
		return nil, internal.ErrTransactionNotFound
	}

	if dto.IsEmpty() {
		return tx, nil
	}

	if dto.Type != nil {
		tx.Type = *dto.Type
	}
	if dto.Amount != nil {
		tx.Amount = *dto.Amount
	}
	if dto.Category != nil {
		tx.Category = *dto.Category
	}
	if dto.Description != nil {
		tx.Description = *dto.Description
	}
	if dto.Note != nil {
		if *dto.Note == "" {
			tx.Note = nil
		} else {
			tx.Note = dto.Note
		}
	}
	if dto.Date != nil {
		tx.Date = *dto.Date
	}

	if err := s.repo.Update(tx); err != nil {
		s.logger.Error("failed to update transaction", "error", err, "transaction_id", transactionID)
		return nil, internal.NewStorageError("failed to update transaction", err)
	}

	return tx, nil
}

func (s *Service) Delete(userID, transactionID string) error {
	tx, err := s.repo.GetByID(userID, transactionID)
	if err != nil {
		s.logger.Error("failed to load transaction", "error", err, "transaction_id", transactionID)
		return internal.NewStorageError("failed to load transaction", err)
	}
	if tx == nil {
		return internal.ErrTransactionNotFound
	}

	if err := s.repo.Delete(userID, transactionID); err != nil {
		s.logger.Error("failed to delete transaction", "error", err, "transaction_id", transactionID)
		return internal.NewStorageError("failed to delete transaction", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", transactionID, "user_id", userID)
	return nil
}

// CountByCategory implements the category package's reference check.
func (s *Service) CountByCategory(userID, categoryID string) (int64, error) {
	return s.repo.CountByCategory(userID, categoryID)
}
