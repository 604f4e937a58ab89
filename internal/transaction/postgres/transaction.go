package postgres

import (
	"cashbook/internal/transaction"

	"gorm.io/gorm"
)

// TransactionRepository implements transaction.Repository using GORM.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(tx *transaction.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *TransactionRepository) GetByID(userID, id string) (*transaction.Transaction, error) {
	var tx transaction.Transaction
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) GetByUser(userID string) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *TransactionRepository) Update(tx *transaction.Transaction) error {
	return r.db.Save(tx).Error
}

func (r *TransactionRepository) Delete(userID, id string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&transaction.Transaction{}).Error
}

func (r *TransactionRepository) CountByCategory(userID, categoryID string) (int64, error) {
	var count int64
	err := r.db.Model(&transaction.Transaction{}).
		Where("user_id = ? AND category = ?", userID, categoryID).
		Count(&count).Error
	return count, err
}
