package postgres

import (
	"cashbook/internal/category"

	"gorm.io/gorm"
)

// CategoryRepository implements category.Repository using GORM. Only custom
// categories live in the database; the system taxonomy is in code.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByUser(userID string) ([]category.Category, error) {
	var categories []category.Category
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByUserAndType(userID, categoryType string) ([]category.Category, error) {
	var categories []category.Category
	err := r.db.Where("user_id = ? AND type = ?", userID, categoryType).
		Order("created_at ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(userID, id string) (*category.Category, error) {
	var cat category.Category
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(cat *category.Category) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(cat *category.Category) error {
	return r.db.Save(cat).Error
}

func (r *CategoryRepository) Delete(userID, id string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&category.Category{}).Error
}
