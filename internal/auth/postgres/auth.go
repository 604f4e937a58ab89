package postgres

import (
	"cashbook/internal/auth"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserByUsername(username string) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(id string) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) CreateSession(session *auth.Session) error {
	return r.db.Create(session).Error
}

func (r *Repository) GetSessionByToken(token string) (*auth.Session, error) {
	var session auth.Session
	err := r.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *Repository) DeleteSession(token string) error {
	return r.db.Where("token = ?", token).Delete(&auth.Session{}).Error
}
