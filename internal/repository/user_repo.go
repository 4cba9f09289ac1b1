package repository

import (
	"refnet/internal/domain"
	"refnet/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// ListMembers returns the member directory, optionally filtered by business category.
func (r *UserRepository) ListMembers(category string) ([]models.User, error) {
	var list []models.User
	q := r.db.Where("role = ?", domain.RoleMember)
	if category != "" {
		q = q.Where("business_category = ?", category)
	}
	err := q.Order("name ASC").Find(&list).Error
	return list, err
}

// ListAll returns every account including admins, for admin screens.
func (r *UserRepository) ListAll() ([]models.User, error) {
	var list []models.User
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}
