package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fairmoney-bot/internal/model"
)

// AdminRepository manages dashboard accounts.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername returns nil without error for unknown usernames.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	switch {
	case err == nil:
		return &admin, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find admin: %w", err)
	}
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).First(&admin, id).Error
	switch {
	case err == nil:
		return &admin, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find admin: %w", err)
	}
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// UpdatePasswordHash rotates the stored hash for the seeded account.
func (r *AdminRepository) UpdatePasswordHash(ctx context.Context, admin *model.Admin, hash string) error {
	if err := r.db.WithContext(ctx).Model(admin).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	admin.PasswordHash = hash
	return nil
}
