package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fairmoney-bot/internal/model"
)

// WithdrawalRepository handles CRUD for withdrawal requests.
type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// DB exposes the handle for cross-repository transactions.
func (r *WithdrawalRepository) DB() *gorm.DB {
	return r.db
}

func (r *WithdrawalRepository) Create(ctx context.Context, tx *gorm.DB, request *model.WithdrawalRequest) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("create withdrawal request: %w", err)
	}
	return nil
}

// FindByID returns nil without error when the request does not exist.
func (r *WithdrawalRepository) FindByID(ctx context.Context, id uint) (*model.WithdrawalRequest, error) {
	var request model.WithdrawalRequest
	err := r.db.WithContext(ctx).First(&request, id).Error
	switch {
	case err == nil:
		return &request, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find withdrawal request: %w", err)
	}
}

// ListAll returns every request newest-first with the owning user attached.
func (r *WithdrawalRepository) ListAll(ctx context.Context) ([]model.WithdrawalRequest, error) {
	var requests []model.WithdrawalRequest
	err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, request *model.WithdrawalRequest, status model.WithdrawalStatus) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Model(request).Update("status", status).Error; err != nil {
		return fmt.Errorf("update withdrawal status: %w", err)
	}
	request.Status = status
	return nil
}

// TotalApproved sums the amounts of approved requests (real payout figure).
func (r *WithdrawalRepository) TotalApproved(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("status = ?", model.StatusApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *WithdrawalRepository) CountByStatus(ctx context.Context, status model.WithdrawalStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
