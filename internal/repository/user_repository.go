package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fairmoney-bot/internal/model"
)

// ErrInsufficientBalance is returned by Debit when the guarded update would
// push the balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// UserRepository handles CRUD for Telegram users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByTelegramID returns nil without error when the user is not registered.
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.TelegramUser, error) {
	var user model.TelegramUser
	err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.TelegramUser, error) {
	var user model.TelegramUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.TelegramUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateProfile refreshes the name fields from the latest Telegram update.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.TelegramUser, firstName, lastName, username string) error {
	updates := map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
		"username":   username,
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return nil
}

func (r *UserRepository) SetJoined(ctx context.Context, user *model.TelegramUser) error {
	if err := r.db.WithContext(ctx).Model(user).Update("has_joined_groups", true).Error; err != nil {
		return fmt.Errorf("set joined: %w", err)
	}
	user.HasJoinedGroups = true
	return nil
}

func (r *UserRepository) SetState(ctx context.Context, user *model.TelegramUser, state model.ConversationState) error {
	if err := r.db.WithContext(ctx).Model(user).Update("state", state).Error; err != nil {
		return fmt.Errorf("set conversation state: %w", err)
	}
	user.State = state
	return nil
}

func (r *UserRepository) SetBankDetails(ctx context.Context, user *model.TelegramUser, accountNumber, bankName, accountName string) error {
	updates := map[string]interface{}{
		"bank_account_number": accountNumber,
		"bank_name":           bankName,
		"bank_account_name":   accountName,
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("set bank details: %w", err)
	}
	user.BankAccountNumber = accountNumber
	user.BankName = bankName
	user.BankAccountName = accountName
	return nil
}

// CreditClaim adds the claim bonus and stamps the claim time in one update.
func (r *UserRepository) CreditClaim(ctx context.Context, user *model.TelegramUser, amount int64, claimedAt time.Time) error {
	updates := map[string]interface{}{
		"balance":          gorm.Expr("balance + ?", amount),
		"last_bonus_claim": claimedAt,
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("credit claim: %w", err)
	}
	return r.db.WithContext(ctx).First(user, user.ID).Error
}

// CreditReferral applies the referral bonus and increments the referral
// counter in one transaction. The counter column is the only source of truth
// for referral totals.
func (r *UserRepository) CreditReferral(ctx context.Context, referrer *model.TelegramUser, bonus int64) error {
	err := r.db.WithContext(ctx).Model(referrer).Updates(map[string]interface{}{
		"balance":        gorm.Expr("balance + ?", bonus),
		"referral_count": gorm.Expr("referral_count + 1"),
	}).Error
	if err != nil {
		return fmt.Errorf("credit referral: %w", err)
	}
	return r.db.WithContext(ctx).First(referrer, referrer.ID).Error
}

// Debit subtracts amount inside tx, guarded so the balance never goes
// negative. Callers pass the surrounding withdrawal transaction.
func (r *UserRepository) Debit(ctx context.Context, tx *gorm.DB, userID uint, amount int64) error {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Model(&model.TelegramUser{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("debit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Refund adds amount back inside tx (withdrawal rejection).
func (r *UserRepository) Refund(ctx context.Context, tx *gorm.DB, userID uint, amount int64) error {
	if tx == nil {
		tx = r.db
	}
	err := tx.WithContext(ctx).Model(&model.TelegramUser{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("refund balance: %w", err)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TelegramUser{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.TelegramUser, error) {
	var users []model.TelegramUser
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
