package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fairmoney-bot/internal/config"
	"fairmoney-bot/internal/format"
	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/repository"
)

// RewardsService owns every balance mutation: registration with referral
// credit, bonus claims, bank details, and withdrawal submission. It also
// drives the per-user conversation state persisted on the user row.
type RewardsService struct {
	users       *repository.UserRepository
	withdrawals *repository.WithdrawalRepository
	cfg         *config.Config
}

func NewRewardsService(users *repository.UserRepository, withdrawals *repository.WithdrawalRepository, cfg *config.Config) *RewardsService {
	return &RewardsService{users: users, withdrawals: withdrawals, cfg: cfg}
}

// Profile carries the identity fields from a Telegram update.
type Profile struct {
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
}

// Register finds or creates the user for a /start. For new users with a valid
// ref_<id> payload the referrer is credited (balance and counter in one
// statement) and returned so the caller can send a best-effort notification.
// Re-running /start never credits anyone twice.
func (s *RewardsService) Register(ctx context.Context, p Profile, payload string) (user, referrer *model.TelegramUser, created bool, err error) {
	user, err = s.users.FindByTelegramID(ctx, p.TelegramID)
	if err != nil {
		return nil, nil, false, err
	}
	if user != nil {
		if err := s.users.UpdateProfile(ctx, user, p.FirstName, p.LastName, p.Username); err != nil {
			return nil, nil, false, err
		}
		return user, nil, false, nil
	}

	user = &model.TelegramUser{
		TelegramID: p.TelegramID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Username:   p.Username,
	}

	if refID, ok := format.ExtractReferrerID(payload); ok && refID != p.TelegramID {
		referrer, err = s.users.FindByTelegramID(ctx, refID)
		if err != nil {
			return nil, nil, false, err
		}
		if referrer != nil {
			user.ReferrerID = &refID
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, false, err
	}

	if referrer != nil {
		if err := s.users.CreditReferral(ctx, referrer, s.cfg.ReferralBonus); err != nil {
			return nil, nil, false, err
		}
		log.WithFields(log.Fields{
			"referrer": referrer.TelegramID,
			"referred": user.TelegramID,
			"bonus":    s.cfg.ReferralBonus,
		}).Info("referral credited")
	}

	return user, referrer, true, nil
}

// MarkJoined flips the join flag. Calling it again is a no-op and reports
// already=true so the bot can send the "already joined" reply.
func (s *RewardsService) MarkJoined(ctx context.Context, user *model.TelegramUser) (already bool, err error) {
	if user.HasJoinedGroups {
		return true, nil
	}
	return false, s.users.SetJoined(ctx, user)
}

// ClaimBonus awards the claim bonus if the cooldown has elapsed. On success
// the user's balance and claim stamp are refreshed in place.
func (s *RewardsService) ClaimBonus(ctx context.Context, user *model.TelegramUser, now time.Time) error {
	if !user.HasJoinedGroups {
		return ErrNotJoined
	}

	if user.LastBonusClaim != nil {
		elapsed := time.Duration(format.MinutesBetween(*user.LastBonusClaim, now)) * time.Minute
		if elapsed < s.cfg.ClaimCooldown {
			return &CooldownError{
				Remaining: s.cfg.ClaimCooldown - elapsed,
				LastClaim: *user.LastBonusClaim,
			}
		}
	}

	if err := s.users.CreditClaim(ctx, user, s.cfg.ClaimBonus, now); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user": user.TelegramID, "bonus": s.cfg.ClaimBonus}).Info("bonus claimed")
	return nil
}

// BeginBankDetails moves the user into bank-detail entry.
func (s *RewardsService) BeginBankDetails(ctx context.Context, user *model.TelegramUser) error {
	return s.users.SetState(ctx, user, model.StateAwaitingBankDetails)
}

// SetBankDetails parses and stores the user's bank details. Malformed input
// fails with ErrInvalidBankDetails and leaves the conversation state alone, so
// the user stays in entry mode and can resend.
func (s *RewardsService) SetBankDetails(ctx context.Context, user *model.TelegramUser, text string) (format.BankDetails, error) {
	details, ok := format.ParseBankDetails(text)
	if !ok {
		return format.BankDetails{}, ErrInvalidBankDetails
	}
	if err := s.users.SetBankDetails(ctx, user, details.AccountNumber, details.BankName, details.AccountName); err != nil {
		return format.BankDetails{}, err
	}
	return details, s.users.SetState(ctx, user, model.StateIdle)
}

// BeginWithdrawal runs every withdrawal gate in order: join status, weekday
// window, minimum balance, bank details. Passing all of them moves the user
// into amount entry.
func (s *RewardsService) BeginWithdrawal(ctx context.Context, user *model.TelegramUser, now time.Time) error {
	if !user.HasJoinedGroups {
		return ErrNotJoined
	}
	if !format.IsWithdrawalDay(now, s.cfg.WithdrawalDays) {
		return ErrWithdrawalsClosed
	}
	if user.Balance < s.cfg.MinWithdrawal {
		return ErrBalanceTooLow
	}
	if !user.HasBankDetails() {
		return ErrBankDetailsRequired
	}
	return s.users.SetState(ctx, user, model.StateAwaitingWithdrawalAmount)
}

// SubmitWithdrawal parses the amount, validates it against the configured
// range and the current balance, then debits the balance and creates exactly
// one pending request in a single transaction. Validation failures leave the
// user in amount entry.
func (s *RewardsService) SubmitWithdrawal(ctx context.Context, user *model.TelegramUser, text string) (*model.WithdrawalRequest, error) {
	amount, ok := format.ParseAmount(text)
	if !ok {
		return nil, ErrInvalidAmount
	}
	if amount < s.cfg.MinWithdrawal {
		return nil, ErrAmountTooLow
	}
	if amount > s.cfg.MaxWithdrawal {
		return nil, ErrAmountTooHigh
	}
	if amount > user.Balance {
		return nil, ErrInsufficientBalance
	}

	request := &model.WithdrawalRequest{
		UserID:            user.ID,
		Amount:            amount,
		Status:            model.StatusPending,
		BankAccountNumber: user.BankAccountNumber,
		BankName:          user.BankName,
		BankAccountName:   user.BankAccountName,
	}

	err := s.withdrawals.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.users.Debit(ctx, tx, user.ID, amount); err != nil {
			return err
		}
		return s.withdrawals.Create(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	user.Balance -= amount
	log.WithFields(log.Fields{
		"user":    user.TelegramID,
		"amount":  amount,
		"request": request.ID,
	}).Info("withdrawal request submitted")

	return request, s.users.SetState(ctx, user, model.StateIdle)
}

// ResetState drops any in-progress entry back to idle.
func (s *RewardsService) ResetState(ctx context.Context, user *model.TelegramUser) error {
	if user.State == model.StateIdle {
		return nil
	}
	return s.users.SetState(ctx, user, model.StateIdle)
}
