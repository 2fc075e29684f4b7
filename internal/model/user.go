package model

import "time"

// ConversationState tells the bot how to interpret the next free-text message
// from a user. Persisted on the user row so a restart does not strand anyone
// mid-entry.
type ConversationState string

const (
	StateIdle                     ConversationState = ""
	StateAwaitingBankDetails      ConversationState = "awaiting_bank_details"
	StateAwaitingWithdrawalAmount ConversationState = "awaiting_withdrawal_amount"
)

// TelegramUser is a bot participant. Balance is whole currency units and never
// goes negative. ReferralCount is maintained in the same transaction as the
// referral credit and is the only source of truth for referral totals.
type TelegramUser struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TelegramID int64  `gorm:"uniqueIndex" json:"telegramId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Username   string `json:"username"`

	Balance       int64  `gorm:"not null;default:0" json:"balance"`
	ReferralCount int64  `gorm:"not null;default:0" json:"referralCount"`
	ReferrerID    *int64 `gorm:"index" json:"referrerId,omitempty"`

	HasJoinedGroups bool       `gorm:"not null;default:false" json:"hasJoinedGroups"`
	LastBonusClaim  *time.Time `json:"lastBonusClaim,omitempty"`

	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	BankAccountName   string `json:"bankAccountName,omitempty"`

	State ConversationState `gorm:"not null;default:''" json:"-"`

	CreatedAt time.Time `json:"joinedAt"`
	UpdatedAt time.Time `json:"-"`
}

// HasBankDetails reports whether all three bank fields are set.
func (u *TelegramUser) HasBankDetails() bool {
	return u.BankAccountNumber != "" && u.BankName != "" && u.BankAccountName != ""
}

// FullName joins first and last name, tolerating an empty last name.
func (u *TelegramUser) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
