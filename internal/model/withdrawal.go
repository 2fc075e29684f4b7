package model

import "time"

// WithdrawalStatus is the review state of a withdrawal request.
type WithdrawalStatus string

const (
	StatusPending  WithdrawalStatus = "pending"
	StatusApproved WithdrawalStatus = "approved"
	StatusRejected WithdrawalStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// WithdrawalRequest is created once when a user cashes out. The balance is
// debited at creation time; review only flips the status (rejection refunds).
// Bank fields are a snapshot taken at creation, not a live reference.
type WithdrawalRequest struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"index" json:"userId"`
	Amount int64 `gorm:"not null" json:"amount"`

	Status WithdrawalStatus `gorm:"not null;default:'pending';index" json:"status"`

	BankAccountNumber string `json:"bankAccountNumber"`
	BankName          string `json:"bankName"`
	BankAccountName   string `json:"bankAccountName"`

	User *TelegramUser `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
