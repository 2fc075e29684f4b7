package service

import (
	"errors"
	"fmt"
	"time"

	"fairmoney-bot/internal/repository"
)

// Gate and validation failures. Every one maps to a specific user-facing
// message in the bot or an HTTP status in the admin API; none are retried.
var (
	ErrNotJoined           = errors.New("user has not joined the required groups")
	ErrWithdrawalsClosed   = errors.New("withdrawals are closed today")
	ErrBankDetailsRequired = errors.New("bank details are not set")
	ErrInvalidBankDetails  = errors.New("bank details format not recognized")
	ErrInvalidAmount       = errors.New("amount contains no digits")
	ErrAmountTooLow        = errors.New("amount below minimum withdrawal")
	ErrAmountTooHigh       = errors.New("amount above maximum withdrawal")
	ErrBalanceTooLow       = errors.New("balance below minimum withdrawal")
	ErrInsufficientBalance = repository.ErrInsufficientBalance
	ErrNotFound            = errors.New("withdrawal request not found")
	ErrAlreadyReviewed     = errors.New("withdrawal request already reviewed")
	ErrInvalidStatus       = errors.New("invalid withdrawal status")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthorized        = errors.New("invalid or expired session")
)

// CooldownError reports how long a user must wait before the next bonus claim.
type CooldownError struct {
	Remaining time.Duration
	LastClaim time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("claim cooldown active, %s remaining", e.Remaining)
}

// RemainingMinutes rounds up so "30s left" still reads as one minute.
func (e *CooldownError) RemainingMinutes() int64 {
	mins := int64(e.Remaining / time.Minute)
	if e.Remaining%time.Minute > 0 {
		mins++
	}
	if mins < 1 {
		mins = 1
	}
	return mins
}
