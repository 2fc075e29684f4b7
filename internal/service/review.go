package service

import (
	"context"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/repository"
)

// ReviewService applies admin decisions to withdrawal requests. The balance
// was already debited when the request was created, so approval is a pure
// status flip and rejection refunds the amount.
type ReviewService struct {
	users       *repository.UserRepository
	withdrawals *repository.WithdrawalRepository
}

func NewReviewService(users *repository.UserRepository, withdrawals *repository.WithdrawalRepository) *ReviewService {
	return &ReviewService{users: users, withdrawals: withdrawals}
}

// Review transitions a pending request to approved or rejected, exactly once.
// A second decision on the same request fails with ErrAlreadyReviewed.
func (s *ReviewService) Review(ctx context.Context, id uint, status model.WithdrawalStatus) (*model.WithdrawalRequest, error) {
	if !status.Valid() || status == model.StatusPending {
		return nil, ErrInvalidStatus
	}

	request, err := s.withdrawals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}
	if request.Status != model.StatusPending {
		return nil, ErrAlreadyReviewed
	}

	if status == model.StatusApproved {
		if err := s.withdrawals.UpdateStatus(ctx, nil, request, status); err != nil {
			return nil, err
		}
	} else {
		err = s.withdrawals.DB().Transaction(func(tx *gorm.DB) error {
			if err := s.withdrawals.UpdateStatus(ctx, tx, request, status); err != nil {
				return err
			}
			return s.users.Refund(ctx, tx, request.UserID, request.Amount)
		})
		if err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"request": request.ID,
		"status":  status,
		"amount":  request.Amount,
	}).Info("withdrawal reviewed")

	return request, nil
}
