package service

import (
	"context"

	"fairmoney-bot/internal/config"
	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/repository"
)

// DashboardStats mixes the configured placeholder totals with real aggregates.
// The placeholders are what users and the dashboard headline show; the actual
// figures sit alongside for the operator.
type DashboardStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalPayouts       int64 `json:"totalPayouts"`
	ActualUsers        int64 `json:"actualUsers"`
	ActualPayouts      int64 `json:"actualPayouts"`
	PendingWithdrawals int64 `json:"pendingWithdrawals"`
}

// StatsService aggregates figures for the bot Statistics reply and the
// dashboard.
type StatsService struct {
	users       *repository.UserRepository
	withdrawals *repository.WithdrawalRepository
	cfg         *config.Config
}

func NewStatsService(users *repository.UserRepository, withdrawals *repository.WithdrawalRepository, cfg *config.Config) *StatsService {
	return &StatsService{users: users, withdrawals: withdrawals, cfg: cfg}
}

func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	payouts, err := s.withdrawals.TotalApproved(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	pending, err := s.withdrawals.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		TotalUsers:         s.cfg.PlaceholderUsers,
		TotalPayouts:       s.cfg.PlaceholderPayouts,
		ActualUsers:        userCount,
		ActualPayouts:      payouts,
		PendingWithdrawals: pending,
	}, nil
}
