package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fairmoney-bot/internal/config"
	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/repository"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory SQLite database per test. The unique name
// keeps gorm's connection pool on the same database without leaking state
// between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.TelegramUser{},
		&model.WithdrawalRequest{},
		&model.Admin{},
		&model.Session{},
	))

	return db
}

func allWeekdays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		ClaimBonus:     500,
		ReferralBonus:  5000,
		MinWithdrawal:  10000,
		MaxWithdrawal:  50000,
		ClaimCooldown:  time.Minute,
		WithdrawalDays: allWeekdays(),
		CurrencySymbol: "₦",
	}
}

func newRewards(t *testing.T, cfg *config.Config) (*RewardsService, *repository.UserRepository, *repository.WithdrawalRepository) {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	withdrawals := repository.NewWithdrawalRepository(db)
	return NewRewardsService(users, withdrawals, cfg), users, withdrawals
}

func seedUser(t *testing.T, users *repository.UserRepository, user *model.TelegramUser) *model.TelegramUser {
	t.Helper()
	require.NoError(t, users.Create(context.Background(), user))
	return user
}
