package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fairmoney-bot/internal/config"
	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/repository"
	"fairmoney-bot/internal/service"
)

var testDBCounter int64

type fixture struct {
	server  *Server
	users   *repository.UserRepository
	rewards *service.RewardsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
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

	cfg := &config.Config{
		ClaimBonus:         500,
		ReferralBonus:      5000,
		MinWithdrawal:      10000,
		MaxWithdrawal:      50000,
		PlaceholderUsers:   52840,
		PlaceholderPayouts: 25000000,
		CurrencySymbol:     "₦",
	}

	users := repository.NewUserRepository(db)
	withdrawals := repository.NewWithdrawalRepository(db)
	sessions := repository.NewSessionRepository(db)
	admins := repository.NewAdminRepository(db)

	auth := service.NewAuthService(admins, sessions, time.Hour)
	require.NoError(t, auth.SeedAdmin(context.Background(), "admin", "s3cret"))

	rewards := service.NewRewardsService(users, withdrawals, cfg)
	review := service.NewReviewService(users, withdrawals)
	stats := service.NewStatsService(users, withdrawals, cfg)

	srv := New(":0", auth, stats, review, rewards, users, withdrawals)
	return &fixture{server: srv, users: users, rewards: rewards}
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var session model.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	return session.Token
}

func (f *fixture) seedWithdrawal(t *testing.T) (*model.TelegramUser, *model.WithdrawalRequest) {
	t.Helper()
	user := &model.TelegramUser{
		TelegramID: 100, FirstName: "Ada", HasJoinedGroups: true, Balance: 40000,
		BankAccountNumber: "0123456789", BankName: "GTBank", BankAccountName: "Ada Obi",
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	request, err := f.rewards.SubmitWithdrawal(context.Background(), user, "12000")
	require.NoError(t, err)
	return user, request
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/admin/dashboard", "/api/admin/withdrawals", "/api/admin/users", "/api/auth/me"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}

	rec := f.do(t, http.MethodGet, "/api/admin/dashboard", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeAndLogout(t *testing.T) {
	f := newFixture(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var admin model.Admin
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&admin))
	assert.Equal(t, "admin", admin.Username)

	rec = f.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	f.seedWithdrawal(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.DashboardStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, int64(52840), stats.TotalUsers)
	assert.Equal(t, int64(25000000), stats.TotalPayouts)
	assert.Equal(t, int64(1), stats.ActualUsers)
	assert.Equal(t, int64(1), stats.PendingWithdrawals)
	assert.Equal(t, int64(0), stats.ActualPayouts)
}

func TestWithdrawalReviewFlow(t *testing.T) {
	f := newFixture(t)
	_, request := f.seedWithdrawal(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/admin/withdrawals", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []model.WithdrawalRequest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, model.StatusPending, listed[0].Status)
	require.NotNil(t, listed[0].User)
	assert.Equal(t, "Ada", listed[0].User.FirstName)

	rec = f.do(t, http.MethodPost, "/api/admin/withdrawals/status", token, map[string]interface{}{
		"id": request.ID, "status": "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/admin/withdrawals/status", token, map[string]interface{}{
		"id": request.ID, "status": "approved",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/admin/withdrawals/status", token, map[string]interface{}{
		"id": request.ID, "status": "paid",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/admin/withdrawals/status", token, map[string]interface{}{
		"id": 9999, "status": "rejected",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	f.seedWithdrawal(t)
	token := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/admin/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []model.TelegramUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&users))
	require.Len(t, users, 1)
	assert.Equal(t, int64(100), users[0].TelegramID)
	assert.Equal(t, int64(28000), users[0].Balance)
}

func TestBotStatsIsPublic(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/bot/stats", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBotWithdraw(t *testing.T) {
	f := newFixture(t)

	user := &model.TelegramUser{
		TelegramID: 200, FirstName: "Ben", HasJoinedGroups: true, Balance: 30000,
		BankAccountNumber: "0123456789", BankName: "GTBank", BankAccountName: "Ben Obi",
	}
	require.NoError(t, f.users.Create(context.Background(), user))

	rec := f.do(t, http.MethodPost, "/api/bot/withdraw", "", map[string]interface{}{
		"telegramId": 200, "amount": 12000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var request model.WithdrawalRequest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&request))
	assert.Equal(t, int64(12000), request.Amount)
	assert.Equal(t, model.StatusPending, request.Status)

	rec = f.do(t, http.MethodPost, "/api/bot/withdraw", "", map[string]interface{}{
		"telegramId": 999, "amount": 12000,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	noBank := &model.TelegramUser{TelegramID: 300, HasJoinedGroups: true, Balance: 30000}
	require.NoError(t, f.users.Create(context.Background(), noBank))
	rec = f.do(t, http.MethodPost, "/api/bot/withdraw", "", map[string]interface{}{
		"telegramId": 300, "amount": 12000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/bot/withdraw", "", map[string]interface{}{
		"telegramId": 200, "amount": 9000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
