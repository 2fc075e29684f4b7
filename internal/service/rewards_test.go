package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairmoney-bot/internal/model"
)

func TestRegister_NewUser(t *testing.T) {
	svc, _, _ := newRewards(t, testConfig())

	user, referrer, created, err := svc.Register(context.Background(), Profile{
		TelegramID: 100, FirstName: "Ada", LastName: "Obi", Username: "ada",
	}, "")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Nil(t, referrer)
	assert.Equal(t, int64(0), user.Balance)
	assert.False(t, user.HasJoinedGroups)
}

func TestRegister_ReferralCreditedExactlyOnce(t *testing.T) {
	svc, _, _ := newRewards(t, testConfig())
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, Profile{TelegramID: 100, FirstName: "Ada"}, "")
	require.NoError(t, err)

	user, referrer, created, err := svc.Register(ctx, Profile{TelegramID: 200, FirstName: "Ben"}, "ref_100")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, referrer)
	assert.Equal(t, int64(5000), referrer.Balance)
	assert.Equal(t, int64(1), referrer.ReferralCount)
	require.NotNil(t, user.ReferrerID)
	assert.Equal(t, int64(100), *user.ReferrerID)

	// Re-running /start with the same payload must not credit again.
	_, referrer, created, err = svc.Register(ctx, Profile{TelegramID: 200, FirstName: "Ben"}, "ref_100")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, referrer)
}

func TestRegister_SelfReferralIgnored(t *testing.T) {
	svc, _, _ := newRewards(t, testConfig())

	user, referrer, created, err := svc.Register(context.Background(), Profile{TelegramID: 100, FirstName: "Ada"}, "ref_100")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, referrer)
	assert.Nil(t, user.ReferrerID)
}

func TestRegister_UnknownReferrerIgnored(t *testing.T) {
	svc, _, _ := newRewards(t, testConfig())

	user, referrer, _, err := svc.Register(context.Background(), Profile{TelegramID: 100, FirstName: "Ada"}, "ref_999")
	require.NoError(t, err)
	assert.Nil(t, referrer)
	assert.Nil(t, user.ReferrerID)
}

func TestMarkJoined_Idempotent(t *testing.T) {
	svc, users, _ := newRewards(t, testConfig())
	ctx := context.Background()
	user := seedUser(t, users, &model.TelegramUser{TelegramID: 100, FirstName: "Ada"})

	already, err := svc.MarkJoined(ctx, user)
	require.NoError(t, err)
	assert.False(t, already)
	assert.True(t, user.HasJoinedGroups)

	already, err = svc.MarkJoined(ctx, user)
	require.NoError(t, err)
	assert.True(t, already)

	fresh, err := users.FindByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.True(t, fresh.HasJoinedGroups)
}

func TestClaimBonus_RequiresJoin(t *testing.T) {
	svc, users, _ := newRewards(t, testConfig())
	user := seedUser(t, users, &model.TelegramUser{TelegramID: 100})

	err := svc.ClaimBonus(context.Background(), user, time.Now())
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestClaimBonus_CooldownAndAward(t *testing.T) {
	svc, users, _ := newRewards(t, testConfig())
	ctx := context.Background()
	user := seedUser(t, users, &model.TelegramUser{TelegramID: 100, HasJoinedGroups: true})

	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

	require.NoError(t, svc.ClaimBonus(ctx, user, now))
	assert.Equal(t, int64(500), user.Balance)
	require.NotNil(t, user.LastBonusClaim)

	// Within the cooldown window.
	err := svc.ClaimBonus(ctx, user, now.Add(30*time.Second))
	var cooldown *CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, int64(1), cooldown.RemainingMinutes())
	assert.Equal(t, int64(500), user.Balance)

	// After the cooldown elapses the claim succeeds and the stamp advances.
	require.NoError(t, svc.ClaimBonus(ctx, user, now.Add(2*time.Minute)))
	assert.Equal(t, int64(1000), user.Balance)
	assert.True(t, user.LastBonusClaim.After(now))
}

func TestBeginWithdrawal_Gates(t *testing.T) {
	cfg := testConfig()
	svc, users, _ := newRewards(t, cfg)
	ctx := context.Background()
	now := time.Now()

	user := seedUser(t, users, &model.TelegramUser{TelegramID: 100})
	assert.ErrorIs(t, svc.BeginWithdrawal(ctx, user, now), ErrNotJoined)

	require.NoError(t, users.SetJoined(ctx, user))

	closed := *cfg
	closed.WithdrawalDays = nil
	closedSvc := NewRewardsService(users, nil, &closed)
	assert.ErrorIs(t, closedSvc.BeginWithdrawal(ctx, user, now), ErrWithdrawalsClosed)

	assert.ErrorIs(t, svc.BeginWithdrawal(ctx, user, now), ErrBalanceTooLow)

	user.Balance = 20000
	assert.ErrorIs(t, svc.BeginWithdrawal(ctx, user, now), ErrBankDetailsRequired)

	require.NoError(t, users.SetBankDetails(ctx, user, "0123456789", "GTBank", "Ada Obi"))
	require.NoError(t, svc.BeginWithdrawal(ctx, user, now))
	assert.Equal(t, model.StateAwaitingWithdrawalAmount, user.State)
}

func TestSetBankDetails(t *testing.T) {
	svc, users, _ := newRewards(t, testConfig())
	ctx := context.Background()
	user := seedUser(t, users, &model.TelegramUser{TelegramID: 100, HasJoinedGroups: true})

	require.NoError(t, svc.BeginBankDetails(ctx, user))
	assert.Equal(t, model.StateAwaitingBankDetails, user.State)

	// Malformed input is rejected and leaves the user in entry mode.
	_, err := svc.SetBankDetails(ctx, user, "whatever")
	assert.ErrorIs(t, err, ErrInvalidBankDetails)
	assert.Equal(t, model.StateAwaitingBankDetails, user.State)

	details, err := svc.SetBankDetails(ctx, user, "0123456789\nGTBank\nAda Obi")
	require.NoError(t, err)
	assert.Equal(t, "GTBank", details.BankName)
	assert.Equal(t, model.StateIdle, user.State)

	fresh, err := users.FindByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.True(t, fresh.HasBankDetails())
	assert.Equal(t, "Ada Obi", fresh.BankAccountName)
}

func TestSubmitWithdrawal_Success(t *testing.T) {
	svc, users, withdrawals := newRewards(t, testConfig())
	ctx := context.Background()
	user := seedUser(t, users, &model.TelegramUser{
		TelegramID: 100, HasJoinedGroups: true, Balance: 20000,
		BankAccountNumber: "0123456789", BankName: "GTBank", BankAccountName: "Ada Obi",
		State: model.StateAwaitingWithdrawalAmount,
	})

	request, err := svc.SubmitWithdrawal(ctx, user, "₦12,000")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), request.Amount)
	assert.Equal(t, model.StatusPending, request.Status)
	assert.Equal(t, "GTBank", request.BankName)
	assert.Equal(t, int64(8000), user.Balance)
	assert.Equal(t, model.StateIdle, user.State)

	// Exactly one pending request exists and the stored balance matches.
	pending, err := withdrawals.CountByStatus(ctx, model.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	fresh, err := users.FindByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), fresh.Balance)
}

func TestSubmitWithdrawal_Validation(t *testing.T) {
	svc, users, withdrawals := newRewards(t, testConfig())
	ctx := context.Background()
	user := seedUser(t, users, &model.TelegramUser{
		TelegramID: 100, HasJoinedGroups: true, Balance: 15000,
		BankAccountNumber: "0123456789", BankName: "GTBank", BankAccountName: "Ada Obi",
		State: model.StateAwaitingWithdrawalAmount,
	})

	tests := []struct {
		input string
		want  error
	}{
		{"abc", ErrInvalidAmount},
		{"9999", ErrAmountTooLow},
		{"50001", ErrAmountTooHigh},
		{"16000", ErrInsufficientBalance},
	}

	for _, tt := range tests {
		_, err := svc.SubmitWithdrawal(ctx, user, tt.input)
		assert.ErrorIs(t, err, tt.want, "input %q", tt.input)
		// Failed validation keeps the user in amount entry with the balance intact.
		assert.Equal(t, model.StateAwaitingWithdrawalAmount, user.State)
	}

	fresh, err := users.FindByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), fresh.Balance)

	count, err := withdrawals.CountByStatus(ctx, model.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
