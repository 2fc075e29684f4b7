package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings and product constants for the bot and dashboard.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	HTTPAddr      string

	AdminUsername string
	AdminPassword string

	ClaimBonus       int64
	ReferralBonus    int64
	MinWithdrawal    int64
	MaxWithdrawal    int64
	ClaimCooldown    time.Duration
	WithdrawalDays   []time.Weekday
	RequiredGroups   []string
	SupportChannel   string
	NewsChannel      string
	CurrencySymbol   string
	AccountDetailsUI bool

	// Displayed instead of real aggregates in the Statistics reply and on
	// the dashboard totals. Product decision, not a bug.
	PlaceholderUsers   int64
	PlaceholderPayouts int64

	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:      strings.TrimSpace(os.Getenv("HTTP_ADDR")),

		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		ClaimBonus:    envInt64("CLAIM_BONUS_AMOUNT", 500),
		ReferralBonus: envInt64("REFERRAL_BONUS_AMOUNT", 5000),
		MinWithdrawal: envInt64("MIN_WITHDRAWAL_AMOUNT", 10000),
		MaxWithdrawal: envInt64("MAX_WITHDRAWAL_AMOUNT", 50000),
		ClaimCooldown: time.Duration(envInt64("CLAIM_COOLDOWN_MINUTES", 1)) * time.Minute,

		WithdrawalDays: parseWeekdays(os.Getenv("WITHDRAWAL_DAYS")),
		RequiredGroups: envList("REQUIRED_GROUPS", []string{"fairmoney_official", "fairmoney_news"}),
		SupportChannel: envString("SUPPORT_CHANNEL", "fairmoney_support"),
		NewsChannel:    envString("NEWS_CHANNEL", "fairmoney_news"),
		CurrencySymbol: envString("CURRENCY_SYMBOL", "₦"),

		AccountDetailsUI: envBool("ACCOUNT_DETAILS_BUTTON", false),

		PlaceholderUsers:   envInt64("PLACEHOLDER_TOTAL_USERS", 52840),
		PlaceholderPayouts: envInt64("PLACEHOLDER_TOTAL_PAYOUTS", 25000000),

		SessionTTL:           time.Duration(envInt64("SESSION_EXPIRATION_HOURS", 24)) * time.Hour,
		SessionPurgeInterval: time.Duration(envInt64("SESSION_PURGE_MINUTES", 30)) * time.Minute,
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "fairmoney.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if cfg.AdminPassword == "" {
		return cfg, fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if cfg.MinWithdrawal <= 0 || cfg.MaxWithdrawal < cfg.MinWithdrawal {
		return cfg, fmt.Errorf("invalid withdrawal limits: min=%d max=%d", cfg.MinWithdrawal, cfg.MaxWithdrawal)
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "@")); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// parseWeekdays reads a comma-separated list of weekday numbers (0=Sunday).
// Withdrawals default to the weekend window.
func parseWeekdays(raw string) []time.Weekday {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []time.Weekday{time.Saturday, time.Sunday}
	}
	var days []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	if len(days) == 0 {
		return []time.Weekday{time.Saturday, time.Sunday}
	}
	return days
}
