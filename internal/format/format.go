// Package format holds the pure display and parsing helpers shared by the bot
// and the admin API.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Currency renders an amount like "₦12,500".
func Currency(symbol string, amount int64) string {
	return symbol + groupDigits(amount)
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Date renders a date like "Mar 2, 2026".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Time renders a clock time like "4:05 PM".
func Time(t time.Time) string {
	return t.Format("3:04 PM")
}

// MinutesBetween returns whole minutes elapsed from start to end.
func MinutesBetween(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Minute)
}

// Elapsed renders a rough "how long ago" string for dashboard listings.
func Elapsed(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d >= 24*time.Hour:
		return plural(int64(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int64(d/time.Minute), "minute")
	default:
		return "just now"
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// IsWithdrawalDay reports whether t falls on one of the allowed weekdays.
func IsWithdrawalDay(t time.Time, days []time.Weekday) bool {
	for _, d := range days {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// ReferralLink builds the deep link a user shares to earn referral bonuses.
func ReferralLink(botUsername string, telegramID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=ref_%d", botUsername, telegramID)
}
