package format

import (
	"regexp"
	"strconv"
	"strings"
)

// BankDetails is a parsed bank-detail entry. Fields are trimmed but not
// otherwise validated: there is no checksum or bank-code lookup.
type BankDetails struct {
	AccountNumber string
	BankName      string
	AccountName   string
}

var (
	referrerPattern   = regexp.MustCompile(`^ref_(\d+)$`)
	nonDigits         = regexp.MustCompile(`[^0-9]`)
	singleLineDetails = regexp.MustCompile(`^\s*(\d+)\s+(\S+)\s+(.+?)\s*$`)
)

// ExtractReferrerID pulls the referrer's Telegram ID from a /start payload
// like "ref_123456". Returns false when the payload is absent or malformed.
func ExtractReferrerID(payload string) (int64, bool) {
	m := referrerPattern.FindStringSubmatch(strings.TrimSpace(payload))
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseAmount strips every non-digit rune and parses what remains, so
// "₦12,000" and "amount: 12000 naira" both yield 12000. Input with no digits
// is rejected.
func ParseAmount(text string) (int64, bool) {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0, false
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// ParseBankDetails accepts two shapes:
//
//	0123456789
//	GTBank
//	John Doe
//
// or the single line "0123456789 GTBank John Doe". In the single-line form the
// bank name is one word and the rest is the account name; multi-word bank
// names need the three-line form.
func ParseBankDetails(text string) (BankDetails, bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 3 {
		return BankDetails{
			AccountNumber: lines[0],
			BankName:      lines[1],
			AccountName:   lines[2],
		}, true
	}

	if m := singleLineDetails.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return BankDetails{
			AccountNumber: m[1],
			BankName:      m[2],
			AccountName:   m[3],
		}, true
	}

	return BankDetails{}, false
}
