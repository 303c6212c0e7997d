package billing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/granada-os/backend/internal/domain/shared"
)

// TestDeclineNumber is a Luhn-valid card number the gateway always
// declines, used to exercise the failure path end to end
const TestDeclineNumber = "4000000000000002"

// CardDetails carries the payment form input. The number is stored
// only long enough to authorize; persistence keeps the last four
// digits at most.
type CardDetails struct {
	Number string
	// Expiry is MM/YY
	Expiry     string
	CVV        string
	HolderName string
}

var nonDigits = regexp.MustCompile(`[\s\-]`)

// NormalizeNumber strips spaces and dashes from a card number
func NormalizeNumber(number string) string {
	return nonDigits.ReplaceAllString(number, "")
}

// Last4 returns the final four digits of the normalized number
func (c CardDetails) Last4() string {
	n := NormalizeNumber(c.Number)
	if len(n) < 4 {
		return n
	}
	return n[len(n)-4:]
}

// Validate checks number, expiry, and CVV. It does not talk to any
// gateway; a valid card can still be declined.
func (c CardDetails) Validate(now time.Time) error {
	number := NormalizeNumber(c.Number)
	if len(number) < 13 || len(number) > 19 {
		return shared.NewDomainError("INVALID_CARD_NUMBER", "Card number must be 13 to 19 digits")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_CARD_NUMBER", "Card number must contain only digits")
		}
	}
	if !luhnValid(number) {
		return shared.NewDomainError("INVALID_CARD_NUMBER", "Card number failed validation")
	}

	if err := validateExpiry(c.Expiry, now); err != nil {
		return err
	}

	cvv := strings.TrimSpace(c.CVV)
	if len(cvv) < 3 || len(cvv) > 4 {
		return shared.NewDomainError("INVALID_CVV", "CVV must be 3 or 4 digits")
	}
	for _, r := range cvv {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_CVV", "CVV must contain only digits")
		}
	}

	return nil
}

// luhnValid implements the Luhn checksum
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func validateExpiry(expiry string, now time.Time) error {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return shared.NewDomainError("INVALID_EXPIRY", "Expiry must be MM/YY")
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return shared.NewDomainError("INVALID_EXPIRY", "Expiry month must be 01 to 12")
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return shared.NewDomainError("INVALID_EXPIRY", "Expiry year must be two digits")
	}
	year += 2000

	// A card is valid through the last day of its expiry month
	expiresAt := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	if !now.Before(expiresAt) {
		return shared.NewDomainError("CARD_EXPIRED", "Card has expired")
	}

	return nil
}
