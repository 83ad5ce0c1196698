package watch

import (
	"errors"

	"github.com/nazedev/botpanel/internal/session"
)

const (
	MinPhoneDigits = 8
	MaxPhoneDigits = 15
)

var ErrInvalidPhone = errors.New("watch: invalid phone number format")

// ValidatePhone mirrors the dashboard check before a pair request is sent.
// It returns the digits that will be submitted.
func ValidatePhone(raw string) (string, error) {
	digits := session.CanonicalPhone(raw)
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return "", ErrInvalidPhone
	}
	return digits, nil
}
