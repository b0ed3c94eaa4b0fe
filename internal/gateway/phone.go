package gateway

import (
	"regexp"
	"strings"
)

var nonDigitRegex = regexp.MustCompile(`\D`)

// ToKoreanPhone normalizes a destination number to the Korean domestic
// format Solapi expects: the 82 country code is stripped and the
// leading 0 restored. Inputs already in domestic form pass through.
func ToKoreanPhone(phone string) string {
	digits := nonDigitRegex.ReplaceAllString(phone, "")
	switch {
	case strings.HasPrefix(digits, "82") && len(digits) >= 11:
		return digits[2:]
	case strings.HasPrefix(digits, "0"):
		return digits
	case len(digits) >= 9:
		return "0" + strings.TrimPrefix(digits, "82")
	default:
		return digits
	}
}
