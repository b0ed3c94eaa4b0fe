package coupon

import (
	"crypto/rand"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCode  = errors.New("invalid coupon code format")
	ErrPhoneEmpty   = errors.New("customer phone must contain at least one digit")
	ErrRandomSource = errors.New("random source failed")
)

// Alphabet is the 32-symbol set coupon codes are drawn from.
// Visually ambiguous glyphs (0/O, 1/I) are excluded so codes survive
// being read aloud or copied from paper.
const (
	Alphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength = 8
)

var codeRegex = regexp.MustCompile(`^[` + Alphabet + `]{8}$`)

var nonAlnumRegex = regexp.MustCompile(`[^A-Z0-9]`)

type Code string

func NewCode(s string) (Code, error) {
	normalized := NormalizeCode(s)
	if !codeRegex.MatchString(normalized) {
		return "", ErrInvalidCode
	}
	return Code(normalized), nil
}

// NormalizeCode uppercases the input and strips everything that is not
// an ASCII letter or digit. "gdxc-12" becomes "GDXC12".
func NormalizeCode(s string) string {
	return nonAlnumRegex.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "")
}

func (c Code) String() string {
	return string(c)
}

// GenerateCode draws CodeLength characters independently and uniformly
// from Alphabet. Uniqueness is not guaranteed here; collisions are
// resolved by the issuing side retrying against the unique key.
func GenerateCode() (Code, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", ErrRandomSource
	}
	out := make([]byte, CodeLength)
	for i, b := range buf {
		out[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return Code(out), nil
}

// Phone holds a customer phone number normalized to digits only.
type Phone struct {
	digits string
}

var nonDigitRegex = regexp.MustCompile(`\D`)

func NewPhone(s string) (Phone, error) {
	digits := nonDigitRegex.ReplaceAllString(s, "")
	if digits == "" {
		return Phone{}, ErrPhoneEmpty
	}
	return Phone{digits: digits}, nil
}

func (p Phone) Digits() string {
	return p.digits
}

// Masked renders the number for list/verify screens: 010-****-5678.
func (p Phone) Masked() string {
	d := p.digits
	if len(d) >= 7 {
		return d[:3] + "-****-" + d[len(d)-4:]
	}
	if len(d) <= 2 {
		return d
	}
	return strings.Repeat("*", len(d)-2) + d[len(d)-2:]
}
