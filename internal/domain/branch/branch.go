package branch

import (
	"crypto/subtle"
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnknownBranch   = errors.New("unknown branch code")
	ErrInvalidPassword = errors.New("invalid branch password")
	ErrBadSecretEntry  = errors.New("malformed branch secret entry")
)

// Code identifies one physical branch. The set is closed and comes from
// configuration, not from the database.
type Code string

func (c Code) String() string {
	return string(c)
}

// Directory maps branch codes to their shared 5-digit passwords and is
// the only place the secret material is compared. Secrets are injected
// once at startup and never leave this package through errors or logs.
type Directory struct {
	secrets map[Code]string
	codes   []Code
}

// NewDirectory parses "CODE:SECRET,CODE:SECRET" entries from config.
func NewDirectory(spec string) (*Directory, error) {
	secrets := make(map[Code]string)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, ErrBadSecretEntry
		}
		secrets[Code(strings.ToUpper(parts[0]))] = parts[1]
	}
	if len(secrets) == 0 {
		return nil, ErrBadSecretEntry
	}

	codes := make([]Code, 0, len(secrets))
	for code := range secrets {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return &Directory{secrets: secrets, codes: codes}, nil
}

// Codes returns the closed set of branch codes in stable order.
func (d *Directory) Codes() []Code {
	out := make([]Code, len(d.codes))
	copy(out, d.codes)
	return out
}

func (d *Directory) Knows(code Code) bool {
	_, ok := d.secrets[code]
	return ok
}

// Verify is the single capability check for branch credentials.
// The comparison is constant-time; the stored secret is never part of
// the returned error.
func (d *Directory) Verify(code Code, password string) error {
	secret, ok := d.secrets[code]
	if !ok {
		return ErrUnknownBranch
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}
