package template

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidType    = errors.New("invalid template type")
	ErrNameRequired   = errors.New("template name required")
	ErrContentMissing = errors.New("template content required")
)

// Type selects which lifecycle event the template notifies about.
type Type string

const (
	TypeIssue  Type = "issue"
	TypeVerify Type = "verify"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	return t == TypeIssue || t == TypeVerify
}

func NewType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Template is an SMS message body with {{placeholder}} tokens.
// At most one template per type is the default; the store enforces this
// with a partial unique index.
type Template struct {
	id        uuid.UUID
	name      string
	kind      Type
	content   string
	isDefault bool
	updatedAt time.Time
}

func New(name string, kind Type, content string) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !kind.IsValid() {
		return nil, ErrInvalidType
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentMissing
	}
	return &Template{
		id:      uuid.New(),
		name:    name,
		kind:    kind,
		content: content,
	}, nil
}

func (t *Template) ID() uuid.UUID        { return t.id }
func (t *Template) Name() string         { return t.name }
func (t *Template) Kind() Type           { return t.kind }
func (t *Template) Content() string      { return t.content }
func (t *Template) IsDefault() bool      { return t.isDefault }
func (t *Template) UpdatedAt() time.Time { return t.updatedAt }

var placeholderRegex = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Render substitutes {{name}} tokens from vars. Tokens with no matching
// variable are removed entirely rather than left literal, so a stale
// template never leaks raw placeholders into a customer SMS.
func Render(content string, vars map[string]string) string {
	out := placeholderRegex.ReplaceAllStringFunc(content, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		return vars[name]
	})
	return out
}
