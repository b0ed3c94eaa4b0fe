package coupon

import (
	"errors"
	"strings"
)

var (
	ErrDiscountRequired       = errors.New("discount selection required")
	ErrDiscountCustomRequired = errors.New("custom discount text required")
	ErrInvalidDiscount        = errors.New("invalid discount selection")
	ErrHeadcountRequired      = errors.New("headcount selection required")
	ErrHeadcountCustomReq     = errors.New("custom headcount text required")
	ErrInvalidHeadcount       = errors.New("invalid headcount selection")
)

// CustomKind is the sentinel selection that carries free text instead of
// one of the fixed values.
const CustomKind = "CUSTOM"

var discountKinds = map[string]string{
	"-2000":  "2,000원 할인",
	"-3000":  "3,000원 할인",
	"-5000":  "5,000원 할인",
	"-10000": "10,000원 할인",
	"FREE":   "무료 입장",
}

var headcountKinds = map[string]string{
	"1":        "1인",
	"2":        "2인",
	"3":        "3인",
	"4":        "4인",
	"5":        "5인",
	"6":        "6인",
	"TEAM_ALL": "팀 전체",
}

// Discount is either one of the fixed discount kinds or CUSTOM with
// non-empty free text. The custom text of a non-custom selection is
// discarded at construction, so an invalid combination cannot exist.
type Discount struct {
	kind       string
	customText string
}

func NewDiscount(kind, customText string) (Discount, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return Discount{}, ErrDiscountRequired
	}
	if kind == CustomKind {
		text := strings.TrimSpace(customText)
		if text == "" {
			return Discount{}, ErrDiscountCustomRequired
		}
		return Discount{kind: CustomKind, customText: text}, nil
	}
	if _, ok := discountKinds[kind]; !ok {
		return Discount{}, ErrInvalidDiscount
	}
	return Discount{kind: kind}, nil
}

func (d Discount) Kind() string { return d.kind }

func (d Discount) IsCustom() bool { return d.kind == CustomKind }

// CustomText returns the free text for CUSTOM selections, nil otherwise.
func (d Discount) CustomText() *string {
	if !d.IsCustom() {
		return nil
	}
	text := d.customText
	return &text
}

// Label renders the human-readable value used on screens and in SMS.
func (d Discount) Label() string {
	if d.IsCustom() {
		return d.customText
	}
	return discountKinds[d.kind]
}

// Headcount follows the same fixed-or-custom pattern as Discount.
type Headcount struct {
	kind       string
	customText string
}

func NewHeadcount(kind, customText string) (Headcount, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return Headcount{}, ErrHeadcountRequired
	}
	if kind == CustomKind {
		text := strings.TrimSpace(customText)
		if text == "" {
			return Headcount{}, ErrHeadcountCustomReq
		}
		return Headcount{kind: CustomKind, customText: text}, nil
	}
	if _, ok := headcountKinds[kind]; !ok {
		return Headcount{}, ErrInvalidHeadcount
	}
	return Headcount{kind: kind}, nil
}

func (h Headcount) Kind() string { return h.kind }

func (h Headcount) IsCustom() bool { return h.kind == CustomKind }

func (h Headcount) CustomText() *string {
	if !h.IsCustom() {
		return nil
	}
	text := h.customText
	return &text
}

func (h Headcount) Label() string {
	if h.IsCustom() {
		return h.customText
	}
	return headcountKinds[h.kind]
}

// DiscountLabel renders a label from raw persisted columns, falling
// back to the stored kind when it predates the current fixed set.
func DiscountLabel(kind string, customText *string) string {
	if kind == CustomKind && customText != nil {
		return *customText
	}
	if label, ok := discountKinds[kind]; ok {
		return label
	}
	return kind
}

// HeadcountLabel is the raw-column counterpart of Headcount.Label.
func HeadcountLabel(kind string, customText *string) string {
	if kind == CustomKind && customText != nil {
		return *customText
	}
	if label, ok := headcountKinds[kind]; ok {
		return label
	}
	return kind
}
