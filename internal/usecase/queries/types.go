package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

// CouponView is the full read model returned to issue/verify screens.
type CouponView struct {
	Code                string     `json:"coupon_code"`
	Status              string     `json:"status"`
	IssuedBranchCode    string     `json:"issued_branch_code"`
	VerifiedBranchCode  *string    `json:"verified_branch_code,omitempty"`
	IssuedAt            time.Time  `json:"issued_at"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
	CustomerPhone       string     `json:"customer_phone"`
	DiscountType        string     `json:"discount_type"`
	DiscountCustomText  *string    `json:"discount_custom_text,omitempty"`
	DiscountLabel       string     `json:"discount_label"`
	HeadcountType       string     `json:"headcount_type"`
	HeadcountCustomText *string    `json:"headcount_custom_text,omitempty"`
	HeadcountLabel      string     `json:"headcount_label"`
	VerifyAttemptCount  int32      `json:"verify_attempt_count"`
	LastVerifyAttemptAt *time.Time `json:"last_verify_attempt_at,omitempty"`
}

// CouponListItem is the issuance-history row; the customer phone is
// masked before it leaves the query layer.
type CouponListItem struct {
	Code               string     `json:"coupon_code"`
	Status             string     `json:"status"`
	IssuedBranchCode   string     `json:"issued_branch_code"`
	VerifiedBranchCode *string    `json:"verified_branch_code,omitempty"`
	IssuedAt           time.Time  `json:"issued_at"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	MaskedPhone        string     `json:"masked_phone"`
	DiscountLabel      string     `json:"discount_label"`
	HeadcountLabel     string     `json:"headcount_label"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	BranchCode  *string   `json:"branch_code,omitempty"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
}

type TemplateView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	IsDefault bool      `json:"is_default"`
	UpdatedAt time.Time `json:"updated_at"`
}
