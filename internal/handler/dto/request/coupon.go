package request

import (
	"coupon-manager/internal/domain/coupon"
)

type IssueCouponRequest struct {
	BranchCode          string `json:"branch_code" binding:"required"`
	BranchPassword      string `json:"branch_password" binding:"required"`
	CustomerPhone       string `json:"customer_phone" binding:"required"`
	DiscountType        string `json:"discount_type" binding:"required"`
	DiscountCustomText  string `json:"discount_custom_text"`
	HeadcountType       string `json:"headcount_type" binding:"required"`
	HeadcountCustomText string `json:"headcount_custom_text"`
}

func (r IssueCouponRequest) Discount() (coupon.Discount, error) {
	return coupon.NewDiscount(r.DiscountType, r.DiscountCustomText)
}

func (r IssueCouponRequest) Headcount() (coupon.Headcount, error) {
	return coupon.NewHeadcount(r.HeadcountType, r.HeadcountCustomText)
}

type VerifyCouponRequest struct {
	BranchCode     string `json:"branch_code" binding:"required"`
	BranchPassword string `json:"branch_password" binding:"required"`
}

// ScanCouponRequest carries the raw scanner payload, which may be a
// bare code or a URL with the code embedded.
type ScanCouponRequest struct {
	Raw string `json:"raw" binding:"required"`
}
