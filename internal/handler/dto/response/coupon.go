package response

import "coupon-manager/internal/usecase/queries"

type ScanResponse struct {
	Code   string              `json:"code"`
	Coupon *queries.CouponView `json:"coupon,omitempty"`
}

type CouponListResponse struct {
	Items []*queries.CouponListItem `json:"items"`
}
