//go:build unit || e2e

package builder

import (
	"time"

	"coupon-manager/internal/domain/coupon"
	reqdto "coupon-manager/internal/handler/dto/request"
	"coupon-manager/internal/usecase/queries"
)

type CouponBuilder struct {
	Code                string
	Status              string
	IssuedBranchCode    string
	VerifiedBranchCode  *string
	IssuedAt            time.Time
	VerifiedAt          *time.Time
	CustomerPhone       string
	DiscountType        string
	DiscountCustomText  *string
	HeadcountType       string
	HeadcountCustomText *string
	VerifyAttemptCount  int32
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		Code:             "ABCD2345",
		Status:           "ISSUED",
		IssuedBranchCode: "GDXC",
		IssuedAt:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		CustomerPhone:    "01012345678",
		DiscountType:     "-3000",
		HeadcountType:    "2",
	}
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	return &queries.CouponView{
		Code:                b.Code,
		Status:              b.Status,
		IssuedBranchCode:    b.IssuedBranchCode,
		VerifiedBranchCode:  b.VerifiedBranchCode,
		IssuedAt:            b.IssuedAt,
		VerifiedAt:          b.VerifiedAt,
		CustomerPhone:       b.CustomerPhone,
		DiscountType:        b.DiscountType,
		DiscountCustomText:  b.DiscountCustomText,
		DiscountLabel:       coupon.DiscountLabel(b.DiscountType, b.DiscountCustomText),
		HeadcountType:       b.HeadcountType,
		HeadcountCustomText: b.HeadcountCustomText,
		HeadcountLabel:      coupon.HeadcountLabel(b.HeadcountType, b.HeadcountCustomText),
		VerifyAttemptCount:  b.VerifyAttemptCount,
	}
}

func (b *CouponBuilder) BuildIssueRequest() reqdto.IssueCouponRequest {
	req := reqdto.IssueCouponRequest{
		BranchCode:     b.IssuedBranchCode,
		BranchPassword: "48291",
		CustomerPhone:  b.CustomerPhone,
		DiscountType:   b.DiscountType,
		HeadcountType:  b.HeadcountType,
	}
	if b.DiscountCustomText != nil {
		req.DiscountCustomText = *b.DiscountCustomText
	}
	if b.HeadcountCustomText != nil {
		req.HeadcountCustomText = *b.HeadcountCustomText
	}
	return req
}

func (b *CouponBuilder) BuildVerifyRequest() reqdto.VerifyCouponRequest {
	return reqdto.VerifyCouponRequest{
		BranchCode:     b.IssuedBranchCode,
		BranchPassword: "48291",
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithStatus(status string) *CouponBuilder {
	b.Status = status
	return b
}

func (b *CouponBuilder) WithBranch(code string) *CouponBuilder {
	b.IssuedBranchCode = code
	return b
}

func (b *CouponBuilder) WithPhone(phone string) *CouponBuilder {
	b.CustomerPhone = phone
	return b
}

func (b *CouponBuilder) WithDiscount(kind string, customText *string) *CouponBuilder {
	b.DiscountType = kind
	b.DiscountCustomText = customText
	return b
}

func (b *CouponBuilder) WithHeadcount(kind string, customText *string) *CouponBuilder {
	b.HeadcountType = kind
	b.HeadcountCustomText = customText
	return b
}

func (b *CouponBuilder) WithAttempts(count int32) *CouponBuilder {
	b.VerifyAttemptCount = count
	return b
}

func (b *CouponBuilder) AsVerified(branchCode string, at time.Time) *CouponBuilder {
	b.Status = "VERIFIED"
	b.VerifiedBranchCode = &branchCode
	b.VerifiedAt = &at
	return b
}
