package queries

import (
	"context"

	"coupon-manager/internal/domain/coupon"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/errs"
)

var ErrCouponNotFound = errs.New("coupon not found")

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// CouponListFilter narrows the issuance-history list. BranchCode
// matches either the issuing or the verifying branch, mirroring the
// branch tab on the history screen. PhoneDigits is a digits-only
// substring match.
type CouponListFilter struct {
	BranchCode  string
	PhoneDigits string
	Limit       int
}

type CouponQueries interface {
	GetByCode(ctx context.Context, rawCode string) (*CouponView, error)
	ListRecent(ctx context.Context, filter CouponListFilter) ([]*CouponListItem, error)
}

type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*CouponView, error)
	FindRecent(ctx context.Context, filter CouponListFilter) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{readStore: readStore}
}

func (q *couponQueriesImpl) GetByCode(ctx context.Context, rawCode string) (*CouponView, error) {
	code := coupon.NormalizeCode(rawCode)
	if code == "" {
		return nil, ErrCouponNotFound
	}

	view, err := q.readStore.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *couponQueriesImpl) ListRecent(ctx context.Context, filter CouponListFilter) ([]*CouponListItem, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	views, err := q.readStore.FindRecent(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*CouponListItem, 0, len(views))
	for _, v := range views {
		items = append(items, toListItem(v))
	}
	return items, nil
}

func toListItem(v *CouponView) *CouponListItem {
	masked := v.CustomerPhone
	if phone, err := coupon.NewPhone(v.CustomerPhone); err == nil {
		masked = phone.Masked()
	}
	return &CouponListItem{
		Code:               v.Code,
		Status:             v.Status,
		IssuedBranchCode:   v.IssuedBranchCode,
		VerifiedBranchCode: v.VerifiedBranchCode,
		IssuedAt:           v.IssuedAt,
		VerifiedAt:         v.VerifiedAt,
		MaskedPhone:        masked,
		DiscountLabel:      v.DiscountLabel,
		HeadcountLabel:     v.HeadcountLabel,
	}
}
