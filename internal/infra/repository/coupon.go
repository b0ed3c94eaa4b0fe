package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"coupon-manager/internal/domain/coupon"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/pgconv"
	"coupon-manager/internal/usecase/queries"
)

const couponColumns = `coupon_code, status, issued_branch_code, verified_branch_code,
	issued_at, verified_at, customer_phone,
	discount_type, discount_custom_text, headcount_type, headcount_custom_text,
	verify_attempt_count, last_verify_attempt_at`

type CouponRepository struct {
	db DBTX
}

func NewCouponRepository(db DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Insert(ctx context.Context, c *coupon.Coupon) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO coupons (
			coupon_code, status, issued_branch_code, customer_phone,
			discount_type, discount_custom_text, headcount_type, headcount_custom_text
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+couponColumns,
		c.Code().String(),
		c.Status().String(),
		c.IssuedBranch(),
		c.CustomerPhone().Digits(),
		c.Discount().Kind(),
		pgconv.StringPtrToPgtype(c.Discount().CustomText()),
		c.Headcount().Kind(),
		pgconv.StringPtrToPgtype(c.Headcount().CustomText()),
	)

	view, err := scanCouponView(row)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return nil, infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to insert coupon", err)
	}
	return view, nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE coupon_code = $1`,
		code,
	)

	view, err := scanCouponView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return view, nil
}

func (r *CouponRepository) RecordFailedAttempt(ctx context.Context, code string, at time.Time) (int32, error) {
	var count int32
	err := r.db.QueryRow(ctx, `
		UPDATE coupons
		SET verify_attempt_count = verify_attempt_count + 1,
		    last_verify_attempt_at = $2
		WHERE coupon_code = $1
		RETURNING verify_attempt_count`,
		code,
		pgconv.TimeToPgtype(at),
	).Scan(&count)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to record verify attempt", err)
	}
	return count, nil
}

func (r *CouponRepository) MarkVerified(ctx context.Context, code string, branchCode string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET status = $2,
		    verified_branch_code = $3,
		    verified_at = $4
		WHERE coupon_code = $1 AND status = $5`,
		code,
		coupon.StatusVerified.String(),
		branchCode,
		pgconv.TimeToPgtype(at),
		coupon.StatusIssued.String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark coupon verified", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CouponRepository) FindRecent(ctx context.Context, filter queries.CouponListFilter) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE ($1 = '' OR issued_branch_code = $1 OR verified_branch_code = $1)
		  AND ($2 = '' OR customer_phone LIKE '%' || $2 || '%')
		ORDER BY issued_at DESC
		LIMIT $3`,
		filter.BranchCode,
		filter.PhoneDigits,
		filter.Limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var views []*queries.CouponView
	for rows.Next() {
		view, err := scanCouponView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon rows", err)
	}
	return views, nil
}

func scanCouponView(row pgx.Row) (*queries.CouponView, error) {
	var (
		view                queries.CouponView
		verifiedBranch      pgtype.Text
		issuedAt            pgtype.Timestamptz
		verifiedAt          pgtype.Timestamptz
		discountCustomText  pgtype.Text
		headcountCustomText pgtype.Text
		lastVerifyAttemptAt pgtype.Timestamptz
	)

	err := row.Scan(
		&view.Code,
		&view.Status,
		&view.IssuedBranchCode,
		&verifiedBranch,
		&issuedAt,
		&verifiedAt,
		&view.CustomerPhone,
		&view.DiscountType,
		&discountCustomText,
		&view.HeadcountType,
		&headcountCustomText,
		&view.VerifyAttemptCount,
		&lastVerifyAttemptAt,
	)
	if err != nil {
		return nil, err
	}

	view.VerifiedBranchCode = pgconv.StringPtrFromPgtype(verifiedBranch)
	view.IssuedAt = pgconv.TimeFromPgtype(issuedAt)
	view.VerifiedAt = pgconv.TimePtrFromPgtype(verifiedAt)
	view.DiscountCustomText = pgconv.StringPtrFromPgtype(discountCustomText)
	view.HeadcountCustomText = pgconv.StringPtrFromPgtype(headcountCustomText)
	view.LastVerifyAttemptAt = pgconv.TimePtrFromPgtype(lastVerifyAttemptAt)

	view.DiscountLabel = coupon.DiscountLabel(view.DiscountType, view.DiscountCustomText)
	view.HeadcountLabel = coupon.HeadcountLabel(view.HeadcountType, view.HeadcountCustomText)

	return &view, nil
}
