package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"coupon-manager/internal/domain/branch"
	"coupon-manager/internal/domain/coupon"
	"coupon-manager/internal/domain/user"
	reqdto "coupon-manager/internal/handler/dto/request"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/clock"
	"coupon-manager/internal/pkg/errs"
	"coupon-manager/internal/pkg/lockout"
	"coupon-manager/internal/usecase/queries"
)

var (
	ErrValidation            = errs.New("validation error")
	ErrBranchUnknown         = errs.New("unknown branch")
	ErrBranchNotAllowed      = errs.New("branch not allowed for user")
	ErrInvalidBranchPassword = errs.New("invalid branch password")
	ErrCouponNotFound        = errs.New("coupon not found")
	ErrAlreadyProcessed      = errs.New("coupon already processed")
	ErrVerificationLocked    = errs.New("verification locked")
	ErrCodeGeneration        = errs.New("coupon code generation failed")
)

// issueAttempts bounds the generate-and-insert retry loop. With a
// 32^8 code space a second collision in a row is effectively a sign
// something else is wrong, so three tries is plenty.
const issueAttempts = 3

// scanMetaLimit caps how much raw scanner payload lands in the audit
// log.
const scanMetaLimit = 256

// LockedError carries how long the caller has to wait. It matches
// ErrVerificationLocked under errors.Is.
type LockedError struct {
	RemainingSeconds int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("verification locked for %d seconds", e.RemainingSeconds)
}

func (e *LockedError) Is(target error) bool {
	return target == ErrVerificationLocked
}

// ScanResult is what a scanner gets back: the normalized code to
// prefill, plus the coupon when it is already known.
type ScanResult struct {
	Code   string
	Coupon *queries.CouponView
}

type CouponCommands interface {
	Issue(ctx context.Context, actor Actor, req reqdto.IssueCouponRequest) (*queries.CouponView, error)
	Verify(ctx context.Context, actor Actor, rawCode string, req reqdto.VerifyCouponRequest) (*queries.CouponView, error)
	RecordScan(ctx context.Context, actor Actor, raw string) (*ScanResult, error)
}

type couponCommandsImpl struct {
	couponRepo CouponRepository
	eventRepo  EventRepository
	userRepo   UserRepository
	branches   *branch.Directory
	lockouts   *lockout.Store
	notifier   Notifier
	clock      clock.Clock
}

func NewCouponCommands(
	couponRepo CouponRepository,
	eventRepo EventRepository,
	userRepo UserRepository,
	branches *branch.Directory,
	lockouts *lockout.Store,
	notifier Notifier,
	clock clock.Clock,
) CouponCommands {
	return &couponCommandsImpl{
		couponRepo: couponRepo,
		eventRepo:  eventRepo,
		userRepo:   userRepo,
		branches:   branches,
		lockouts:   lockouts,
		notifier:   notifier,
		clock:      clock,
	}
}

func (u *couponCommandsImpl) Issue(ctx context.Context, actor Actor, req reqdto.IssueCouponRequest) (*queries.CouponView, error) {
	branchCode, err := u.resolveBranch(ctx, actor, req.BranchCode)
	if err != nil {
		return nil, err
	}

	// Wrong password at issuance leaves no trace: no row, no event,
	// no attempt counter to bump.
	if err := u.branches.Verify(branchCode, req.BranchPassword); err != nil {
		return nil, ErrInvalidBranchPassword
	}

	phone, err := coupon.NewPhone(req.CustomerPhone)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	discount, err := req.Discount()
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	headcount, err := req.Headcount()
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	view, err := u.insertWithRetry(ctx, branchCode, phone, discount, headcount)
	if err != nil {
		return nil, err
	}

	u.appendEvent(ctx, Event{
		CouponCode: view.Code,
		Type:       coupon.EventIssue,
		BranchCode: strPtr(branchCode.String()),
		ActorID:    &actor.ID,
		Meta: map[string]any{
			"discount_type":  discount.Kind(),
			"headcount_type": headcount.Kind(),
		},
	})

	u.notifier.CouponIssued(ctx, view)

	return view, nil
}

// insertWithRetry regenerates the code on unique-key collisions; any
// other failure aborts immediately.
func (u *couponCommandsImpl) insertWithRetry(
	ctx context.Context,
	branchCode branch.Code,
	phone coupon.Phone,
	discount coupon.Discount,
	headcount coupon.Headcount,
) (*queries.CouponView, error) {
	var lastErr error
	for range issueAttempts {
		code, err := coupon.GenerateCode()
		if err != nil {
			return nil, errs.Mark(err, ErrCodeGeneration)
		}

		entity := coupon.NewIssued(code, branchCode.String(), phone, discount, headcount)
		view, err := u.couponRepo.Insert(ctx, entity)
		if err == nil {
			return view, nil
		}
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, err
		}
		slog.Warn("coupon code collision, regenerating", "branch", branchCode.String())
		lastErr = err
	}
	return nil, errs.Mark(lastErr, ErrCodeGeneration)
}

func (u *couponCommandsImpl) Verify(ctx context.Context, actor Actor, rawCode string, req reqdto.VerifyCouponRequest) (*queries.CouponView, error) {
	code := coupon.NormalizeCode(rawCode)
	if code == "" {
		return nil, ErrCouponNotFound
	}
	branchCode, err := u.resolveBranch(ctx, actor, req.BranchCode)
	if err != nil {
		return nil, err
	}

	view, err := u.findCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.Status(view.Status).CanVerify() {
		return nil, ErrAlreadyProcessed
	}

	now := u.clock.Now()
	if status := u.lockouts.Check(code, branchCode.String(), now); status.Locked {
		return nil, &LockedError{RemainingSeconds: status.RemainingSeconds}
	}

	if err := u.branches.Verify(branchCode, req.BranchPassword); err != nil {
		return nil, u.handleFailedAttempt(ctx, view, branchCode)
	}

	applied, err := u.couponRepo.MarkVerified(ctx, code, branchCode.String(), now)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race against a concurrent verification.
		return nil, ErrAlreadyProcessed
	}

	u.appendEvent(ctx, Event{
		CouponCode: code,
		Type:       coupon.EventVerifySuccess,
		BranchCode: strPtr(branchCode.String()),
		ActorID:    &actor.ID,
	})

	verified, err := u.findCoupon(ctx, code)
	if err != nil {
		return nil, err
	}

	u.notifier.CouponVerified(ctx, verified)

	return verified, nil
}

// handleFailedAttempt bumps the persistent counter, records the audit
// event, and arms the in-memory lock on every failure once the counter
// reaches lockout.Threshold: after a lock expires a single wrong guess
// locks again. The caller always gets ErrInvalidBranchPassword back;
// lock state is only reported on the next attempt.
func (u *couponCommandsImpl) handleFailedAttempt(ctx context.Context, view *queries.CouponView, branchCode branch.Code) error {
	at := u.clock.Now()
	count, err := u.couponRepo.RecordFailedAttempt(ctx, view.Code, at)
	if err != nil {
		slog.Warn("failed to record verify attempt", "coupon_code", view.Code, "error", err.Error())
		count = view.VerifyAttemptCount + 1
	}

	u.appendEvent(ctx, Event{
		CouponCode: view.Code,
		Type:       coupon.EventVerifyFail,
		BranchCode: strPtr(branchCode.String()),
		Meta: map[string]any{
			"reason":        "WRONG_PASSWORD",
			"attempt_count": count,
		},
	})

	if count >= lockout.Threshold {
		u.lockouts.Lock(view.Code, branchCode.String(), at)
	}

	return ErrInvalidBranchPassword
}

func (u *couponCommandsImpl) RecordScan(ctx context.Context, actor Actor, raw string) (*ScanResult, error) {
	code := ExtractCode(raw)
	if code == "" {
		return nil, errs.Mark(coupon.ErrInvalidCode, ErrValidation)
	}

	meta := map[string]any{}
	if trimmed := strings.TrimSpace(raw); trimmed != code {
		if len(trimmed) > scanMetaLimit {
			trimmed = trimmed[:scanMetaLimit]
		}
		meta["raw"] = trimmed
	}

	u.appendEvent(ctx, Event{
		CouponCode: code,
		Type:       coupon.EventScan,
		ActorID:    &actor.ID,
		Meta:       meta,
	})

	result := &ScanResult{Code: code}
	view, err := u.couponRepo.FindByCode(ctx, code)
	switch {
	case err == nil:
		result.Coupon = view
	case infra.IsKind(err, infra.KindNotFound):
		// A scan of a not-yet-known code is still worth recording.
	default:
		return nil, err
	}
	return result, nil
}

// resolveBranch validates the requested branch and enforces that staff
// only act for the branch on their profile. Admins may act for any
// known branch.
func (u *couponCommandsImpl) resolveBranch(ctx context.Context, actor Actor, requested string) (branch.Code, error) {
	branchCode := branch.Code(strings.ToUpper(strings.TrimSpace(requested)))
	if !u.branches.Knows(branchCode) {
		return "", ErrBranchUnknown
	}

	if user.Role(actor.Role).IsAdmin() {
		return branchCode, nil
	}

	profile, err := u.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return "", err
	}
	if profile.BranchCode == nil || branch.Code(*profile.BranchCode) != branchCode {
		return "", ErrBranchNotAllowed
	}
	return branchCode, nil
}

func (u *couponCommandsImpl) findCoupon(ctx context.Context, code string) (*queries.CouponView, error) {
	view, err := u.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return view, nil
}

// appendEvent is best-effort: the audit trail must never fail the
// operation it describes.
func (u *couponCommandsImpl) appendEvent(ctx context.Context, ev Event) {
	if err := u.eventRepo.Append(ctx, ev); err != nil {
		slog.Warn("failed to append coupon event",
			"coupon_code", ev.CouponCode,
			"event_type", ev.Type.String(),
			"error", err.Error(),
		)
	}
}

// ExtractCode pulls a coupon code out of a raw scanner payload. The
// payload is either the code itself or a URL whose last path segment
// (or "code" query parameter) is the code.
func ExtractCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "://") {
		if parsed, err := url.Parse(raw); err == nil {
			if q := parsed.Query().Get("code"); q != "" {
				raw = q
			} else if segments := strings.Split(strings.Trim(parsed.Path, "/"), "/"); len(segments) > 0 {
				raw = segments[len(segments)-1]
			}
		}
	}

	normalized := coupon.NormalizeCode(raw)
	if _, err := coupon.NewCode(normalized); err != nil {
		return ""
	}
	return normalized
}

func strPtr(s string) *string {
	return &s
}
