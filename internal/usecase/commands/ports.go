package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coupon-manager/internal/domain/coupon"
	"coupon-manager/internal/usecase/queries"
)

// Actor is the authenticated operator performing a command, as resolved
// by the auth middleware.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Event is one append-only audit record. BranchCode is nil for SCAN
// events recorded before a branch is chosen.
type Event struct {
	CouponCode string
	Type       coupon.EventType
	BranchCode *string
	ActorID    *uuid.UUID
	Meta       map[string]any
}

type CouponRepository interface {
	// Insert persists a freshly issued coupon. A code collision
	// surfaces as infra.KindDuplicateKey.
	Insert(ctx context.Context, c *coupon.Coupon) (*queries.CouponView, error)
	FindByCode(ctx context.Context, code string) (*queries.CouponView, error)
	// RecordFailedAttempt bumps verify_attempt_count and stamps
	// last_verify_attempt_at, returning the new count.
	RecordFailedAttempt(ctx context.Context, code string, at time.Time) (int32, error)
	// MarkVerified performs the conditional ISSUED -> VERIFIED update.
	// It reports false when no row matched, meaning a concurrent
	// request won the race.
	MarkVerified(ctx context.Context, code string, branchCode string, at time.Time) (bool, error)
}

type EventRepository interface {
	Append(ctx context.Context, ev Event) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// Notifier dispatches customer SMS through the gateway deployable.
// Both calls are best-effort; delivery failure never rolls back the
// coupon transition that triggered it.
type Notifier interface {
	CouponIssued(ctx context.Context, view *queries.CouponView)
	CouponVerified(ctx context.Context, view *queries.CouponView)
}
