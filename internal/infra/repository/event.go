package repository

import (
	"context"
	"encoding/json"

	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/pgconv"
	"coupon-manager/internal/usecase/commands"
)

// EventRepository appends to the coupon_events audit log. Rows are
// never updated or deleted.
type EventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Append(ctx context.Context, ev commands.Event) error {
	meta := []byte("{}")
	if len(ev.Meta) > 0 {
		encoded, err := json.Marshal(ev.Meta)
		if err != nil {
			return infra.WrapRepoErr("failed to encode event meta", err)
		}
		meta = encoded
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO coupon_events (coupon_code, event_type, branch_code, actor_user_id, meta)
		VALUES ($1, $2, $3, $4, $5)`,
		ev.CouponCode,
		ev.Type.String(),
		pgconv.StringPtrToPgtype(ev.BranchCode),
		ev.ActorID,
		meta,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append coupon event", err)
	}
	return nil
}
