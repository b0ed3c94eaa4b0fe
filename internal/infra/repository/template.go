package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"coupon-manager/internal/domain/template"
	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/pgconv"
	"coupon-manager/internal/usecase/queries"
)

const templateColumns = `id, name, type, content, is_default, updated_at`

// TemplateRepository persists SMS templates. The single-default-per-type
// rule is backed by a partial unique index, so the multi-statement
// operations here run inside a transaction.
type TemplateRepository struct {
	db TxStarter
}

func NewTemplateRepository(db TxStarter) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Insert(ctx context.Context, t *template.Template, makeDefault bool) (*queries.TemplateView, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if makeDefault {
		if err := clearDefault(ctx, tx, t.Kind().String(), uuid.Nil); err != nil {
			return nil, err
		}
	}

	// The first template of a type is always the default so rendering
	// never has to deal with a type that has templates but no default.
	row := tx.QueryRow(ctx, `
		INSERT INTO sms_templates (id, name, type, content, is_default)
		VALUES ($1, $2, $3, $4,
			$5 OR NOT EXISTS (SELECT 1 FROM sms_templates WHERE type = $3 AND is_default))
		RETURNING `+templateColumns,
		t.ID(), t.Name(), t.Kind().String(), t.Content(), makeDefault,
	)
	view, err := scanTemplateView(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to insert template", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, infra.WrapRepoErr("failed to commit transaction", err)
	}
	return view, nil
}

func (r *TemplateRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*queries.TemplateView, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE sms_templates
		SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+templateColumns,
		id, content,
	)
	view, err := scanTemplateView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("template not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to update template content", err)
	}
	return view, nil
}

func (r *TemplateRepository) SetDefault(ctx context.Context, id uuid.UUID) (*queries.TemplateView, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var kind string
	err = tx.QueryRow(ctx, `SELECT type FROM sms_templates WHERE id = $1 FOR UPDATE`, id).Scan(&kind)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("template not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load template", err)
	}

	if err := clearDefault(ctx, tx, kind, id); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE sms_templates
		SET is_default = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING `+templateColumns,
		id,
	)
	view, err := scanTemplateView(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to set default template", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, infra.WrapRepoErr("failed to commit transaction", err)
	}
	return view, nil
}

func (r *TemplateRepository) FindAll(ctx context.Context) ([]*queries.TemplateView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+templateColumns+`
		FROM sms_templates
		ORDER BY type, name`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list templates", err)
	}
	defer rows.Close()

	var views []*queries.TemplateView
	for rows.Next() {
		view, err := scanTemplateView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan template row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate template rows", err)
	}
	return views, nil
}

func (r *TemplateRepository) FindDefaultByType(ctx context.Context, kind string) (*queries.TemplateView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM sms_templates
		WHERE type = $1 AND is_default`,
		kind,
	)
	view, err := scanTemplateView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("default template not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find default template", err)
	}
	return view, nil
}

func clearDefault(ctx context.Context, tx pgx.Tx, kind string, keep uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE sms_templates
		SET is_default = FALSE
		WHERE type = $1 AND is_default AND id <> $2`,
		kind, keep,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to clear default template", err)
	}
	return nil
}

func scanTemplateView(row pgx.Row) (*queries.TemplateView, error) {
	var view queries.TemplateView
	err := row.Scan(&view.ID, &view.Name, &view.Type, &view.Content, &view.IsDefault, &view.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
