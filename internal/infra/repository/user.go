package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"coupon-manager/internal/infra"
	"coupon-manager/internal/pkg/pgconv"
	"coupon-manager/internal/usecase/queries"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, display_name, branch_code, role, is_active
		FROM users
		WHERE email = $1`,
		email,
	)

	view, passwordHash, err := scanUserWithHash(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return view, passwordHash, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, display_name, branch_code, role, is_active
		FROM users
		WHERE id = $1`,
		id,
	)

	var (
		view       queries.AuthorizedUserView
		branchCode pgtype.Text
	)
	err := row.Scan(&view.ID, &view.Email, &view.DisplayName, &branchCode, &view.Role, &view.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	view.BranchCode = pgconv.StringPtrFromPgtype(branchCode)
	return &view, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}

func scanUserWithHash(row pgx.Row) (*queries.AuthorizedUserView, string, error) {
	var (
		view         queries.AuthorizedUserView
		passwordHash string
		branchCode   pgtype.Text
	)
	err := row.Scan(&view.ID, &view.Email, &passwordHash, &view.DisplayName, &branchCode, &view.Role, &view.IsActive)
	if err != nil {
		return nil, "", err
	}
	view.BranchCode = pgconv.StringPtrFromPgtype(branchCode)
	return &view, passwordHash, nil
}
