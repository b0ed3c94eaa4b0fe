package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the repositories need. pgx.Tx
// satisfies it too, so multi-statement operations can run their own
// statements through the transaction handle.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxStarter is implemented by pgxpool.Pool and lets a repository open a
// transaction when one operation has to touch several rows atomically.
type TxStarter interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}
