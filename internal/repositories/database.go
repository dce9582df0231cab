package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the query surface repositories run against. It is satisfied by
// *pgxpool.Pool, pgx.Tx, and pgxmock.PgxPoolIface, which lets a repository be
// re-bound to an open transaction via WithTx.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxDatabase additionally opens transactions. Services that mutate multiple
// rows atomically hold one of these.
type TxDatabase interface {
	Database
	Begin(ctx context.Context) (pgx.Tx, error)
}
