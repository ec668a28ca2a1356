// Package database implements persistence over PostgreSQL using pgx.
//
// Queries is the low-level query layer, usable with a pool or a
// transaction. Store adapts it to the interfaces the core package
// consumes.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// same queries run inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries runs SQL against a DBTX.
type Queries struct {
	db DBTX
}

// New binds a query layer to a pool or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
