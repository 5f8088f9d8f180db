package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations repositories need. It is satisfied
// by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx, so every repository call names
// the handle it runs on: the pool for standalone statements, a unit of work's
// transaction for statements that must commit or roll back together.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
