package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTxOpen is returned by Begin when a transaction is already active.
var ErrTxOpen = errors.New("platform/db: transaction already open")

// UnitOfWork owns a single pooled connection and at most one open transaction
// for the duration of a composite operation. It must not be shared between
// concurrent operations. Close releases the connection unconditionally and
// rolls back any transaction left open, so no code path can leak a
// connection.
type UnitOfWork struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

// NewUnitOfWork acquires a connection from the pool.
func NewUnitOfWork(ctx context.Context, pool *pgxpool.Pool) (*UnitOfWork, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform/db: acquire connection: %w", err)
	}
	return &UnitOfWork{conn: conn}, nil
}

// Begin starts a new transaction on the owned connection.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxOpen
	}
	tx, err := u.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}
	u.tx = tx
	return nil
}

// Commit commits the active transaction. Committing with no transaction open
// is a caller bug and is treated as a silent no-op rather than a user-facing
// failure.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Commit(ctx)
	u.tx = nil
	if err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}
	return nil
}

// Rollback aborts the active transaction. Safe to call when no transaction is
// open, after a failed commit, or more than once.
func (u *UnitOfWork) Rollback(ctx context.Context) {
	if u.tx == nil {
		return
	}
	// pgx returns ErrTxClosed when the tx already finished; nothing to do.
	_ = u.tx.Rollback(ctx)
	u.tx = nil
}

// Close rolls back any open transaction and releases the connection.
func (u *UnitOfWork) Close(ctx context.Context) {
	u.Rollback(ctx)
	if u.conn != nil {
		u.conn.Release()
		u.conn = nil
	}
}

// Querier returns the handle repository calls should run on: the active
// transaction when one is open, the bare connection otherwise.
func (u *UnitOfWork) Querier() Querier {
	if u.tx != nil {
		return u.tx
	}
	return u.conn
}
