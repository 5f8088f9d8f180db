package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Repository persists credential rows.
type Repository interface {
	Create(ctx context.Context, q db.Querier, username, passwordHash, role string) (int64, error)
	FindByUsername(ctx context.Context, q db.Querier, username string) (*Login, error)
	UpdateRefreshToken(ctx context.Context, q db.Querier, userID int64, token string, expiry time.Time) error
	ClearRefreshToken(ctx context.Context, q db.Querier, userID int64) error
}

type repository struct{}

// NewRepository constructs the PostgreSQL-backed credential repository.
func NewRepository() Repository {
	return repository{}
}

func (repository) Create(ctx context.Context, q db.Querier, username, passwordHash, role string) (int64, error) {
	var userID int64
	err := q.QueryRow(ctx, `
		INSERT INTO auth.logins (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING user_id`, username, passwordHash, role).
		Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, shared.ErrDuplicate
		}
		return 0, err
	}
	return userID, nil
}

func (repository) FindByUsername(ctx context.Context, q db.Querier, username string) (*Login, error) {
	var l Login
	var token pgtype.Text
	var expiry pgtype.Timestamptz
	err := q.QueryRow(ctx, `
		SELECT user_id, username, password_hash, role, refresh_token, refresh_token_expiry, created_date
		FROM auth.logins
		WHERE username = $1`, username).
		Scan(&l.UserID, &l.Username, &l.PasswordHash, &l.Role, &token, &expiry, &l.CreatedDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if token.Valid {
		l.RefreshToken = &token.String
	}
	if expiry.Valid {
		t := expiry.Time
		l.RefreshTokenExpiry = &t
	}
	return &l, nil
}

func (repository) UpdateRefreshToken(ctx context.Context, q db.Querier, userID int64, token string, expiry time.Time) error {
	tag, err := q.Exec(ctx, `
		UPDATE auth.logins SET refresh_token = $1, refresh_token_expiry = $2 WHERE user_id = $3`,
		token, expiry, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (repository) ClearRefreshToken(ctx context.Context, q db.Querier, userID int64) error {
	_, err := q.Exec(ctx, `
		UPDATE auth.logins SET refresh_token = NULL, refresh_token_expiry = NULL WHERE user_id = $1`, userID)
	return err
}
