package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/platform/db"
	"github.com/orderdesk/orderdesk/internal/shared"
)

type fakeRepo struct {
	nextID int64
	byName map[string]*Login
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byName: make(map[string]*Login)}
}

func (f *fakeRepo) Create(ctx context.Context, q db.Querier, username, passwordHash, role string) (int64, error) {
	if _, ok := f.byName[username]; ok {
		return 0, shared.ErrDuplicate
	}
	f.nextID++
	f.byName[username] = &Login{
		UserID:       f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedDate:  time.Now().UTC(),
	}
	return f.nextID, nil
}

func (f *fakeRepo) FindByUsername(ctx context.Context, q db.Querier, username string) (*Login, error) {
	l, ok := f.byName[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) UpdateRefreshToken(ctx context.Context, q db.Querier, userID int64, token string, expiry time.Time) error {
	for _, l := range f.byName {
		if l.UserID == userID {
			l.RefreshToken = &token
			l.RefreshTokenExpiry = &expiry
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeRepo) ClearRefreshToken(ctx context.Context, q db.Querier, userID int64) error {
	for _, l := range f.byName {
		if l.UserID == userID {
			l.RefreshToken = nil
			l.RefreshTokenExpiry = nil
		}
	}
	return nil
}

func newTestService(repo Repository) *Service {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute)
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, nil, issuer, 24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	userID, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)

	pair, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)

	identity, err := NewTokenIssuer("test-secret", 15*time.Minute).Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "admin", identity.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "whatever"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Password: "another pass"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, RefreshRequest{Username: "alice", RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The used token is spent.
	_, err = svc.Refresh(ctx, RefreshRequest{Username: "alice", RefreshToken: pair.RefreshToken})
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestRefreshExpiredToken(t *testing.T) {
	repo := newFakeRepo()
	issuer := NewTokenIssuer("test-secret", 15*time.Minute)
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, nil, issuer, -time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, RefreshRequest{Username: "alice", RefreshToken: pair.RefreshToken})
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	userID, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	pair, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, userID))

	_, err = svc.Refresh(ctx, RefreshRequest{Username: "alice", RefreshToken: pair.RefreshToken})
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestParseRejectsForgedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	forged, err := NewTokenIssuer("other-secret", time.Minute).Issue(&Login{UserID: 1, Username: "mallory"})
	require.NoError(t, err)

	_, err = issuer.Parse(forged)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue(&Login{UserID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
