package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/orderdesk/internal/shared"
)

// Service implements register/login/refresh/logout.
type Service struct {
	logger     *slog.Logger
	repo       Repository
	pool       *pgxpool.Pool
	issuer     *TokenIssuer
	refreshTTL time.Duration
}

// NewService constructs the auth service.
func NewService(logger *slog.Logger, repo Repository, pool *pgxpool.Pool, issuer *TokenIssuer, refreshTTL time.Duration) *Service {
	return &Service{logger: logger, repo: repo, pool: pool, issuer: issuer, refreshTTL: refreshTTL}
}

// Register creates a credential row with a bcrypt password hash. The role
// defaults to staff.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	role := req.Role
	if role == "" {
		role = "staff"
	}

	userID, err := s.repo.Create(ctx, s.pool, req.Username, string(hash), role)
	if err != nil {
		s.logger.Warn("register failed", slog.String("username", req.Username), slog.Any("error", err))
		return 0, err
	}
	s.logger.Info("user registered", slog.String("username", req.Username), slog.Int64("user_id", userID))
	return userID, nil
}

// Login verifies the password and issues an access token plus a fresh
// refresh token persisted on the row. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (TokenPair, error) {
	login, err := s.repo.FindByUsername(ctx, s.pool, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, shared.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(login.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("login rejected", slog.String("username", req.Username))
		return TokenPair{}, shared.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, login)
	if err != nil {
		return TokenPair{}, err
	}
	s.logger.Info("login succeeded", slog.String("username", req.Username))
	return pair, nil
}

// Refresh validates the stored refresh token and rotates it. A used, expired
// or cleared token cannot be replayed.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (TokenPair, error) {
	login, err := s.repo.FindByUsername(ctx, s.pool, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, shared.ErrUnauthorized
		}
		return TokenPair{}, err
	}
	if login.RefreshToken == nil || login.RefreshTokenExpiry == nil ||
		*login.RefreshToken != req.RefreshToken ||
		time.Now().UTC().After(*login.RefreshTokenExpiry) {
		s.logger.Warn("refresh rejected", slog.String("username", req.Username))
		return TokenPair{}, shared.ErrUnauthorized
	}

	return s.issueTokens(ctx, login)
}

// Logout clears the refresh token so it cannot be used again. Access tokens
// expire on their own.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.repo.ClearRefreshToken(ctx, s.pool, userID)
}

func (s *Service) issueTokens(ctx context.Context, login *Login) (TokenPair, error) {
	access, err := s.issuer.Issue(login)
	if err != nil {
		return TokenPair{}, err
	}
	refresh := uuid.NewString()
	expiry := time.Now().UTC().Add(s.refreshTTL)
	if err := s.repo.UpdateRefreshToken(ctx, s.pool, login.UserID, refresh, expiry); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.issuer.AccessTTL().Seconds()),
	}, nil
}
