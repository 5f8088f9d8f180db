package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/orderdesk/orderdesk/internal/shared"
)

// Claims are the access-token claims. Subject carries the user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

// NewTokenIssuer constructs a token issuer.
func NewTokenIssuer(secret string, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

// Issue signs a short-lived access token for the login.
func (t *TokenIssuer) Issue(l *Login) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: l.Username,
		Role:     l.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(l.UserID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// AccessTTL reports the configured access-token lifetime.
func (t *TokenIssuer) AccessTTL() time.Duration {
	return t.accessTTL
}

// Parse verifies the token signature and expiry and returns the caller
// identity. Any failure maps to ErrUnauthorized.
func (t *TokenIssuer) Parse(tokenString string) (shared.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, shared.ErrUnauthorized
	}

	userID, _ := strconv.ParseInt(claims.Subject, 10, 64)
	return shared.Identity{UserID: userID, Username: claims.Username, Role: claims.Role}, nil
}
