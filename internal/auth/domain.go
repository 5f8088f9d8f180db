// Package auth implements the login boundary: password credentials, JWT
// access tokens and rotated refresh tokens persisted on the login row.
package auth

import "time"

// Login is a credential row. RefreshToken and its expiry are nil until the
// user logs in; Logout clears them again.
type Login struct {
	UserID             int64
	Username           string
	PasswordHash       string
	Role               string
	RefreshToken       *string
	RefreshTokenExpiry *time.Time
	CreatedDate        time.Time
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
