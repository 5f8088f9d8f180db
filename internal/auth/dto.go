package auth

// RegisterRequest creates a credential row.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh token into a new token pair.
type RefreshRequest struct {
	Username     string `json:"username" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}
