package driving

import (
	"context"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// AuthService handles admin authentication
type AuthService interface {
	// Authenticate validates credentials and issues a token
	Authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// ValidateToken validates a token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)
}
