package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
	"github.com/theptrk/word-steno/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// defaultTokenTTL is how long issued tokens stay valid
const defaultTokenTTL = 24 * time.Hour

// authService implements the AuthService interface for the single admin
// account. Credentials come from configuration, not a user table.
type authService struct {
	adapter       driven.AuthAdapter
	adminUsername string
	adminHash     string // bcrypt hash of the admin password
	tokenTTL      time.Duration
	logger        *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(adapter driven.AuthAdapter, adminUsername, adminHash string, tokenTTL time.Duration, logger *slog.Logger) driving.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		adapter:       adapter,
		adminUsername: adminUsername,
		adminHash:     adminHash,
		tokenTTL:      tokenTTL,
		logger:        logger,
	}
}

// Authenticate validates admin credentials and issues a token
func (s *authService) Authenticate(ctx context.Context, req driving.LoginRequest) (*driving.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	// A missing hash means admin access is not configured at all.
	if s.adminHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if req.Username != s.adminUsername || !s.adapter.VerifyPassword(req.Password, s.adminHash) {
		s.logger.Warn("failed login attempt", "username", req.Username)
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	token, err := s.adapter.GenerateToken(&domain.TokenClaims{
		Subject:   req.Username,
		Role:      domain.RoleAdmin,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	})
	if err != nil {
		return nil, err
	}

	return &driving.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

// ValidateToken validates a token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	claims, err := s.adapter.ParseToken(token)
	if err != nil {
		return nil, err
	}

	if !claims.ExpiresAt.IsZero() && time.Now().After(claims.ExpiresAt) {
		return nil, domain.ErrTokenExpired
	}

	return &domain.AuthContext{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}
