package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven/mocks"
	"github.com/theptrk/word-steno/internal/core/ports/driving"
)

func newTestAuthService(ttl time.Duration) driving.AuthService {
	// The mock adapter compares passwords as plain text, so the "hash" is
	// the password itself.
	return NewAuthService(mocks.NewMockAuthAdapter(), "admin", "s3cret", ttl, nil)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc := newTestAuthService(0)

	resp, err := svc.Authenticate(context.Background(), driving.LoginRequest{
		Username: "admin",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresIn, 0)

	authCtx, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.True(t, authCtx.IsAdmin())
	assert.Equal(t, "admin", authCtx.Subject)
}

func TestAuthService_BadCredentials(t *testing.T) {
	svc := newTestAuthService(0)

	cases := []driving.LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "intruder", Password: "s3cret"},
	}
	for _, req := range cases {
		_, err := svc.Authenticate(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "username %s", req.Username)
	}

	_, err := svc.Authenticate(context.Background(), driving.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_NoAdminConfigured(t *testing.T) {
	svc := NewAuthService(mocks.NewMockAuthAdapter(), "", "", 0, nil)

	_, err := svc.Authenticate(context.Background(), driving.LoginRequest{Username: "admin", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	svc := newTestAuthService(time.Millisecond)

	resp, err := svc.Authenticate(context.Background(), driving.LoginRequest{
		Username: "admin",
		Password: "s3cret",
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestAuthService_GarbageToken(t *testing.T) {
	svc := newTestAuthService(0)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
