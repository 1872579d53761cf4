package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theptrk/word-steno/internal/core/domain"
)

func okHandler(captured **domain.AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = GetAuthContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_MissingToken(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("GET", "/api/v1/clips", nil)
	rr := httptest.NewRecorder()

	m.Authenticate(okHandler(nil)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			return nil, domain.ErrTokenInvalid
		},
	})

	req := httptest.NewRequest("GET", "/api/v1/clips", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()

	m.Authenticate(okHandler(nil)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			return nil, domain.ErrTokenExpired
		},
	})

	req := httptest.NewRequest("GET", "/api/v1/clips", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rr := httptest.NewRecorder()

	m.Authenticate(okHandler(nil)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			if token != "valid-token" {
				t.Errorf("unexpected token: %s", token)
			}
			return &domain.AuthContext{Subject: "admin", Role: domain.RoleAdmin}, nil
		},
	})

	var captured *domain.AuthContext
	req := httptest.NewRequest("GET", "/api/v1/clips", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rr := httptest.NewRecorder()

	m.Authenticate(okHandler(&captured)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured == nil || captured.Subject != "admin" {
		t.Errorf("expected auth context in request, got %+v", captured)
	}
}

func TestRequireAdmin_NoAuthContext(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("DELETE", "/api/v1/clips/c1", nil)
	rr := httptest.NewRecorder()

	m.RequireAdmin(okHandler(nil)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestRequireAdmin_Viewer(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("DELETE", "/api/v1/clips/c1", nil)
	ctx := context.WithValue(req.Context(), authContextKey, &domain.AuthContext{
		Subject: "viewer",
		Role:    domain.RoleViewer,
	})
	rr := httptest.NewRecorder()

	m.RequireAdmin(okHandler(nil)).ServeHTTP(rr, req.WithContext(ctx))

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("DELETE", "/api/v1/clips/c1", nil)
	ctx := context.WithValue(req.Context(), authContextKey, &domain.AuthContext{
		Subject: "admin",
		Role:    domain.RoleAdmin,
	})
	rr := httptest.NewRecorder()

	m.RequireAdmin(okHandler(nil)).ServeHTTP(rr, req.WithContext(ctx))

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := extractBearerToken(req); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
