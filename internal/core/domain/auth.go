package domain

import "time"

// Role describes what a caller is allowed to do.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// TokenClaims are the validated contents of an access token.
type TokenClaims struct {
	Subject   string    `json:"sub"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// AuthContext carries the authenticated caller through a request.
type AuthContext struct {
	Subject string
	Role    Role
}

// IsAdmin reports whether the caller may perform mutating operations.
func (a *AuthContext) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
