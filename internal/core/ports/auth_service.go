package ports

import (
	"context"

	"github.com/panaderia/storefront-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Username     string
	Password     string
	Role         string
	SecurityCode string
}

// AuthService establishes and verifies caller identity. Register and Login
// return the signed cookie token alongside the user so the handler can set
// the session cookie (registration auto-logs-in).
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, username, password, securityCode string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	// CurrentUser resolves a cookie token to the session's user, or
	// ErrSessionNotFound when the token is missing, tampered, or expired.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	// ChangePassword verifies the current password before storing the new hash.
	ChangePassword(ctx context.Context, token, current, next string) error
}
