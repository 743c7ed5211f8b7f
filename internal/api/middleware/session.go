package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

// CookieName is the session cookie set on login/registration.
const CookieName = "storefront_session"

// userKey is the echo context key the resolved user is stored under.
const userKey = "user"

// Session resolves the session cookie to a user and injects it into the
// request context. Requests without a cookie, or with an invalid one, pass
// through unauthenticated; the Require* middlewares decide whether that is
// acceptable for a given route. Session-store or user-store failures are
// returned to the error handler instead of downgrading the caller.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := auth.CurrentUser(c.Request().Context(), cookie.Value)
			switch {
			case err == nil:
				c.Set(userKey, user)
			case errors.Is(err, ports.ErrSessionNotFound):
				// Missing, tampered, or expired session: unauthenticated.
			default:
				// A backend failure must not masquerade as a bad session.
				return err
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests that did not resolve to a valid session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireAdmin enforces the admin role: 401 without a session, 403 with a
// non-admin one.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !user.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Session, or nil when the request
// is unauthenticated.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}
