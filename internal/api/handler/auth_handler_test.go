package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/panaderia/storefront-api/internal/api/middleware"
	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error)
	loginFn          func(ctx context.Context, username, password, securityCode string) (string, *domain.User, error)
	logoutFn         func(ctx context.Context, token string) error
	changePasswordFn func(ctx context.Context, token, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, username, password, securityCode string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password, securityCode)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) CurrentUser(context.Context, string) (*domain.User, error) {
	return nil, ports.ErrSessionNotFound
}

func (s *stubAuthService) ChangePassword(ctx context.Context, token, current, next string) error {
	return s.changePasswordFn(ctx, token, current, next)
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (string, *domain.User, error) {
			if input.Username != "alice" || input.Role != "" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return "token123", &domain.User{ID: 1, Username: "alice", Role: domain.RoleCustomer}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/register",
		`{"username":"alice","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	cookie := sessionCookie(rec.Result())
	if cookie == nil || cookie.Value != "token123" {
		t.Fatalf("expected session cookie to be set, got %+v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != "customer" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	// The hash and security code must never appear in responses.
	if _, ok := resp["password"]; ok {
		t.Fatalf("password leaked into response")
	}
	if _, ok := resp["security_code"]; ok {
		t.Fatalf("security code leaked into response")
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("service should not be called")
			return "", nil, nil
		},
	}, false)

	c, _ := newTestContext(t, http.MethodPost, "/api/register",
		`{"username":"alice","password":"tiny"}`)
	if code := httpCode(t, h.Register(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password, securityCode string) (string, *domain.User, error) {
			if username != "admin" || securityCode != "CODE123" {
				t.Fatalf("unexpected args: %s %s", username, securityCode)
			}
			return "token456", &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/login",
		`{"username":"admin","password":"adminpass","security_code":"CODE123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cookie := sessionCookie(rec.Result()); cookie == nil || cookie.Value != "token456" {
		t.Fatalf("expected session cookie, got %+v", cookie)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/login",
		`{"username":"alice","password":"wrong"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
	if cookie := sessionCookie(rec.Result()); cookie != nil {
		t.Fatalf("no cookie should be set on failed login")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	called := false
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			called = true
			if token != "token123" {
				t.Fatalf("unexpected token %q", token)
			}
			return nil
		},
	}, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "token123"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("expected session destruction")
	}

	cookie := sessionCookie(rec.Result())
	if cookie == nil || cookie.Value != "" || cookie.MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got %+v", cookie)
	}
}

func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(context.Context, string) error {
			t.Fatalf("logout should not be called without a cookie")
			return nil
		},
	}, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newTestContext(t, http.MethodGet, "/api/user", "")
	if code := httpCode(t, h.Me(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, rec := newTestContext(t, http.MethodGet, "/api/user", "")
	c.Set("user", &domain.User{ID: 1, Username: "alice", Role: domain.RoleCustomer})
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		changePasswordFn: func(_ context.Context, token, current, next string) error {
			if token != "token123" || current != "oldpass" || next != "newpass" {
				t.Fatalf("unexpected args: %s %s %s", token, current, next)
			}
			return nil
		},
	}, false)

	c, rec := newTestContext(t, http.MethodPost, "/api/user/password",
		`{"current_password":"oldpass","new_password":"newpass"}`)
	c.Request().AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "token123"})
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_NoSession(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newTestContext(t, http.MethodPost, "/api/user/password",
		`{"current_password":"oldpass","new_password":"newpass"}`)
	if code := httpCode(t, h.ChangePassword(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
