package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/panaderia/storefront-api/internal/core/domain"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

// adminUsername is the literal login name that triggers the extra security
// code gate on top of normal password auth.
const adminUsername = "admin"

// AuthService implements registration, login, and session resolution. The
// cookie token is an HS256 JWT whose sid claim carries the opaque session id;
// the session record itself lives server-side in the SessionStore.
type AuthService struct {
	store         ports.Store
	sessions      ports.SessionStore
	sessionSecret string
	securityCode  string
	logger        zerolog.Logger
}

func NewAuthService(store ports.Store, sessions ports.SessionStore, sessionSecret, securityCode string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:         store,
		sessions:      sessions,
		sessionSecret: sessionSecret,
		securityCode:  securityCode,
		logger:        logger,
	}
}

// Register creates an account and auto-logs it in. Requesting the admin role,
// or supplying any security code at all, requires the code to match the
// configured shared secret.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RoleAdmin {
		return "", nil, domain.ErrInvalidCredentials
	}

	if role == domain.RoleAdmin || input.SecurityCode != "" {
		if input.SecurityCode != s.securityCode {
			s.logger.Warn().Str("username", input.Username).Msg("registration rejected: security code mismatch")
			return "", nil, domain.ErrInvalidSecurityCode
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	var code *string
	if input.SecurityCode != "" {
		c := input.SecurityCode
		code = &c
	}

	user, err := s.store.CreateUser(ctx, ports.CreateUserInput{
		Username:     input.Username,
		Password:     string(hash),
		Role:         role,
		SecurityCode: code,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("user registered")
	return token, user, nil
}

// Login authenticates by username and password. The literal username "admin"
// additionally requires the configured security code to match before the
// password is even checked.
func (s *AuthService) Login(ctx context.Context, username, password, securityCode string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if username == adminUsername && securityCode != s.securityCode {
		s.logger.Warn().Str("username", username).Msg("admin login rejected: security code mismatch")
		return "", nil, domain.ErrInvalidSecurityCode
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("user logged in")
	return token, user, nil
}

// Logout destroys the session referenced by the token. An unparseable token is
// treated as already logged out.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sid, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, sid)
}

// CurrentUser resolves the token to its session and loads the user record.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	sid, err := s.parseToken(token)
	if err != nil {
		return nil, ports.ErrSessionNotFound
	}

	sess, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Session outlived its user; drop it.
			_ = s.sessions.Delete(ctx, sid)
			return nil, ports.ErrSessionNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the caller's current password before overwriting the
// stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, token, current, next string) error {
	if next == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("username", user.Username).Msg("password updated")
	return nil
}

func (s *AuthService) openSession(ctx context.Context, userID int64) (string, error) {
	sess, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return s.signToken(sess.ID)
}

func (s *AuthService) signToken(sessionID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": sessionID})
	return t.SignedString([]byte(s.sessionSecret))
}

func (s *AuthService) parseToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}
