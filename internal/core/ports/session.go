package ports

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session associates an opaque id with an authenticated user identity.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
}

// SessionStore holds server-side session records keyed by opaque id. Records
// expire after the TTL configured at construction. Get on a missing or expired
// id returns ErrSessionNotFound.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
