// Package session provides the pluggable session stores: an in-memory map
// with a periodic sweep for development, and a Redis-backed store for
// durable deployments. Both satisfy ports.SessionStore.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/panaderia/storefront-api/internal/core/ports"
)

const defaultTTL = 24 * time.Hour

type memoryEntry struct {
	userID    int64
	createdAt time.Time
	expiresAt time.Time
}

// MemoryStore keeps sessions in a process-local map. Expired entries are
// rejected on read and reaped by a background sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	stop     chan struct{}
	stopOnce sync.Once
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore and starts its sweep goroutine.
// If ttl <= 0, defaultTTL is used.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	s := &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		stop:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) Create(_ context.Context, userID int64) (*ports.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	s.sessions[id] = memoryEntry{userID: userID, createdAt: now, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()

	return &ports.Session{ID: id, UserID: userID, CreatedAt: now}, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*ports.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ports.ErrSessionNotFound
	}
	return &ports.Session{ID: id, UserID: entry.userID, CreatedAt: entry.createdAt}, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, entry := range s.sessions {
				if now.After(entry.expiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// newSessionID returns 32 bytes of entropy, hex-encoded.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
