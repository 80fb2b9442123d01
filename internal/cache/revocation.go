package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// RevokedSessionPrefix is the key prefix for signed-out sessions
	RevokedSessionPrefix = "session:revoked:"

	// MinRevocationTTL keeps a revocation around even for tokens at or past expiry
	MinRevocationTTL = time.Minute
)

// RevocationStore remembers sessions that were signed out before their
// access token expired. Entries only need to outlive the token.
type RevocationStore interface {
	// Revoke marks a session as signed out for ttl.
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error

	// IsRevoked reports whether the session was signed out.
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// RedisRevocationStore shares revocations between instances.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore backed by Redis.
func NewRevocationStore(client *redis.Client) RevocationStore {
	return &RedisRevocationStore{client: client}
}

func revokedKey(sessionID string) string {
	return RevokedSessionPrefix + sessionID
}

// Revoke uses SET with EX so the key disappears with the token.
func (s *RedisRevocationStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl < MinRevocationTTL {
		ttl = MinRevocationTTL
	}
	if err := s.client.Set(ctx, revokedKey(sessionID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked uses EXISTS.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return n > 0, nil
}

// MemoryRevocationStore is a single-process RevocationStore, used when no
// Redis is configured.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl < MinRevocationTTL {
		ttl = MinRevocationTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = s.now().Add(ttl)
	s.sweepLocked()
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.entries[sessionID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.entries, sessionID)
		return false, nil
	}
	return true, nil
}

func (s *MemoryRevocationStore) sweepLocked() {
	now := s.now()
	for id, until := range s.entries {
		if !now.Before(until) {
			delete(s.entries, id)
		}
	}
}
