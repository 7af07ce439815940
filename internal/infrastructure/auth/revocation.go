package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore invalidates JWTs before they expire. Single tokens are
// revoked by JTI on logout; all of a user's tokens are revoked by recording a
// cutoff when the password changes or the account is deactivated.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUser rejects every token of the user issued before now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// RedisRevocationStore implements RevocationStore on Redis keys with TTLs
type RedisRevocationStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// NewRedisRevocationStore creates a Redis-backed revocation store
func NewRedisRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, keyPrefix: "auth:revoked:"}
}

// Revoke marks a JTI as revoked for ttl
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+"jti:"+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks a JTI
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUser stores the cutoff as unix seconds
func (s *RedisRevocationStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+"user:"+userID, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked compares the token's issue time with the stored cutoff
func (s *RedisRevocationStore) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+"user:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation cutoff: %w", err)
	}
	return revokedBefore(issuedAt, time.Unix(cutoff, 0)), nil
}

// InMemoryRevocationStore is the single-instance fallback used when Redis is off
type InMemoryRevocationStore struct {
	mu      sync.Mutex
	jtis    map[string]time.Time
	cutoffs map[string]time.Time
}

var _ RevocationStore = (*InMemoryRevocationStore)(nil)

// NewInMemoryRevocationStore creates an in-memory revocation store
func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{
		jtis:    make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
	}
}

// Revoke marks a JTI as revoked until ttl elapses
func (s *InMemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jtis[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks a JTI, dropping expired entries
func (s *InMemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.jtis[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(s.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser records now as the user's cutoff
func (s *InMemoryRevocationStore) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs[userID] = time.Unix(time.Now().Unix(), 0)
	return nil
}

// IsUserRevoked compares the token's issue time with the cutoff
func (s *InMemoryRevocationStore) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff, ok := s.cutoffs[userID]
	if !ok {
		return false, nil
	}
	return revokedBefore(issuedAt, cutoff), nil
}

// revokedBefore works at the one second resolution of the iat claim. A token
// minted in the same second as the cutoff stays valid so a login right after
// a password change is not rejected.
func revokedBefore(issuedAt, cutoff time.Time) bool {
	return issuedAt.Unix() < cutoff.Unix()
}
