// Package session stores refresh tokens in Redis. Tokens are opaque random
// values; Redis TTL handles expiry, logout deletes eagerly.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "refresh:"

// Store issues and resolves refresh tokens.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create mints a refresh token for the user.
func (s *Store) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	if err := s.client.Set(ctx, keyPrefix+token, userID.String(), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user a refresh token belongs to.
func (s *Store) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(value)
}

// Rotate consumes a refresh token and issues a replacement. A token that
// was already consumed resolves as not found, which stops replay.
func (s *Store) Rotate(ctx context.Context, token string) (uuid.UUID, string, error) {
	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return uuid.Nil, "", err
	}

	if err := s.Delete(ctx, token); err != nil {
		return uuid.Nil, "", err
	}

	next, err := s.Create(ctx, userID)
	if err != nil {
		return uuid.Nil, "", err
	}
	return userID, next, nil
}

// Delete removes a refresh token.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}
