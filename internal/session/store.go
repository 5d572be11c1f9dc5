package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrNoSession is returned by Get when the token is unknown or expired.
var ErrNoSession = errors.New("session: not found")

// Record is the payload stored against a session token.
type Record struct {
	UserID  string `json:"userId,omitempty"`
	GuestID string `json:"guestId,omitempty"`
	IsGuest bool   `json:"isGuest"`
}

// Identity converts the stored record back into a resolved identity.
func (r Record) Identity() Identity {
	if r.IsGuest {
		return Guest(r.GuestID)
	}
	return Authenticated(r.UserID)
}

// Store maps opaque session tokens to records with a TTL. Destroyed or
// expired tokens resolve to nothing.
type Store interface {
	Create(ctx context.Context, rec Record) (string, error)
	Get(ctx context.Context, token string) (Record, error)
	Destroy(ctx context.Context, token string) error
}

const redisKeyPrefix = "triage:session:"

// RedisStore is the production Store backed by redis with key expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create mints a fresh opaque token and stores the record against it.
func (s *RedisStore) Create(ctx context.Context, rec Record) (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	token := uuid.New().String()
	if err := s.client.Set(ctx, redisKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get looks up the record for a token.
func (s *RedisStore) Get(ctx context.Context, token string) (Record, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+token).Result()
	if err == redis.Nil {
		return Record{}, ErrNoSession
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Destroy removes the token. Destroying an unknown token is not an error.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisKeyPrefix+token).Err()
}
