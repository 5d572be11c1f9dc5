package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when no redis address is
// configured, and by tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Create mints a fresh opaque token and stores the record against it.
func (s *MemoryStore) Create(ctx context.Context, rec Record) (string, error) {
	token := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{rec: rec, expiresAt: time.Now().Add(s.ttl)}
	return token, nil
}

// Get looks up the record for a token.
func (s *MemoryStore) Get(ctx context.Context, token string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return Record{}, ErrNoSession
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, token)
		return Record{}, ErrNoSession
	}
	return entry.rec, nil
}

// Destroy removes the token. Destroying an unknown token is not an error.
func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}
