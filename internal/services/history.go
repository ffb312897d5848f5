package services

import (
	"context"
	"sync"
	"time"
)

// HistoryStore keeps per-address redirect history for the smart evaluator.
// Implementations must make Bump atomic: two concurrent requests from the same
// address must not both observe a count at or under the cap.
type HistoryStore interface {
	// Bump increments the address counter and returns the post-increment
	// count. The expiry window is refreshed only while the count is still
	// within the redirect cap, so the lockout always ends a fixed window
	// after the most recent redirect.
	Bump(ctx context.Context, addr string, window time.Duration) (int64, error)
	// LastURL returns the destination most recently used for the address,
	// or "" when none is recorded.
	LastURL(ctx context.Context, addr string) (string, error)
	SetLastURL(ctx context.Context, addr, url string, window time.Duration) error
	// PurgeExpired drops entries past their window. Stores with native TTL
	// may treat this as a no-op.
	PurgeExpired(ctx context.Context) error
}

type historyEntry struct {
	count     int64
	lastURL   string
	expiresAt time.Time
}

// MemoryHistoryStore is the in-process HistoryStore used in tests and in
// deployments without Redis. Expired entries reset to fresh on the next Bump.
type MemoryHistoryStore struct {
	mu      sync.Mutex
	entries map[string]*historyEntry
	now     func() time.Time
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		entries: make(map[string]*historyEntry),
		now:     time.Now,
	}
}

func (s *MemoryHistoryStore) Bump(ctx context.Context, addr string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[addr]
	if !ok || now.After(e.expiresAt) {
		e = &historyEntry{}
		s.entries[addr] = e
	}

	e.count++
	if e.count <= smartRedirectCap {
		e.expiresAt = now.Add(window)
	}
	return e.count, nil
}

func (s *MemoryHistoryStore) LastURL(ctx context.Context, addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[addr]
	if !ok || s.now().After(e.expiresAt) {
		return "", nil
	}
	return e.lastURL, nil
}

func (s *MemoryHistoryStore) SetLastURL(ctx context.Context, addr, url string, window time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[addr]
	if !ok {
		e = &historyEntry{expiresAt: s.now().Add(window)}
		s.entries[addr] = e
	}
	e.lastURL = url
	return nil
}

func (s *MemoryHistoryStore) PurgeExpired(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for addr, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, addr)
		}
	}
	return nil
}
