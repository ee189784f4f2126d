package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrMiss is returned when no verification entry exists for an email.
var ErrMiss = errors.New("verification entry not found")

// VerificationEntry is a pending email verification code.
type VerificationEntry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExpiredGrace keeps expired entries around long enough for a register
// attempt to be told the code expired rather than never requested.
const ExpiredGrace = 10 * time.Minute

// Expired reports whether the entry is no longer usable at now.
func (e VerificationEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Stale reports whether the entry has been expired for longer than
// ExpiredGrace and can be dropped without changing what Register reports.
func (e VerificationEntry) Stale(now time.Time) bool {
	return now.After(e.ExpiresAt.Add(ExpiredGrace))
}

// VerificationStore keeps pending codes keyed by email. Expiry is carried
// in the entry itself; callers decide what to do with an expired one.
type VerificationStore interface {
	Get(ctx context.Context, email string) (VerificationEntry, error)
	Set(ctx context.Context, email string, entry VerificationEntry) error
	Delete(ctx context.Context, email string) error
}

// MemoryStore is a process-local VerificationStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]VerificationEntry // map[email]entry
	purged  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]VerificationEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, email string) (VerificationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[email]
	if !ok {
		return VerificationEntry{}, ErrMiss
	}
	return entry, nil
}

// Set replaces any pending entry for email.
func (s *MemoryStore) Set(_ context.Context, email string, entry VerificationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, email)
	return nil
}

// PurgeExpired drops every entry that is stale at now and returns how
// many went. Recently expired entries stay so Register can report them.
func (s *MemoryStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for email, entry := range s.entries {
		if entry.Stale(now) {
			delete(s.entries, email)
			removed++
		}
	}
	s.purged += removed
	return removed
}

// Stats returns statistics about the current store
func (s *MemoryStore) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"pending_codes": len(s.entries),
		"purged_total":  s.purged,
	}
}
