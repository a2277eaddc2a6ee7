// Package pkce tracks pending OAuth authorization attempts: each issued
// state maps to a code verifier and an optional frontend callback URL,
// expires after a TTL, and can be consumed exactly once.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ChallengeMethod is the PKCE transform advertised in authorize URLs.
const ChallengeMethod = "S256"

// Entry is the stored half of a pending authorization attempt.
type Entry struct {
	Verifier    string
	CallbackURL string
	expiresAt   time.Time
}

// Store maps opaque state tokens to pending entries. Safe for
// concurrent use; expired entries are purged opportunistically on every
// write and treated as absent on read.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a store whose entries expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewVerifier mints a high-entropy PKCE code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// Challenge computes the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) with padding stripped.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Issue stores verifier (and the caller's eventual callback URL, which
// may be empty) under a fresh random state token and returns the state.
func (s *Store) Issue(verifier, callbackURL string) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()
	s.entries[state] = Entry{
		Verifier:    verifier,
		CallbackURL: callbackURL,
		expiresAt:   s.now().Add(s.ttl),
	}
	return state, nil
}

// Consume removes and returns the entry for state. This is a one-shot
// read: a second Consume for the same state reports absent, as does any
// state past its TTL. Callers must treat absent as an invalid or
// replayed state and reject the flow.
func (s *Store) Consume(state string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[state]
	if !ok {
		return Entry{}, false
	}
	delete(s.entries, state)
	if s.now().After(entry.expiresAt) {
		return Entry{}, false
	}
	return entry, true
}

// PurgeExpired removes every expired entry.
func (s *Store) PurgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
}

// Clear wipes all entries from the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}

// Len reports the number of live entries, expired included until purged.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) purgeLocked() {
	now := s.now()
	for state, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, state)
		}
	}
}

func randomState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
