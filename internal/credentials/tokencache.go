// Package credentials manages bearer credentials for provider APIs:
// client-credentials grants, static user tokens, and locally generated
// developer tokens, all behind one expiring in-process cache.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moodtune/moodtune-music-go/internal/metrics"
)

// Skew is subtracted from a token's expiry when deciding whether the
// cached value is still usable.
const Skew = 30 * time.Second

// ErrNoToken indicates the credential exchange completed without
// returning an access token.
var ErrNoToken = errors.New("credential exchange returned no access token")

// TokenSource yields a bearer credential for a provider.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// FetchFunc performs the provider-specific credential exchange.
type FetchFunc func(ctx context.Context) (token string, expiresIn time.Duration, err error)

// Cache is an expiring token holder. A cached token is reused while
// now < expiresAt - skew; otherwise a fresh fetch replaces it. Tokens
// live only in process memory.
type Cache struct {
	provider string
	fetch    FetchFunc
	skew     time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewCache creates a cache around the given exchange. provider labels
// metrics and error messages.
func NewCache(provider string, fetch FetchFunc) *Cache {
	return &Cache{
		provider: provider,
		fetch:    fetch,
		skew:     Skew,
		now:      time.Now,
	}
}

// Token returns a valid bearer token, fetching a fresh one if the cached
// value is missing or within the skew window of expiry.
func (c *Cache) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.token != "" && c.now().Before(c.expiresAt.Add(-c.skew)) {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if c.token != "" && c.now().Before(c.expiresAt.Add(-c.skew)) {
		return c.token, nil
	}

	token, expiresIn, err := c.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("%s token fetch: %w", c.provider, err)
	}
	if token == "" {
		return "", fmt.Errorf("%s token fetch: %w", c.provider, ErrNoToken)
	}
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}

	metrics.TokenRefreshes.WithLabelValues(c.provider).Inc()

	c.token = token
	c.expiresAt = c.now().Add(expiresIn)
	return c.token, nil
}

// Clear drops the cached token so the next call fetches fresh.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}
