package credentials

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NewStaticToken wraps a pre-configured token (an Apple Music user token,
// or any provider token supplied via the environment) in the shared cache
// with a fixed TTL. Construction fails when the token is unset.
func NewStaticToken(provider, token string, ttl time.Duration) (*Cache, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, fmt.Errorf("%s static token is not configured", provider)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return NewCache(provider, func(ctx context.Context) (string, time.Duration, error) {
		return trimmed, ttl, nil
	}), nil
}
