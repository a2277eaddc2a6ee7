// Package spotify integrates the Spotify Web API: catalog search and
// audio features under client credentials, playlist management under
// user tokens, and the authorization-code OAuth flow.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/moodtune/moodtune-music-go/internal/credentials"
	"github.com/moodtune/moodtune-music-go/internal/metrics"
)

const (
	// DefaultAPIBase is the Spotify Web API root.
	DefaultAPIBase = "https://api.spotify.com/v1"

	featureChunkSize = 100
)

// apiError is a non-2xx provider response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("spotify: status %d: %s", e.Status, e.Body)
}

// IsServerError reports whether err is, or wraps, a provider 5xx
// response.
func IsServerError(err error) bool {
	var e *apiError
	if errors.As(err, &e) {
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// Client consumes the Spotify catalog with application credentials.
type Client struct {
	apiBase    string
	market     string
	tokens     credentials.TokenSource
	httpClient *http.Client
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	Tokens  credentials.TokenSource // required: application token source
	APIBase string                  // optional, defaults to DefaultAPIBase
	Market  string                  // optional, defaults to "US"
	Timeout time.Duration           // optional, defaults to 20s
}

// NewClient creates a catalog client.
func NewClient(cfg ClientConfig) *Client {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	market := cfg.Market
	if market == "" {
		market = "US"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		apiBase:    apiBase,
		market:     market,
		tokens:     cfg.Tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchTracks looks up catalog tracks by title and artist. Blank input
// short-circuits to an empty result without a network call. limit is
// clamped to [1,50].
func (c *Client) SearchTracks(ctx context.Context, title, artist string, limit int) ([]Track, error) {
	if title == "" || artist == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(clampLimit(limit, 50)))
	params.Set("market", c.market)

	var parsed searchResponse
	if err := c.getJSON(ctx, c.apiBase+"/search?"+params.Encode(), &parsed); err != nil {
		metrics.ProviderRequests.WithLabelValues("spotify", "search", "error").Inc()
		return nil, err
	}

	metrics.ProviderRequests.WithLabelValues("spotify", "search", "ok").Inc()
	return parsed.Tracks.Items, nil
}

// AudioFeatures fetches valence/energy descriptors for the given track
// ids, chunked by 100. Chunks answered with a 5xx are skipped so a
// partial outage degrades the mapping instead of failing it.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) (map[string]AudioFeatures, error) {
	if len(ids) == 0 {
		return map[string]AudioFeatures{}, nil
	}

	out := make(map[string]AudioFeatures)
	for start := 0; start < len(ids); start += featureChunkSize {
		end := min(start+featureChunkSize, len(ids))
		chunk := ids[start:end]

		params := url.Values{}
		params.Set("ids", strings.Join(chunk, ","))

		var parsed audioFeaturesResponse
		err := c.getJSON(ctx, c.apiBase+"/audio-features?"+params.Encode(), &parsed)
		if err != nil {
			if IsServerError(err) {
				metrics.ProviderRequests.WithLabelValues("spotify", "audio_features", "degraded").Inc()
				continue
			}
			metrics.ProviderRequests.WithLabelValues("spotify", "audio_features", "error").Inc()
			return nil, err
		}

		metrics.ProviderRequests.WithLabelValues("spotify", "audio_features", "ok").Inc()
		for _, features := range parsed.AudioFeatures {
			if features == nil || features.ID == "" {
				continue
			}
			out[features.ID] = *features
		}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dest any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &apiError{Status: resp.StatusCode, Body: string(body)}
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func clampLimit(limit, ceiling int) int {
	if limit < 1 {
		return 1
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}
