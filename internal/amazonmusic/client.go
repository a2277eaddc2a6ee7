// Package amazonmusic integrates the Amazon Music API. Catalog lookups
// are best-effort, and audio features are resolved by cross-matching
// tracks into the Spotify catalog.
package amazonmusic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/moodtune/moodtune-music-go/internal/credentials"
	"github.com/moodtune/moodtune-music-go/internal/metrics"
	"github.com/moodtune/moodtune-music-go/internal/spotify"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

// DefaultAPIBase is the Amazon Music API root.
const DefaultAPIBase = "https://api.music.amazon.dev/v1"

// FeatureSource is the slice of the Spotify catalog client used for
// cross-matching. Satisfied by *spotify.Client.
type FeatureSource interface {
	SearchTracks(ctx context.Context, title, artist string, limit int) ([]spotify.Track, error)
	AudioFeatures(ctx context.Context, ids []string) (map[string]spotify.AudioFeatures, error)
}

// Client consumes the Amazon Music API.
type Client struct {
	apiBase    string
	country    string
	tokens     credentials.TokenSource
	spotify    FeatureSource
	httpClient *http.Client
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	Tokens  credentials.TokenSource
	Spotify FeatureSource // optional, AudioFeatures returns empty without it
	APIBase string        // optional, defaults to DefaultAPIBase
	Country string        // optional, defaults to "US"
	Timeout time.Duration // optional, defaults to 20s
}

// NewClient creates an Amazon Music client.
func NewClient(cfg ClientConfig) *Client {
	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	country := strings.ToUpper(cfg.Country)
	if country == "" {
		country = "US"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		apiBase:    apiBase,
		country:    country,
		tokens:     cfg.Tokens,
		spotify:    cfg.Spotify,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Results json.RawMessage `json:"results"`
}

// SearchTracks looks up catalog tracks by title and artist. Blank input
// short-circuits. Transport failures and 5xx responses degrade to an
// empty result. Non-track objects are filtered out.
func (c *Client) SearchTracks(ctx context.Context, title, artist string, limit int) ([]Metadata, error) {
	if title == "" || artist == "" {
		return nil, nil
	}
	maxResults := clampLimit(limit)

	params := url.Values{}
	params.Set("query", title+" "+artist)
	params.Set("type", "track")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("country", c.country)

	var parsed searchResponse
	degraded, err := c.getJSON(ctx, "/search?"+params.Encode(), "search", &parsed)
	if err != nil || degraded {
		return nil, err
	}

	results := decodeResults(parsed.Results)
	tracks := make([]Metadata, 0, len(results))
	for _, item := range results {
		switch strings.ToLower(item.Kind()) {
		case "track", "song", "music", "":
			tracks = append(tracks, item)
		}
		if len(tracks) == maxResults {
			break
		}
	}
	return tracks, nil
}

// TrackMetadata fetches a single catalog object by id. Missing or
// unreachable tracks come back as an empty Metadata.
func (c *Client) TrackMetadata(ctx context.Context, trackID string) (Metadata, error) {
	params := url.Values{}
	params.Set("id", trackID)
	params.Set("country", c.country)

	var raw map[string]any
	degraded, err := c.getJSON(ctx, "/track?"+params.Encode(), "track", &raw)
	if err != nil || degraded {
		return nil, err
	}

	payload, ok := raw["data"]
	if !ok {
		return Metadata(raw), nil
	}
	switch v := payload.(type) {
	case map[string]any:
		return Metadata(v), nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		if m, ok := v[0].(map[string]any); ok {
			return Metadata(m), nil
		}
	}
	return nil, nil
}

// AudioFeatures resolves valence and energy for Amazon track ids by
// cross-matching each track's title and artist into the Spotify catalog.
// Tracks with no metadata or no Spotify match are omitted.
func (c *Client) AudioFeatures(ctx context.Context, trackIDs []string) (map[string]track.AudioFeatures, error) {
	if len(trackIDs) == 0 || c.spotify == nil {
		return map[string]track.AudioFeatures{}, nil
	}

	matched := make(map[string]string)
	seen := make(map[string]bool)
	for _, amazonID := range trackIDs {
		if amazonID == "" || seen[amazonID] {
			continue
		}
		seen[amazonID] = true

		meta, err := c.TrackMetadata(ctx, amazonID)
		if err != nil {
			continue
		}
		title, artist := meta.Title(), meta.Artist()
		if title == "" || artist == "" {
			continue
		}

		hits, err := c.spotify.SearchTracks(ctx, title, artist, 1)
		if err != nil || len(hits) == 0 || hits[0].ID == "" {
			continue
		}
		matched[amazonID] = hits[0].ID
	}
	if len(matched) == 0 {
		return map[string]track.AudioFeatures{}, nil
	}

	spotifyIDs := make([]string, 0, len(matched))
	unique := make(map[string]bool)
	for _, id := range matched {
		if !unique[id] {
			unique[id] = true
			spotifyIDs = append(spotifyIDs, id)
		}
	}

	features, err := c.spotify.AudioFeatures(ctx, spotifyIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]track.AudioFeatures)
	for amazonID, spotifyID := range matched {
		if feat, ok := features[spotifyID]; ok {
			out[amazonID] = track.AudioFeatures{Valence: feat.Valence, Energy: feat.Energy}
		}
	}
	return out, nil
}

// getJSON performs an authenticated GET. The bool result reports a
// best-effort degrade (transport failure or 5xx).
func (c *Client) getJSON(ctx context.Context, path, operation string, out any) (bool, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("amazon token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("amazon", operation, "degraded").Inc()
		return true, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		metrics.ProviderRequests.WithLabelValues("amazon", operation, "degraded").Inc()
		return true, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		metrics.ProviderRequests.WithLabelValues("amazon", operation, "error").Inc()
		return false, fmt.Errorf("amazon: status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ProviderRequests.WithLabelValues("amazon", operation, "error").Inc()
		return false, fmt.Errorf("decode response: %w", err)
	}
	metrics.ProviderRequests.WithLabelValues("amazon", operation, "ok").Inc()
	return false, nil
}

// decodeResults accepts both response shapes the API emits, a bare list
// or an object with an items list.
func decodeResults(raw json.RawMessage) []Metadata {
	if len(raw) == 0 {
		return nil
	}

	var list []Metadata
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var wrapped struct {
		Items []Metadata `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Items
	}
	return nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 50 {
		return 50
	}
	return limit
}
