// Package itunes integrates the iTunes Search API. No credentials are
// required; searches are best-effort catalog lookups.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/moodtune/moodtune-music-go/internal/metrics"
)

// DefaultAPIBase is the iTunes Search API root.
const DefaultAPIBase = "https://itunes.apple.com"

// Result is a raw song entry from /search.
type Result struct {
	TrackID       int64  `json:"trackId"`
	TrackName     string `json:"trackName"`
	ArtistName    string `json:"artistName"`
	TrackViewURL  string `json:"trackViewUrl,omitempty"`
	PreviewURL    string `json:"previewUrl,omitempty"`
	ArtworkURL60  string `json:"artworkUrl60,omitempty"`
	ArtworkURL100 string `json:"artworkUrl100,omitempty"`
}

type searchResponse struct {
	ResultCount int      `json:"resultCount"`
	Results     []Result `json:"results"`
}

// Client consumes the iTunes Search API.
type Client struct {
	apiBase    string
	country    string
	httpClient *http.Client
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	APIBase string        // optional, defaults to DefaultAPIBase
	Country string        // optional, defaults to "US"
	Timeout time.Duration // optional, defaults to 15s
}

// NewClient creates an iTunes search client.
func NewClient(cfg ClientConfig) *Client {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	country := cfg.Country
	if country == "" {
		country = "US"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		apiBase:    apiBase,
		country:    country,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchTracks looks up songs by title and artist. Blank input
// short-circuits to an empty result without a network call. limit is
// clamped to [1,50].
func (c *Client) SearchTracks(ctx context.Context, title, artist string, limit int) ([]Result, error) {
	if title == "" || artist == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("term", title+" "+artist)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", strconv.Itoa(clampLimit(limit)))
	params.Set("country", c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("itunes", "search", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		metrics.ProviderRequests.WithLabelValues("itunes", "search", "error").Inc()
		return nil, fmt.Errorf("itunes: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ProviderRequests.WithLabelValues("itunes", "search", "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	metrics.ProviderRequests.WithLabelValues("itunes", "search", "ok").Inc()
	return parsed.Results, nil
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
