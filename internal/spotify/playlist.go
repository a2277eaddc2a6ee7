package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moodtune/moodtune-music-go/internal/metrics"
	"github.com/moodtune/moodtune-music-go/internal/retry"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

// addTracksChunkSize is the provider hard limit per add-tracks call.
const addTracksChunkSize = 100

// Playlists performs playlist operations on behalf of a user. The
// caller's access token is passed per call and never stored.
type Playlists struct {
	apiBase    string
	httpClient *http.Client
	retry      retry.Policy
}

// NewPlaylists creates a playlist client. Zero values select the
// production API base, a 20s timeout, and the default retry policy.
func NewPlaylists(apiBase string, timeout time.Duration, policy retry.Policy) *Playlists {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Playlists{
		apiBase:    apiBase,
		httpClient: &http.Client{Timeout: timeout},
		retry:      policy,
	}
}

// CurrentUserID resolves the token owner's user id via /me.
func (p *Playlists) CurrentUserID(ctx context.Context, token string) (string, error) {
	var user User
	err := p.retry.Do(ctx, "spotify.me", func() error {
		return p.doJSON(ctx, http.MethodGet, p.apiBase+"/me", token, nil, &user)
	})
	if err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", fmt.Errorf("spotify: /me returned no user id")
	}
	return user.ID, nil
}

// CreatePlaylist creates a private playlist owned by ownerID, resolving
// the token owner via /me when ownerID is empty. Provider 5xx and
// transport failures are retried; client errors surface immediately.
func (p *Playlists) CreatePlaylist(ctx context.Context, token, title, description, ownerID string) (*Playlist, error) {
	if ownerID == "" {
		resolved, err := p.CurrentUserID(ctx, token)
		if err != nil {
			return nil, err
		}
		ownerID = resolved
	}

	body := map[string]any{
		"name":        title,
		"description": description,
		"public":      false,
	}

	var created Playlist
	err := p.retry.Do(ctx, "spotify.create_playlist", func() error {
		return p.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/users/%s/playlists", p.apiBase, ownerID), token, body, &created)
	})
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("spotify", "create_playlist", "error").Inc()
		return nil, err
	}

	metrics.ProviderRequests.WithLabelValues("spotify", "create_playlist", "ok").Inc()
	return &created, nil
}

// AddTracks appends uris to a playlist in chunks of at most 100,
// sequentially. Each chunk is retried independently; a chunk that still
// fails aborts the remainder. Chunks already added stay added — callers
// must tolerate partial application.
func (p *Playlists) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	for start := 0; start < len(uris); start += addTracksChunkSize {
		end := min(start+addTracksChunkSize, len(uris))
		chunk := uris[start:end]

		body := map[string]any{"uris": chunk}
		err := p.retry.Do(ctx, "spotify.add_tracks", func() error {
			return p.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/playlists/%s/tracks", p.apiBase, playlistID), token, body, nil)
		})
		if err != nil {
			metrics.ProviderRequests.WithLabelValues("spotify", "add_tracks", "error").Inc()
			return fmt.Errorf("add tracks chunk %d-%d: %w", start, end, err)
		}
		metrics.ProviderRequests.WithLabelValues("spotify", "add_tracks", "ok").Inc()
	}
	return nil
}

// Deeplink builds the public URL that opens a playlist in Spotify.
func (p *Playlists) Deeplink(playlistID string) string {
	return "https://open.spotify.com/playlist/" + playlistID
}

// FetchPlaylist retrieves a playlist and its complete track list,
// following pagination until exhausted. Unlike search, any page failure
// aborts the whole fetch.
func (p *Playlists) FetchPlaylist(ctx context.Context, token, playlistID string) (*Playlist, []track.Track, error) {
	var playlist Playlist
	err := p.retry.Do(ctx, "spotify.fetch_playlist", func() error {
		return p.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/playlists/%s", p.apiBase, playlistID), token, nil, &playlist)
	})
	if err != nil {
		return nil, nil, err
	}

	tracks := collectPage(playlist.Tracks.Items)
	next := playlist.Tracks.Next
	for next != "" {
		var page PlaylistTracksPage
		pageURL := next
		err := p.retry.Do(ctx, "spotify.fetch_playlist_page", func() error {
			return p.doJSON(ctx, http.MethodGet, pageURL, token, nil, &page)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("playlist page: %w", err)
		}
		tracks = append(tracks, collectPage(page.Items)...)
		next = page.Next
	}

	return &playlist, tracks, nil
}

func collectPage(items []PlaylistItem) []track.Track {
	out := make([]track.Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		normalized := Normalize(*item.Track)
		if normalized.Complete() {
			out = append(out, normalized)
		}
	}
	return out
}

// doJSON performs one authenticated request, classifying failures for
// the retry policy: transport errors and 5xx are retryable, 4xx are
// terminal.
func (p *Playlists) doJSON(ctx context.Context, method, rawURL, token string, body any, dest any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return retry.Terminal(fmt.Errorf("encode request: %w", err))
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		return retry.Terminal(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &apiError{Status: resp.StatusCode, Body: string(raw)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return retry.Terminal(&apiError{Status: resp.StatusCode, Body: string(raw)})
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
