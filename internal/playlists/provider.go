// Package playlists exposes playlist creation and retrieval across
// providers. Only Spotify implements the full provider contract today.
package playlists

import (
	"context"

	"github.com/moodtune/moodtune-music-go/internal/spotify"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

// CreatedPlaylist identifies a playlist created on a provider.
type CreatedPlaylist struct {
	ID   string
	Name string
}

// PlaylistContent is a playlist plus its complete normalized track list.
type PlaylistContent struct {
	ID          string        `json:"external_playlist_id"`
	Name        string        `json:"title"`
	Description string        `json:"description,omitempty"`
	DeepLinkURL string        `json:"deep_link_url"`
	Tracks      []track.Track `json:"tracks"`
	TrackCount  int           `json:"track_count"`
}

// Provider is the playlist capability contract.
type Provider interface {
	CurrentUserID(ctx context.Context, token string) (string, error)
	CreatePlaylist(ctx context.Context, token, title, description, ownerUserID string) (CreatedPlaylist, error)
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error
	Deeplink(playlistID string) string
	FetchPlaylist(ctx context.Context, token, playlistID string) (PlaylistContent, error)
}

// Registry maps provider kinds to their playlist implementation.
type Registry struct {
	providers map[track.Provider]Provider
}

// NewRegistry builds a registry. Nil providers are skipped.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[track.Provider]Provider)}
}

// Register adds a provider implementation under a kind.
func (r *Registry) Register(kind track.Provider, provider Provider) {
	if provider != nil {
		r.providers[kind] = provider
	}
}

// Lookup returns the implementation for a kind.
func (r *Registry) Lookup(kind track.Provider) (Provider, bool) {
	provider, ok := r.providers[kind]
	return provider, ok
}

type spotifyPlaylists interface {
	CurrentUserID(ctx context.Context, token string) (string, error)
	CreatePlaylist(ctx context.Context, token, title, description, ownerID string) (*spotify.Playlist, error)
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error
	Deeplink(playlistID string) string
	FetchPlaylist(ctx context.Context, token, playlistID string) (*spotify.Playlist, []track.Track, error)
}

type spotifyProvider struct {
	client spotifyPlaylists
}

// NewSpotifyProvider adapts the Spotify playlist client to the Provider
// contract.
func NewSpotifyProvider(client spotifyPlaylists) Provider {
	return spotifyProvider{client: client}
}

func (p spotifyProvider) CurrentUserID(ctx context.Context, token string) (string, error) {
	return p.client.CurrentUserID(ctx, token)
}

func (p spotifyProvider) CreatePlaylist(ctx context.Context, token, title, description, ownerUserID string) (CreatedPlaylist, error) {
	created, err := p.client.CreatePlaylist(ctx, token, title, description, ownerUserID)
	if err != nil {
		return CreatedPlaylist{}, err
	}
	return CreatedPlaylist{ID: created.ID, Name: created.Name}, nil
}

func (p spotifyProvider) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	return p.client.AddTracks(ctx, token, playlistID, uris)
}

func (p spotifyProvider) Deeplink(playlistID string) string {
	return p.client.Deeplink(playlistID)
}

func (p spotifyProvider) FetchPlaylist(ctx context.Context, token, playlistID string) (PlaylistContent, error) {
	playlist, tracks, err := p.client.FetchPlaylist(ctx, token, playlistID)
	if err != nil {
		return PlaylistContent{}, err
	}
	if tracks == nil {
		tracks = []track.Track{}
	}
	return PlaylistContent{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		DeepLinkURL: p.client.Deeplink(playlist.ID),
		Tracks:      tracks,
		TrackCount:  len(tracks),
	}, nil
}
