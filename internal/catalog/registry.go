// Package catalog exposes cross-provider track resolution, raw search,
// audio features, and the emotion parameter table.
package catalog

import (
	"context"

	"github.com/moodtune/moodtune-music-go/internal/amazonmusic"
	"github.com/moodtune/moodtune-music-go/internal/itunes"
	"github.com/moodtune/moodtune-music-go/internal/spotify"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

// SearchOutcome separates "no matches" from "provider unreachable".
// Both render as an empty item list to HTTP callers; Err records the
// degrade cause.
type SearchOutcome struct {
	Tracks []track.Track
	Err    error
}

// Searcher resolves a title and artist pair to normalized tracks.
type Searcher interface {
	Search(ctx context.Context, title, artist string, limit int) SearchOutcome
}

// FeatureLookup resolves track ids to audio features.
type FeatureLookup interface {
	AudioFeatures(ctx context.Context, ids []string) (map[string]track.AudioFeatures, error)
}

// Registration is one provider's capability set. A nil Features means
// the provider does not support audio features.
type Registration struct {
	Kind     track.Provider
	Searcher Searcher
	Features FeatureLookup
}

// Registry holds provider registrations keyed by kind.
type Registry struct {
	entries map[track.Provider]Registration
}

// NewRegistry builds a registry from the given registrations.
func NewRegistry(regs ...Registration) *Registry {
	entries := make(map[track.Provider]Registration, len(regs))
	for _, reg := range regs {
		entries[reg.Kind] = reg
	}
	return &Registry{entries: entries}
}

// Lookup returns the registration for a provider kind.
func (r *Registry) Lookup(kind track.Provider) (Registration, bool) {
	reg, ok := r.entries[kind]
	return reg, ok
}

type spotifyCatalog interface {
	SearchTracks(ctx context.Context, title, artist string, limit int) ([]spotify.Track, error)
	AudioFeatures(ctx context.Context, ids []string) (map[string]spotify.AudioFeatures, error)
}

type spotifySearcher struct {
	client spotifyCatalog
}

// NewSpotifySearcher adapts the Spotify catalog client into a Searcher.
func NewSpotifySearcher(client spotifyCatalog) Searcher {
	return spotifySearcher{client: client}
}

func (s spotifySearcher) Search(ctx context.Context, title, artist string, limit int) SearchOutcome {
	raw, err := s.client.SearchTracks(ctx, title, artist, limit)
	if err != nil {
		return SearchOutcome{Err: err}
	}
	return SearchOutcome{Tracks: track.DropIncomplete(spotify.NormalizeAll(raw))}
}

type spotifyFeatures struct {
	client spotifyCatalog
}

// NewSpotifyFeatures adapts the Spotify catalog client into a
// FeatureLookup, reducing the wire shape to valence and energy.
func NewSpotifyFeatures(client spotifyCatalog) FeatureLookup {
	return spotifyFeatures{client: client}
}

func (s spotifyFeatures) AudioFeatures(ctx context.Context, ids []string) (map[string]track.AudioFeatures, error) {
	raw, err := s.client.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]track.AudioFeatures, len(raw))
	for id, feat := range raw {
		out[id] = track.AudioFeatures{Valence: feat.Valence, Energy: feat.Energy}
	}
	return out, nil
}

type itunesCatalog interface {
	SearchTracks(ctx context.Context, title, artist string, limit int) ([]itunes.Result, error)
}

type itunesSearcher struct {
	client itunesCatalog
}

// NewITunesSearcher adapts the iTunes search client into a Searcher.
func NewITunesSearcher(client itunesCatalog) Searcher {
	return itunesSearcher{client: client}
}

func (s itunesSearcher) Search(ctx context.Context, title, artist string, limit int) SearchOutcome {
	raw, err := s.client.SearchTracks(ctx, title, artist, limit)
	if err != nil {
		return SearchOutcome{Err: err}
	}
	return SearchOutcome{Tracks: track.DropIncomplete(itunes.NormalizeAll(raw))}
}

type amazonCatalog interface {
	AudioFeatures(ctx context.Context, ids []string) (map[string]track.AudioFeatures, error)
}

type amazonFeatures struct {
	client amazonCatalog
}

// NewAmazonFeatures adapts the Amazon client's cross-matched feature
// lookup into a FeatureLookup.
func NewAmazonFeatures(client *amazonmusic.Client) FeatureLookup {
	return amazonFeatures{client: client}
}

func (a amazonFeatures) AudioFeatures(ctx context.Context, ids []string) (map[string]track.AudioFeatures, error) {
	return a.client.AudioFeatures(ctx, ids)
}
