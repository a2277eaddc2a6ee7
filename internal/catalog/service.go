package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/moodtune/moodtune-music-go/internal/apperrors"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

// maxResolveLimit caps per-request result counts at the public surface.
// Providers accept larger limits internally.
const maxResolveLimit = 5

// ClampLimit bounds a caller-supplied limit to [1, maxResolveLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxResolveLimit {
		return maxResolveLimit
	}
	return limit
}

// ResolvePair is one title/artist input of a batch resolution.
type ResolvePair struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// BatchItem is the resolution result for one input pair, tagged with its
// original index.
type BatchItem struct {
	Index  int           `json:"index"`
	Title  string        `json:"title"`
	Artist string        `json:"artist"`
	Items  []track.Track `json:"items"`
}

// Service dispatches catalog operations through the provider registry.
type Service struct {
	registry        *Registry
	defaultProvider track.Provider
	emotions        *EmotionTable
}

// NewService creates a Service. defaultProvider selects the searcher for
// resolve operations.
func NewService(registry *Registry, defaultProvider track.Provider, emotions *EmotionTable) *Service {
	if emotions == nil {
		emotions = DefaultEmotionTable()
	}
	return &Service{registry: registry, defaultProvider: defaultProvider, emotions: emotions}
}

// Resolve searches the default provider for a title/artist pair and
// returns normalized tracks. Provider failures degrade to an empty
// outcome with the cause recorded.
func (s *Service) Resolve(ctx context.Context, title, artist string, limit int) SearchOutcome {
	reg, ok := s.registry.Lookup(s.defaultProvider)
	if !ok || reg.Searcher == nil {
		return SearchOutcome{Err: fmt.Errorf("no searcher for provider %q", s.defaultProvider)}
	}
	return reg.Searcher.Search(ctx, title, artist, ClampLimit(limit))
}

// ResolveBatch resolves each input pair in order. Blank pairs yield an
// empty item list at their index rather than failing the batch.
func (s *Service) ResolveBatch(ctx context.Context, pairs []ResolvePair, perItemLimit int) []BatchItem {
	out := make([]BatchItem, 0, len(pairs))
	for idx, pair := range pairs {
		title := strings.TrimSpace(pair.Title)
		artist := strings.TrimSpace(pair.Artist)
		item := BatchItem{Index: idx, Title: title, Artist: artist, Items: []track.Track{}}
		if title != "" && artist != "" {
			outcome := s.Resolve(ctx, title, artist, perItemLimit)
			if outcome.Tracks != nil {
				item.Items = outcome.Tracks
			}
		}
		out = append(out, item)
	}
	return out
}

// AudioFeatures dispatches a feature lookup to the named provider.
// Providers without the capability fail with an unsupported-operation
// error.
func (s *Service) AudioFeatures(ctx context.Context, kind track.Provider, ids []string) (map[string]track.AudioFeatures, error) {
	reg, ok := s.registry.Lookup(kind)
	if !ok {
		return nil, apperrors.NewUnsupportedError(fmt.Sprintf("unknown provider %q", kind))
	}
	if reg.Features == nil {
		return nil, apperrors.NewUnsupportedError(fmt.Sprintf("provider %q does not support audio features", kind))
	}
	features, err := reg.Features.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, apperrors.NewProviderError("audio features lookup failed", err)
	}
	return features, nil
}

// Emotions returns the emotion parameter table.
func (s *Service) Emotions() *EmotionTable {
	return s.emotions
}
