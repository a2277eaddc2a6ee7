package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moodtune/moodtune-music-go/internal/apperrors"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

type stubSearcher struct {
	gotLimit int
	outcome  SearchOutcome
}

func (s *stubSearcher) Search(ctx context.Context, title, artist string, limit int) SearchOutcome {
	s.gotLimit = limit
	return s.outcome
}

type stubFeatures struct {
	features map[string]track.AudioFeatures
	err      error
}

func (s *stubFeatures) AudioFeatures(ctx context.Context, ids []string) (map[string]track.AudioFeatures, error) {
	return s.features, s.err
}

func completeTrack(id string) track.Track {
	return track.Track{ID: id, Provider: track.ProviderSpotify, Title: "Song", Artist: "Artist"}
}

func TestService_Resolve_ClampsLimitAtPublicSurface(t *testing.T) {
	searcher := &stubSearcher{outcome: SearchOutcome{Tracks: []track.Track{completeTrack("t1")}}}
	service := NewService(NewRegistry(Registration{Kind: track.ProviderSpotify, Searcher: searcher}), track.ProviderSpotify, nil)

	outcome := service.Resolve(context.Background(), "a", "b", 40)
	require.NoError(t, outcome.Err)
	require.Equal(t, 5, searcher.gotLimit)

	service.Resolve(context.Background(), "a", "b", 0)
	require.Equal(t, 1, searcher.gotLimit)
}

func TestService_Resolve_UnknownProviderDegrades(t *testing.T) {
	service := NewService(NewRegistry(), track.ProviderSpotify, nil)
	outcome := service.Resolve(context.Background(), "a", "b", 1)
	require.Error(t, outcome.Err)
	require.Empty(t, outcome.Tracks)
}

func TestService_ResolveBatch_PreservesOrderAndIndex(t *testing.T) {
	searcher := &stubSearcher{outcome: SearchOutcome{Tracks: []track.Track{completeTrack("t1")}}}
	service := NewService(NewRegistry(Registration{Kind: track.ProviderSpotify, Searcher: searcher}), track.ProviderSpotify, nil)

	out := service.ResolveBatch(context.Background(), []ResolvePair{
		{Title: "One", Artist: "A"},
		{Title: "  ", Artist: "B"},
		{Title: "Three", Artist: "C"},
	}, 1)

	require.Len(t, out, 3)
	require.Equal(t, 0, out[0].Index)
	require.Equal(t, 1, out[1].Index)
	require.Equal(t, 2, out[2].Index)

	require.Len(t, out[0].Items, 1)
	// Blank pair yields an empty item list, not a batch failure.
	require.NotNil(t, out[1].Items)
	require.Empty(t, out[1].Items)
	require.Len(t, out[2].Items, 1)
}

func TestService_ResolveBatch_ProviderFailureYieldsEmptyItems(t *testing.T) {
	searcher := &stubSearcher{outcome: SearchOutcome{Err: errors.New("unreachable")}}
	service := NewService(NewRegistry(Registration{Kind: track.ProviderSpotify, Searcher: searcher}), track.ProviderSpotify, nil)

	out := service.ResolveBatch(context.Background(), []ResolvePair{{Title: "One", Artist: "A"}}, 1)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Items)
	require.Empty(t, out[0].Items)
}

func TestService_AudioFeatures_DispatchesByProvider(t *testing.T) {
	features := &stubFeatures{features: map[string]track.AudioFeatures{"t1": {Valence: 0.7, Energy: 0.2}}}
	service := NewService(NewRegistry(
		Registration{Kind: track.ProviderSpotify, Features: features},
		Registration{Kind: track.ProviderITunes, Searcher: &stubSearcher{}},
	), track.ProviderSpotify, nil)

	got, err := service.AudioFeatures(context.Background(), track.ProviderSpotify, []string{"t1"})
	require.NoError(t, err)
	require.InDelta(t, 0.7, got["t1"].Valence, 0.0001)
}

func TestService_AudioFeatures_UnsupportedWithoutCapability(t *testing.T) {
	service := NewService(NewRegistry(
		Registration{Kind: track.ProviderITunes, Searcher: &stubSearcher{}},
	), track.ProviderITunes, nil)

	_, err := service.AudioFeatures(context.Background(), track.ProviderITunes, []string{"t1"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeUnsupported, appErr.Code)

	_, err = service.AudioFeatures(context.Background(), track.Provider("deezer"), []string{"t1"})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeUnsupported, appErr.Code)
}

func TestService_AudioFeatures_ProviderFailureIs502Class(t *testing.T) {
	features := &stubFeatures{err: errors.New("upstream down")}
	service := NewService(NewRegistry(
		Registration{Kind: track.ProviderSpotify, Features: features},
	), track.ProviderSpotify, nil)

	_, err := service.AudioFeatures(context.Background(), track.ProviderSpotify, []string{"t1"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrorCodeProviderError, appErr.Code)
}
