package spotify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moodtune/moodtune-music-go/internal/track"
)

func TestNormalize_FullRecord(t *testing.T) {
	raw := Track{
		ID:         "abc123",
		Name:       "Yesterday",
		URI:        "spotify:track:abc123",
		PreviewURL: "https://p.scdn.co/mp3-preview/abc",
		Artists:    []Artist{{Name: "The Beatles"}, {Name: "Someone Else"}},
		Album: Album{
			Images: []Image{
				{URL: "https://img/640", Width: 640},
				{URL: "https://img/300", Width: 300},
				{URL: "https://img/64", Width: 64},
			},
		},
	}

	got := Normalize(raw)
	require.Equal(t, "spotify-abc123", got.ID)
	require.Equal(t, "abc123", got.ExternalID)
	require.Equal(t, track.ProviderSpotify, got.Provider)
	require.Equal(t, "spotify_search", got.Source)
	require.Equal(t, "Yesterday", got.Title)
	require.Equal(t, "The Beatles", got.Artist)
	require.Equal(t, "spotify:track:abc123", got.URI)
	require.Equal(t, "https://img/640", got.ImageURL)
	require.Equal(t, "https://img/64", got.ThumbnailURL)
	require.True(t, got.Complete())
}

func TestNormalize_SingleImageFallsBackForThumbnail(t *testing.T) {
	raw := Track{
		ID:      "x",
		Name:    "Song",
		Artists: []Artist{{Name: "Artist"}},
		Album:   Album{Images: []Image{{URL: "https://img/only"}}},
	}

	got := Normalize(raw)
	require.Equal(t, "https://img/only", got.ImageURL)
	require.Equal(t, "https://img/only", got.ThumbnailURL)
}

func TestNormalize_MissingArtistIsIncomplete(t *testing.T) {
	got := Normalize(Track{ID: "x", Name: "Song"})
	require.False(t, got.Complete())

	filtered := track.DropIncomplete([]track.Track{got})
	require.Empty(t, filtered)
}
