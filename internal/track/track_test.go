package track

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDropIncomplete(t *testing.T) {
	in := []Track{
		{ID: "spotify-1", Provider: ProviderSpotify, Title: "One", Artist: "A"},
		{ID: "spotify-2", Provider: ProviderSpotify, Title: "", Artist: "B"},
		{ID: "itunes-3", Provider: ProviderITunes, Title: "Three", Artist: ""},
		{ID: "itunes-4", Provider: ProviderITunes, Title: "Four", Artist: "D"},
	}

	out := DropIncomplete(in)
	require.Len(t, out, 2)
	require.Equal(t, "spotify-1", out[0].ID)
	require.Equal(t, "itunes-4", out[1].ID)
}

func TestDropIncomplete_EmptyInput(t *testing.T) {
	require.Empty(t, DropIncomplete(nil))
}
