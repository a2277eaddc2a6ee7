package itunes

import (
	"strconv"

	"github.com/moodtune/moodtune-music-go/internal/track"
)

// Normalize maps a raw iTunes result to the canonical shape. The URI is
// the store page when present, otherwise a synthesized
// itunes:track:<id> scheme.
func Normalize(r Result) track.Track {
	externalID := ""
	id := ""
	if r.TrackID != 0 {
		externalID = strconv.FormatInt(r.TrackID, 10)
		id = "itunes-" + externalID
	}

	uri := r.TrackViewURL
	if uri == "" && externalID != "" {
		uri = "itunes:track:" + externalID
	}

	thumb := r.ArtworkURL60
	if thumb == "" {
		thumb = r.ArtworkURL100
	}

	return track.Track{
		ID:           id,
		ExternalID:   externalID,
		Provider:     track.ProviderITunes,
		Source:       "itunes_search",
		Title:        r.TrackName,
		Artist:       r.ArtistName,
		URI:          uri,
		PreviewURL:   r.PreviewURL,
		ImageURL:     r.ArtworkURL100,
		ThumbnailURL: thumb,
	}
}

// NormalizeAll maps a raw result list, preserving order.
func NormalizeAll(results []Result) []track.Track {
	out := make([]track.Track, 0, len(results))
	for _, r := range results {
		out = append(out, Normalize(r))
	}
	return out
}
