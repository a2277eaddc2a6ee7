package spotify

import "github.com/moodtune/moodtune-music-go/internal/track"

// Normalize maps a raw Spotify track to the canonical shape: first
// artist only, first (largest) album image as image_url, last (smallest)
// as thumbnail_url, falling back to image_url when only one exists.
func Normalize(t Track) track.Track {
	var artist string
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}

	var imageURL, thumbURL string
	if len(t.Album.Images) > 0 {
		imageURL = t.Album.Images[0].URL
		thumbURL = t.Album.Images[len(t.Album.Images)-1].URL
	}

	id := ""
	if t.ID != "" {
		id = "spotify-" + t.ID
	}

	return track.Track{
		ID:           id,
		ExternalID:   t.ID,
		Provider:     track.ProviderSpotify,
		Source:       "spotify_search",
		Title:        t.Name,
		Artist:       artist,
		URI:          t.URI,
		PreviewURL:   t.PreviewURL,
		ImageURL:     imageURL,
		ThumbnailURL: thumbURL,
	}
}

// NormalizeAll maps a raw result list, preserving order. Records missing
// a title or artist are kept here and dropped at the service boundary.
func NormalizeAll(tracks []Track) []track.Track {
	out := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, Normalize(t))
	}
	return out
}
