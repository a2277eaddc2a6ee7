// Package track defines the canonical track shape shared by every
// provider integration.
package track

// Provider identifies a music catalog source.
type Provider string

const (
	ProviderSpotify Provider = "spotify"
	ProviderITunes  Provider = "itunes"
	ProviderAmazon  Provider = "amazon"
	ProviderApple   Provider = "apple"
)

// Track is the normalized record returned by resolve operations.
// ID is provider-prefixed (e.g. "spotify-<id>") while ExternalID is the
// provider's own identifier.
type Track struct {
	ID           string   `json:"id"`
	ExternalID   string   `json:"external_id"`
	Provider     Provider `json:"provider"`
	Source       string   `json:"source"`
	Title        string   `json:"title"`
	Artist       string   `json:"artist"`
	URI          string   `json:"uri"`
	PreviewURL   string   `json:"preview_url,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
}

// Complete reports whether the record carries the fields callers rely on.
// Incomplete records are dropped from result lists.
func (t Track) Complete() bool {
	return t.Title != "" && t.Artist != ""
}

// DropIncomplete filters out records missing title or artist, preserving
// order.
func DropIncomplete(tracks []Track) []Track {
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Complete() {
			out = append(out, t)
		}
	}
	return out
}

// AudioFeatures holds the mood-oriented descriptors of a track.
type AudioFeatures struct {
	Valence float64 `json:"valence"`
	Energy  float64 `json:"energy"`
}
