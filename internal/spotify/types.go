package spotify

// Wire types for the subset of the Spotify Web API this service consumes.

// Image is an album or playlist artwork entry. Spotify orders images
// largest first.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Artist is a track credit.
type Artist struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Album carries the artwork used for normalization.
type Album struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	Images []Image `json:"images,omitempty"`
}

// Track is a raw catalog track as returned by /search.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri,omitempty"`
	PreviewURL string   `json:"preview_url,omitempty"`
	Artists    []Artist `json:"artists,omitempty"`
	Album      Album    `json:"album,omitempty"`
}

type searchResponse struct {
	Tracks struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
}

// AudioFeatures is the mood-relevant subset of /audio-features.
type AudioFeatures struct {
	ID      string  `json:"id"`
	Valence float64 `json:"valence"`
	Energy  float64 `json:"energy"`
}

type audioFeaturesResponse struct {
	AudioFeatures []*AudioFeatures `json:"audio_features"`
}

// User is the caller's own profile from /me.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Playlist is a playlist resource, including the first page of tracks
// when fetched directly.
type Playlist struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	URI          string             `json:"uri,omitempty"`
	ExternalURLs map[string]string  `json:"external_urls,omitempty"`
	Tracks       PlaylistTracksPage `json:"tracks"`
}

// PlaylistTracksPage is one page of a playlist's items. Next is the URL
// of the following page, empty when exhausted.
type PlaylistTracksPage struct {
	Items []PlaylistItem `json:"items"`
	Next  string         `json:"next,omitempty"`
	Total int            `json:"total,omitempty"`
}

// PlaylistItem wraps a playlist entry; Track is nil for removed or
// unavailable entries.
type PlaylistItem struct {
	Track *Track `json:"track"`
}
