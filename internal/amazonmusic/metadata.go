package amazonmusic

// Metadata is a loosely shaped Amazon catalog object. The upstream API
// does not publish a stable schema, so field access goes through key
// fallback chains.
type Metadata map[string]any

// ID returns the catalog identifier, if present.
func (m Metadata) ID() string {
	return firstString(m, "id", "trackId", "asin")
}

// Kind returns the object type. An absent type is treated as a track.
func (m Metadata) Kind() string {
	if v := firstString(m, "type"); v != "" {
		return v
	}
	return "track"
}

// Title returns the track title under any of its known keys.
func (m Metadata) Title() string {
	return firstString(m, "title", "name", "trackName")
}

// Artist digs the primary artist name out of the several shapes the API
// uses: a list of objects, a single object, or a bare string.
func (m Metadata) Artist() string {
	for _, key := range []string{"artists", "artist", "primary_artist"} {
		switch v := m[key].(type) {
		case []any:
			for _, entry := range v {
				switch artist := entry.(type) {
				case map[string]any:
					if name := firstString(artist, "name", "artistName", "artist", "primaryArtist"); name != "" {
						return name
					}
				case string:
					if artist != "" {
						return artist
					}
				}
			}
		case map[string]any:
			if name := firstString(v, "name", "artistName", "artist", "primaryArtist"); name != "" {
				return name
			}
		case string:
			if v != "" && key != "artists" {
				return v
			}
		}
	}
	return firstString(m, "artist", "artistName", "artist_name", "primaryArtist")
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
