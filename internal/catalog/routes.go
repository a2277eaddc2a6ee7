package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/moodtune/moodtune-music-go/internal/api"
	"github.com/moodtune/moodtune-music-go/internal/apperrors"
	"github.com/moodtune/moodtune-music-go/internal/itunes"
	"github.com/moodtune/moodtune-music-go/internal/spotify"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

// RawSpotifySearch exposes raw Spotify search results for the
// passthrough endpoint.
type RawSpotifySearch interface {
	SearchTracks(ctx context.Context, title, artist string, limit int) ([]spotify.Track, error)
}

// RawITunesSearch exposes raw iTunes search results for the passthrough
// endpoint.
type RawITunesSearch interface {
	SearchTracks(ctx context.Context, title, artist string, limit int) ([]itunes.Result, error)
}

type searchRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Limit  int    `json:"limit"`
}

// validate trims the pair and fails when either side is blank.
func (req *searchRequest) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	req.Artist = strings.TrimSpace(req.Artist)
	if req.Title == "" || req.Artist == "" {
		return apperrors.NewValidationError("title and artist are required")
	}
	if req.Limit == 0 {
		req.Limit = 1
	}
	return nil
}

// RegisterRoutes wires catalog routes to the router. rawSpotify and
// rawITunes may be nil when the provider is not configured; their
// endpoints then report an unsupported operation.
func RegisterRoutes(router chi.Router, service *Service, rawSpotify RawSpotifySearch, rawITunes RawITunesSearch) {
	router.Method(http.MethodPost, "/catalog/resolve", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return apperrors.NewValidationError("title and artist are required")
		}
		if err := req.validate(); err != nil {
			return err
		}

		outcome := service.Resolve(r.Context(), req.Title, req.Artist, req.Limit)
		items := outcome.Tracks
		if items == nil {
			items = []track.Track{}
		}
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"items":    items,
			"returned": len(items),
		})
	}))

	router.Method(http.MethodPost, "/catalog/resolve-batch", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Items        []ResolvePair `json:"items"`
			PerItemLimit int           `json:"per_item_limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return apperrors.NewValidationError("items is required")
		}
		if req.PerItemLimit == 0 {
			req.PerItemLimit = 1
		}

		items := service.ResolveBatch(r.Context(), req.Items, req.PerItemLimit)
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"items":    items,
			"returned": len(items),
		})
	}))

	router.Method(http.MethodPost, "/catalog/search-spotify", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return apperrors.NewValidationError("title and artist are required")
		}
		if err := req.validate(); err != nil {
			return err
		}
		if rawSpotify == nil {
			return apperrors.NewUnsupportedError("spotify search is not configured")
		}

		items, err := rawSpotify.SearchTracks(r.Context(), req.Title, req.Artist, ClampLimit(req.Limit))
		if err != nil {
			// Best-effort search renders provider failures as no matches.
			items = nil
		}
		if items == nil {
			items = []spotify.Track{}
		}
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"items":    items,
			"returned": len(items),
		})
	}))

	router.Method(http.MethodPost, "/catalog/search-itunes", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return apperrors.NewValidationError("title and artist are required")
		}
		if err := req.validate(); err != nil {
			return err
		}
		if rawITunes == nil {
			return apperrors.NewUnsupportedError("itunes search is not configured")
		}

		items, err := rawITunes.SearchTracks(r.Context(), req.Title, req.Artist, ClampLimit(req.Limit))
		if err != nil {
			items = nil
		}
		if items == nil {
			items = []itunes.Result{}
		}
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"items":    items,
			"returned": len(items),
		})
	}))

	router.Method(http.MethodPost, "/catalog/audio-features", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Provider string   `json:"provider"`
			IDs      []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return apperrors.NewValidationError("ids is required")
		}
		if len(req.IDs) == 0 {
			return apperrors.NewValidationError("ids is required")
		}
		provider := track.Provider(strings.ToLower(req.Provider))
		if provider == "" {
			provider = track.ProviderSpotify
		}

		features, err := service.AudioFeatures(r.Context(), provider, req.IDs)
		if err != nil {
			return err
		}
		return api.WriteResource(w, http.StatusOK, map[string]any{"items": features})
	}))

	router.Method(http.MethodGet, "/catalog/emotions", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"items": service.Emotions().All(),
		})
	}))

	router.Method(http.MethodGet, "/catalog/emotions/{emotion}", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		emotion := strings.ToLower(chi.URLParam(r, "emotion"))
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"emotion": emotion,
			"params":  service.Emotions().Params(emotion),
		})
	}))
}
