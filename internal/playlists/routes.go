package playlists

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/moodtune/moodtune-music-go/internal/api"
	"github.com/moodtune/moodtune-music-go/internal/apperrors"
	"github.com/moodtune/moodtune-music-go/internal/config"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

// CreationResult is the response for a successful playlist creation.
type CreationResult struct {
	Provider           track.Provider `json:"provider"`
	ExternalPlaylistID string         `json:"external_playlist_id"`
	DeepLinkURL        string         `json:"deep_link_url"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	TracksAdded        int            `json:"tracks_added"`
}

type createRequest struct {
	Provider       string   `json:"provider"`
	AccessToken    string   `json:"provider_access_token"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	URIs           []string `json:"uris"`
	ProviderUserID string   `json:"provider_user_id"`

	// Passthrough fields for the moodtune endpoint, echoed unchanged.
	UserID      string `json:"user_id,omitempty"`
	InferenceID string `json:"inference_id,omitempty"`
	Intention   string `json:"intention,omitempty"`
	Emotion     string `json:"emotion,omitempty"`
}

// RegisterRoutes wires playlist routes to the router.
func RegisterRoutes(router chi.Router, registry *Registry, cfg config.Config) {
	router.Method(http.MethodPost, "/playlists", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		req, err := decodeCreateRequest(r, cfg)
		if err != nil {
			return err
		}
		result, err := createPlaylist(r, registry, cfg, req)
		if err != nil {
			return err
		}
		return api.WriteResource(w, http.StatusCreated, result)
	}))

	router.Method(http.MethodPost, "/playlists/moodtune", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		req, err := decodeCreateRequest(r, cfg)
		if err != nil {
			return err
		}
		result, err := createPlaylist(r, registry, cfg, req)
		if err != nil {
			return err
		}
		return api.WriteResource(w, http.StatusCreated, map[string]any{
			"provider":             result.Provider,
			"external_playlist_id": result.ExternalPlaylistID,
			"deep_link_url":        result.DeepLinkURL,
			"title":                result.Title,
			"description":          result.Description,
			"tracks_added":         result.TracksAdded,
			"user_id":              req.UserID,
			"inference_id":         req.InferenceID,
			"intention":            req.Intention,
			"emotion":              req.Emotion,
		})
	}))

	router.Method(http.MethodPost, "/playlists/content", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Provider           string `json:"provider"`
			AccessToken        string `json:"provider_access_token"`
			ExternalPlaylistID string `json:"external_playlist_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return apperrors.NewValidationError("external_playlist_id is required")
		}
		if req.ExternalPlaylistID == "" {
			return apperrors.NewValidationError("external_playlist_id is required")
		}

		kind := resolveKind(req.Provider, cfg)
		provider, ok := registry.Lookup(kind)
		if !ok {
			return apperrors.NewUnsupportedError("unsupported provider: " + string(kind))
		}
		token := fallbackToken(req.AccessToken, kind, cfg)
		if token == "" {
			return apperrors.NewValidationError("provider_access_token is required")
		}

		content, err := provider.FetchPlaylist(r.Context(), token, req.ExternalPlaylistID)
		if err != nil {
			return apperrors.NewProviderError("could not fetch playlist", err)
		}
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"provider": kind,
			"playlist": content,
		})
	}))
}

func decodeCreateRequest(r *http.Request, cfg config.Config) (createRequest, error) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperrors.NewValidationError("title is required")
	}

	req.AccessToken = fallbackToken(req.AccessToken, resolveKind(req.Provider, cfg), cfg)
	if req.AccessToken == "" {
		return req, apperrors.NewValidationError("provider_access_token is required")
	}
	if req.Title == "" {
		return req, apperrors.NewValidationError("title is required")
	}
	if len(req.URIs) == 0 {
		return req, apperrors.NewValidationError("uris is required")
	}
	return req, nil
}

func createPlaylist(r *http.Request, registry *Registry, cfg config.Config, req createRequest) (*CreationResult, error) {
	kind := resolveKind(req.Provider, cfg)
	provider, ok := registry.Lookup(kind)
	if !ok {
		return nil, apperrors.NewUnsupportedError("unsupported provider: " + string(kind))
	}

	created, err := provider.CreatePlaylist(r.Context(), req.AccessToken, req.Title, req.Description, req.ProviderUserID)
	if err != nil {
		return nil, apperrors.NewProviderError("could not create playlist", err)
	}
	if created.ID == "" {
		return nil, apperrors.NewProviderError("provider returned no playlist id", nil)
	}

	if err := provider.AddTracks(r.Context(), req.AccessToken, created.ID, req.URIs); err != nil {
		return nil, apperrors.NewProviderError("could not add tracks to playlist", err)
	}

	return &CreationResult{
		Provider:           kind,
		ExternalPlaylistID: created.ID,
		DeepLinkURL:        provider.Deeplink(created.ID),
		Title:              req.Title,
		Description:        req.Description,
		TracksAdded:        len(req.URIs),
	}, nil
}

func resolveKind(name string, cfg config.Config) track.Provider {
	if name == "" {
		name = cfg.DefaultProvider
	}
	return track.Provider(strings.ToLower(name))
}

// fallbackToken substitutes the configured static user token when the
// request carries none.
func fallbackToken(token string, kind track.Provider, cfg config.Config) string {
	if token != "" {
		return token
	}
	switch kind {
	case track.ProviderSpotify:
		return cfg.SpotifyUserToken
	case track.ProviderAmazon:
		return cfg.AmazonUserToken
	case track.ProviderApple:
		return cfg.AppleUserToken
	}
	return ""
}
