// Package auth exposes the OAuth endpoints: Spotify authorization-code
// with PKCE plus the Amazon authorize-URL builder.
package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/moodtune/moodtune-music-go/internal/api"
	"github.com/moodtune/moodtune-music-go/internal/apperrors"
	"github.com/moodtune/moodtune-music-go/internal/config"
	"github.com/moodtune/moodtune-music-go/internal/credentials"
	"github.com/moodtune/moodtune-music-go/internal/pkce"
	"github.com/moodtune/moodtune-music-go/internal/spotify"
)

// SpotifyOAuth is the slice of the Spotify OAuth client these routes
// need. Satisfied by *spotify.OAuth.
type SpotifyOAuth interface {
	AuthorizeURL(redirectURI, scope, state, challenge string) string
	Exchange(ctx context.Context, code, redirectURI, verifier string) (*spotify.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*spotify.TokenResponse, error)
}

// RegisterRoutes wires auth routes to the router.
func RegisterRoutes(router chi.Router, store *pkce.Store, oauth SpotifyOAuth, cfg config.Config) {
	router.Method(http.MethodGet, "/auth/spotify", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		if cfg.SpotifyClientID == "" {
			return apperrors.NewConfigError("SPOTIFY_CLIENT_ID is not configured")
		}

		redirectURI := r.URL.Query().Get("redirect_uri")
		if redirectURI == "" {
			redirectURI = cfg.SpotifyRedirectURI
		}
		if redirectURI == "" {
			return apperrors.NewValidationError("redirect_uri is required")
		}

		scope := r.URL.Query().Get("scope")
		if scope == "" {
			scope = cfg.SpotifyAuthScope
		}

		verifier := pkce.NewVerifier()
		state, err := store.Issue(verifier, r.URL.Query().Get("callback_url"))
		if err != nil {
			return apperrors.NewInternalError("could not issue authorization state")
		}

		return api.WriteResource(w, http.StatusOK, map[string]any{
			"authorize_url": oauth.AuthorizeURL(redirectURI, scope, state, pkce.Challenge(verifier)),
			"state":         state,
		})
	}))

	router.Method(http.MethodGet, "/auth/spotify/callback", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		query := r.URL.Query()
		code := query.Get("code")
		state := query.Get("state")

		entry, consumed := pkce.Entry{}, false
		if state != "" {
			entry, consumed = store.Consume(state)
		}
		callbackURL := entry.CallbackURL
		if callbackURL == "" {
			callbackURL = cfg.FrontendCallbackURL
		}
		if callbackURL == "" {
			callbackURL = "/"
		}

		if providerErr := query.Get("error"); providerErr != "" {
			redirectError(w, r, callbackURL, providerErr)
			return nil
		}
		if code == "" || state == "" {
			redirectError(w, r, callbackURL, "missing_code_or_state")
			return nil
		}
		if !consumed {
			// Unknown, expired, or replayed state. No exchange is attempted.
			redirectError(w, r, callbackURL, "invalid_state")
			return nil
		}
		if cfg.SpotifyRedirectURI == "" {
			redirectError(w, r, callbackURL, "redirect_uri_not_configured")
			return nil
		}

		tokens, err := oauth.Exchange(r.Context(), code, cfg.SpotifyRedirectURI, entry.Verifier)
		if err != nil {
			reason := "token_exchange_failed"
			if spotify.IsServerError(err) {
				reason = "spotify_server_error"
			}
			log.Printf("spotify token exchange failed: %v", err)
			redirectError(w, r, callbackURL, reason)
			return nil
		}

		redirectTokens(w, r, callbackURL, state, tokens)
		return nil
	}))

	router.Method(http.MethodPost, "/auth/spotify/refresh", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return apperrors.NewValidationError("refresh_token is required")
		}
		if body.RefreshToken == "" {
			return apperrors.NewValidationError("refresh_token is required")
		}

		tokens, err := oauth.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			if spotify.IsServerError(err) {
				return apperrors.NewProviderError("spotify token refresh failed", err)
			}
			return apperrors.NewAuthError("could not refresh token")
		}

		return api.WriteResource(w, http.StatusOK, map[string]any{
			"provider":      "spotify",
			"token_type":    tokens.TokenType,
			"scope":         tokens.Scope,
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_in":    tokens.ExpiresIn,
		})
	}))

	router.Method(http.MethodGet, "/auth/amazon", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		if cfg.AmazonClientID == "" {
			return apperrors.NewConfigError("AMAZON_MUSIC_CLIENT_ID is not configured")
		}

		redirectURI := r.URL.Query().Get("redirect_uri")
		if redirectURI == "" {
			redirectURI = cfg.AmazonRedirectURI
		}
		if redirectURI == "" {
			return apperrors.NewValidationError("redirect_uri is required")
		}

		scope := strings.TrimSpace(r.URL.Query().Get("scope"))
		if scope == "" {
			scope = cfg.AmazonAuthScope
		}
		if scope == "" {
			scope = "music::library:read"
		}

		authorizeBase := cfg.AmazonAuthorizeURL
		if authorizeBase == "" {
			authorizeBase = "https://www.amazon.com/ap/oa"
		}

		params := url.Values{}
		params.Set("client_id", cfg.AmazonClientID)
		params.Set("redirect_uri", redirectURI)
		params.Set("response_type", "code")
		params.Set("scope", scope)

		return api.WriteResource(w, http.StatusOK, map[string]any{
			"authorize_url": authorizeBase + "?" + params.Encode(),
		})
	}))
}

// RegisterAppleRoutes exposes the Apple Music developer token for
// frontend MusicKit sessions. Registered only when Apple key material or
// a static token is configured.
func RegisterAppleRoutes(router chi.Router, tokens credentials.TokenSource) {
	router.Method(http.MethodGet, "/auth/apple", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		token, err := tokens.Token(r.Context())
		if err != nil {
			return apperrors.NewProviderError("could not mint apple developer token", err)
		}
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"provider":        "apple",
			"developer_token": token,
		})
	}))
}

// redirectError sends the browser back to the frontend with the failure
// reason in the query string.
func redirectError(w http.ResponseWriter, r *http.Request, callbackURL, reason string) {
	target, err := url.Parse(callbackURL)
	if err != nil {
		http.Redirect(w, r, "/?error="+url.QueryEscape(reason), http.StatusFound)
		return
	}
	query := target.Query()
	query.Set("error", reason)
	target.RawQuery = query.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

// redirectTokens sends the browser back to the frontend with tokens in
// the URL fragment, keeping them out of server access logs.
func redirectTokens(w http.ResponseWriter, r *http.Request, callbackURL, state string, tokens *spotify.TokenResponse) {
	fragment := url.Values{}
	fragment.Set("access_token", tokens.AccessToken)
	if tokens.RefreshToken != "" {
		fragment.Set("refresh_token", tokens.RefreshToken)
	}
	if tokens.ExpiresIn > 0 {
		fragment.Set("expires_in", strconv.Itoa(tokens.ExpiresIn))
	}
	if tokens.TokenType != "" {
		fragment.Set("token_type", tokens.TokenType)
	}
	if tokens.Scope != "" {
		fragment.Set("scope", tokens.Scope)
	}
	fragment.Set("state", state)
	http.Redirect(w, r, callbackURL+"#"+fragment.Encode(), http.StatusFound)
}
