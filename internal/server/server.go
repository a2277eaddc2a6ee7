// Package server wires configuration, provider clients, and routes into
// the HTTP handler.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"

	"github.com/moodtune/moodtune-music-go/internal/amazonmusic"
	"github.com/moodtune/moodtune-music-go/internal/api"
	"github.com/moodtune/moodtune-music-go/internal/auth"
	"github.com/moodtune/moodtune-music-go/internal/catalog"
	"github.com/moodtune/moodtune-music-go/internal/config"
	"github.com/moodtune/moodtune-music-go/internal/credentials"
	"github.com/moodtune/moodtune-music-go/internal/itunes"
	"github.com/moodtune/moodtune-music-go/internal/metrics"
	"github.com/moodtune/moodtune-music-go/internal/pkce"
	"github.com/moodtune/moodtune-music-go/internal/playlists"
	"github.com/moodtune/moodtune-music-go/internal/retry"
	"github.com/moodtune/moodtune-music-go/internal/spotify"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

const serviceName = "moodtune_music"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLoggerMiddleware logs all incoming HTTP requests.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start).Round(time.Millisecond))
	})
}

// NewHandler builds the HTTP handler and returns a shutdown function.
// Provider clients are constructed only when their credentials are
// configured; endpoints for absent providers report unsupported.
func NewHandler(cfg config.Config) (http.Handler, func(context.Context) error, error) {
	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(requestLoggerMiddleware)
	router.Use(api.RequestIDMiddleware)
	router.Use(api.RecovererMiddleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-request-id"},
		AllowCredentials: true,
	}))

	registerBaseRoutes(router, cfg)

	providerTimeout := time.Duration(cfg.ProviderTimeoutSec) * time.Second

	// OAuth state store with a periodic sweep for orphaned entries.
	stateStore := pkce.NewStore(time.Duration(cfg.OAuthStateTTLSec) * time.Second)
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.OAuthSweepSchedule, stateStore.PurgeExpired); err != nil {
		return nil, nil, err
	}
	sweeper.Start()

	oauth := spotify.NewOAuth(spotify.OAuthConfig{
		ClientID:          cfg.SpotifyClientID,
		ClientSecret:      cfg.SpotifyClientSecret,
		AuthorizeEndpoint: cfg.SpotifyAuthorizeURL,
		TokenEndpoint:     cfg.SpotifyTokenURL,
		Timeout:           providerTimeout,
	})
	auth.RegisterRoutes(router, stateStore, oauth, cfg)

	if appleTokens := appleTokenSource(cfg); appleTokens != nil {
		auth.RegisterAppleRoutes(router, appleTokens)
	}

	var spotifyClient *spotify.Client
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		tokens, err := credentials.NewSpotifyClientCredentials(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyTokenURL)
		if err != nil {
			return nil, nil, err
		}
		spotifyClient = spotify.NewClient(spotify.ClientConfig{
			Tokens:  tokens,
			APIBase: cfg.SpotifyAPIBase,
			Market:  cfg.SpotifyMarket,
			Timeout: providerTimeout,
		})
	}

	itunesClient := itunes.NewClient(itunes.ClientConfig{
		APIBase: cfg.ITunesAPIBase,
		Country: cfg.ITunesCountry,
	})

	var amazonClient *amazonmusic.Client
	if cfg.AmazonClientID != "" && cfg.AmazonClientSecret != "" {
		tokens, err := credentials.NewAmazonClientCredentials(cfg.AmazonClientID, cfg.AmazonClientSecret, cfg.AmazonTokenURL, cfg.AmazonTokenScope)
		if err != nil {
			return nil, nil, err
		}
		amazonCfg := amazonmusic.ClientConfig{
			Tokens:  tokens,
			APIBase: cfg.AmazonAPIBase,
			Country: cfg.AmazonCountry,
			Timeout: providerTimeout,
		}
		if spotifyClient != nil {
			amazonCfg.Spotify = spotifyClient
		}
		amazonClient = amazonmusic.NewClient(amazonCfg)
	}

	emotions, err := catalog.LoadEmotionTable(cfg.EmotionsConfigPath)
	if err != nil {
		return nil, nil, err
	}

	registrations := []catalog.Registration{
		{Kind: track.ProviderITunes, Searcher: catalog.NewITunesSearcher(itunesClient)},
	}
	if spotifyClient != nil {
		registrations = append(registrations, catalog.Registration{
			Kind:     track.ProviderSpotify,
			Searcher: catalog.NewSpotifySearcher(spotifyClient),
			Features: catalog.NewSpotifyFeatures(spotifyClient),
		})
	}
	if amazonClient != nil {
		registrations = append(registrations, catalog.Registration{
			Kind:     track.ProviderAmazon,
			Features: catalog.NewAmazonFeatures(amazonClient),
		})
	}

	catalogService := catalog.NewService(catalog.NewRegistry(registrations...), track.Provider(cfg.DefaultProvider), emotions)
	var rawSpotify catalog.RawSpotifySearch
	if spotifyClient != nil {
		rawSpotify = spotifyClient
	}
	catalog.RegisterRoutes(router, catalogService, rawSpotify, itunesClient)

	playlistRegistry := playlists.NewRegistry()
	playlistRegistry.Register(track.ProviderSpotify, playlists.NewSpotifyProvider(
		spotify.NewPlaylists(cfg.SpotifyAPIBase, providerTimeout, retry.New()),
	))
	playlists.RegisterRoutes(router, playlistRegistry, cfg)

	shutdown := func(ctx context.Context) error {
		stopCtx := sweeper.Stop()
		if ctx == nil {
			return nil
		}
		select {
		case <-stopCtx.Done():
		case <-ctx.Done():
		}
		return nil
	}

	return router, shutdown, nil
}

// appleTokenSource prefers locally generated developer tokens over a
// configured static token. Returns nil when Apple is not configured.
func appleTokenSource(cfg config.Config) credentials.TokenSource {
	if cfg.AppleTeamID != "" && cfg.AppleKeyID != "" && cfg.ApplePrivateKeyPath != "" {
		tokens, err := credentials.NewAppleDeveloperToken(credentials.DeveloperTokenConfig{
			TeamID:         cfg.AppleTeamID,
			KeyID:          cfg.AppleKeyID,
			PrivateKeyPath: cfg.ApplePrivateKeyPath,
			Expiry:         time.Duration(cfg.AppleTokenExpirySec) * time.Second,
		})
		if err != nil {
			log.Printf("apple developer token disabled: %v", err)
		} else {
			return tokens
		}
	}
	if cfg.AppleUserToken != "" {
		tokens, err := credentials.NewStaticToken("apple", cfg.AppleUserToken, time.Duration(cfg.AppleTokenExpirySec)*time.Second)
		if err == nil {
			return tokens
		}
	}
	return nil
}

func registerBaseRoutes(router chi.Router, cfg config.Config) {
	router.Method(http.MethodGet, "/", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{
			"name":   serviceName,
			"status": "ok",
		})
	}))

	router.Method(http.MethodGet, "/health", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": serviceName,
			"debug":   cfg.Debug,
		})
	}))

	router.Handle("/metrics", metrics.Handler())
}
