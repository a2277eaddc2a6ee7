package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the base server configuration.
type Config struct {
	Host  string
	Port  string
	Debug bool

	// DefaultProvider selects the catalog used for resolve operations
	// and the playlist provider when the request names none.
	DefaultProvider string

	// CORS
	CORSOrigins []string

	// Frontend callback used when an OAuth flow was started without an
	// explicit callback_url.
	FrontendCallbackURL string

	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyTokenURL     string
	SpotifyAuthorizeURL string
	SpotifyRedirectURI  string
	SpotifyAuthScope    string
	SpotifyUserToken    string
	SpotifyMarket       string
	SpotifyAPIBase      string

	// iTunes Search
	ITunesCountry string
	ITunesAPIBase string

	// Amazon Music
	AmazonClientID     string
	AmazonClientSecret string
	AmazonTokenURL     string
	AmazonAuthorizeURL string
	AmazonRedirectURI  string
	AmazonAuthScope    string
	AmazonTokenScope   string
	AmazonUserToken    string
	AmazonCountry      string
	AmazonAPIBase      string

	// Apple Music. Either a static user token or developer-key settings
	// for generating tokens locally.
	AppleUserToken      string
	AppleTeamID         string
	AppleKeyID          string
	ApplePrivateKeyPath string
	AppleTokenExpirySec int

	// OAuth state lifecycle
	OAuthStateTTLSec   int
	OAuthSweepSchedule string

	// Outbound HTTP timeout in seconds for provider calls.
	ProviderTimeoutSec int

	// EmotionsConfigPath optionally overrides the built-in emotion
	// parameter table with a YAML file.
	EmotionsConfigPath string
}

// Load reads configuration from the environment with defaults.
// A .env file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	return Config{
		Host:  envString("HOST", "0.0.0.0"),
		Port:  envString("PORT", "8000"),
		Debug: envBool("DEBUG", true),

		DefaultProvider: strings.ToLower(envString("DEFAULT_PROVIDER", "spotify")),

		CORSOrigins:         envCSV("CORS_ORIGINS", "*"),
		FrontendCallbackURL: envString("FRONTEND_CALLBACK_URL", ""),

		SpotifyClientID:     envString("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: envString("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyTokenURL:     envString("SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),
		SpotifyAuthorizeURL: envString("SPOTIFY_AUTHORIZE_URL", "https://accounts.spotify.com/authorize"),
		SpotifyRedirectURI:  envString("SPOTIFY_REDIRECT_URI", ""),
		SpotifyAuthScope:    envString("SPOTIFY_AUTH_SCOPE", "playlist-modify-public playlist-modify-private"),
		SpotifyUserToken:    envString("SPOTIFY_USER_TOKEN", ""),
		SpotifyMarket:       strings.ToUpper(envString("SPOTIFY_MARKET", "US")),
		SpotifyAPIBase:      envString("SPOTIFY_API_BASE", "https://api.spotify.com/v1"),

		ITunesCountry: strings.ToUpper(envString("ITUNES_COUNTRY", "US")),
		ITunesAPIBase: envString("ITUNES_API_BASE", "https://itunes.apple.com"),

		AmazonClientID:     envString("AMAZON_MUSIC_CLIENT_ID", ""),
		AmazonClientSecret: envString("AMAZON_MUSIC_CLIENT_SECRET", ""),
		AmazonTokenURL:     envString("AMAZON_MUSIC_TOKEN_URL", "https://api.amazon.com/auth/o2/token"),
		AmazonAuthorizeURL: envString("AMAZON_MUSIC_AUTHORIZE_URL", "https://www.amazon.com/ap/oa"),
		AmazonRedirectURI:  envString("AMAZON_MUSIC_AUTH_REDIRECT_URI", ""),
		AmazonAuthScope:    envString("AMAZON_MUSIC_AUTH_SCOPE", "music::library:read"),
		AmazonTokenScope:   envString("AMAZON_MUSIC_TOKEN_SCOPE", ""),
		AmazonUserToken:    envString("AMAZON_MUSIC_USER_TOKEN", ""),
		AmazonCountry:      strings.ToUpper(envString("AMAZON_MUSIC_COUNTRY", "US")),
		AmazonAPIBase:      strings.TrimRight(envString("AMAZON_MUSIC_API_BASE", "https://api.music.amazon.dev/v1"), "/"),

		AppleUserToken:      envString("APPLE_MUSIC_USER_TOKEN", ""),
		AppleTeamID:         envString("APPLE_TEAM_ID", ""),
		AppleKeyID:          envString("APPLE_KEY_ID", ""),
		ApplePrivateKeyPath: envString("APPLE_PRIVATE_KEY_PATH", ""),
		AppleTokenExpirySec: envInt("APPLE_TOKEN_EXPIRY_SECONDS", 3600),

		OAuthStateTTLSec:   envInt("OAUTH_STATE_TTL_SECONDS", 600),
		OAuthSweepSchedule: envString("OAUTH_STATE_SWEEP_SCHEDULE", "@every 1m"),

		ProviderTimeoutSec: envInt("PROVIDER_TIMEOUT_SECONDS", 20),

		EmotionsConfigPath: envString("EMOTIONS_CONFIG_PATH", ""),
	}, nil
}

func envString(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.EqualFold(val, "true")
}

func envCSV(key, fallback string) []string {
	val := os.Getenv(key)
	if val == "" {
		val = fallback
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}
