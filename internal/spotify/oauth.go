package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAuthorizeEndpoint is Spotify's user authorization page.
	DefaultAuthorizeEndpoint = "https://accounts.spotify.com/authorize"
	// DefaultTokenEndpoint exchanges authorization codes and refresh tokens.
	DefaultTokenEndpoint = "https://accounts.spotify.com/api/token"
)

// ErrExchangeFailed wraps transport failures and provider rejections of
// a code or refresh-token exchange.
var ErrExchangeFailed = errors.New("spotify: token exchange failed")

// OAuth drives the authorization-code flow with PKCE.
type OAuth struct {
	clientID          string
	clientSecret      string
	authorizeEndpoint string
	tokenEndpoint     string
	httpClient        *http.Client
}

// OAuthConfig holds configuration for creating an OAuth client. The
// client secret is optional: public PKCE clients omit it.
type OAuthConfig struct {
	ClientID          string
	ClientSecret      string
	AuthorizeEndpoint string
	TokenEndpoint     string
	Timeout           time.Duration
}

// NewOAuth creates the OAuth client.
func NewOAuth(cfg OAuthConfig) *OAuth {
	authorizeEndpoint := cfg.AuthorizeEndpoint
	if authorizeEndpoint == "" {
		authorizeEndpoint = DefaultAuthorizeEndpoint
	}
	tokenEndpoint := cfg.TokenEndpoint
	if tokenEndpoint == "" {
		tokenEndpoint = DefaultTokenEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &OAuth{
		clientID:          cfg.ClientID,
		clientSecret:      cfg.ClientSecret,
		authorizeEndpoint: authorizeEndpoint,
		tokenEndpoint:     tokenEndpoint,
		httpClient:        &http.Client{Timeout: timeout},
	}
}

// TokenResponse is the provider's token payload, passed through to the
// frontend unmodified.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AuthorizeURL builds the user consent URL advertising the S256
// challenge method.
func (o *OAuth) AuthorizeURL(redirectURI, scope, state, challenge string) string {
	params := url.Values{}
	params.Set("client_id", o.clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	if scope != "" {
		params.Set("scope", scope)
	}
	params.Set("state", state)
	params.Set("code_challenge", challenge)
	params.Set("code_challenge_method", "S256")
	return o.authorizeEndpoint + "?" + params.Encode()
}

// Exchange trades an authorization code plus its PKCE verifier for
// tokens.
func (o *OAuth) Exchange(ctx context.Context, code, redirectURI, verifier string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("code_verifier", verifier)
	return o.tokenRequest(ctx, form)
}

// Refresh trades a refresh token for a new access token. Stateless: no
// PKCE entry is involved.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return o.tokenRequest(ctx, form)
}

func (o *OAuth) tokenRequest(ctx context.Context, form url.Values) (*TokenResponse, error) {
	if o.clientSecret == "" {
		form.Set("client_id", o.clientID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if o.clientSecret != "" {
		req.SetBasicAuth(o.clientID, o.clientSecret)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &apiError{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExchangeFailed, err)
	}
	if parsed.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ErrExchangeFailed)
	}
	return &parsed, nil
}
