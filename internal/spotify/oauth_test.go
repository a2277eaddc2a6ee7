package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moodtune/moodtune-music-go/internal/pkce"
)

func TestOAuth_AuthorizeURL_CarriesPKCEParams(t *testing.T) {
	oauth := NewOAuth(OAuthConfig{ClientID: "client-1"})

	verifier := pkce.NewVerifier()
	challenge := pkce.Challenge(verifier)
	raw := oauth.AuthorizeURL("https://app.example/cb", "playlist-modify-public", "state-1", challenge)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "accounts.spotify.com", parsed.Host)

	q := parsed.Query()
	require.Equal(t, "client-1", q.Get("client_id"))
	require.Equal(t, "https://app.example/cb", q.Get("redirect_uri"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "state-1", q.Get("state"))
	require.Equal(t, challenge, q.Get("code_challenge"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))

	// The challenge is recomputable from the stored verifier.
	require.Equal(t, pkce.Challenge(verifier), q.Get("code_challenge"))
}

func TestOAuth_Exchange_SendsVerifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		require.Equal(t, "code-1", r.PostForm.Get("code"))
		require.Equal(t, "verifier-1", r.PostForm.Get("code_verifier"))
		require.Equal(t, "https://app.example/cb", r.PostForm.Get("redirect_uri"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-1", user)
		require.Equal(t, "secret", pass)

		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","scope":"s","expires_in":3600}`))
	}))
	t.Cleanup(server.Close)

	oauth := NewOAuth(OAuthConfig{ClientID: "client-1", ClientSecret: "secret", TokenEndpoint: server.URL})
	tokens, err := oauth.Exchange(context.Background(), "code-1", "https://app.example/cb", "verifier-1")
	require.NoError(t, err)
	require.Equal(t, "at", tokens.AccessToken)
	require.Equal(t, "rt", tokens.RefreshToken)
	require.Equal(t, 3600, tokens.ExpiresIn)
}

func TestOAuth_Exchange_PublicClientSendsClientID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client-1", r.PostForm.Get("client_id"))
		_, _, ok := r.BasicAuth()
		require.False(t, ok)
		_, _ = w.Write([]byte(`{"access_token":"at"}`))
	}))
	t.Cleanup(server.Close)

	oauth := NewOAuth(OAuthConfig{ClientID: "client-1", TokenEndpoint: server.URL})
	_, err := oauth.Exchange(context.Background(), "c", "r", "v")
	require.NoError(t, err)
}

func TestOAuth_Refresh_ServerErrorIsDetectable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	oauth := NewOAuth(OAuthConfig{ClientID: "c", TokenEndpoint: server.URL})
	_, err := oauth.Refresh(context.Background(), "rt")
	require.Error(t, err)
	require.True(t, IsServerError(err))
}

func TestOAuth_Refresh_MissingAccessTokenIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	oauth := NewOAuth(OAuthConfig{ClientID: "c", TokenEndpoint: server.URL})
	_, err := oauth.Refresh(context.Background(), "rt")
	require.ErrorIs(t, err, ErrExchangeFailed)
}
