package credentials

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// NewSpotifyClientCredentials returns a cached application token source
// for the Spotify catalog. Credentials travel in the Basic auth header.
func NewSpotifyClientCredentials(clientID, clientSecret, tokenURL string) (*Cache, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client credentials require a client id and secret")
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	return NewCache("spotify", exchange(conf)), nil
}

// NewAmazonClientCredentials returns a cached application token source
// for the Amazon Music API. Amazon expects the credentials repeated in
// the form body alongside the Basic auth header.
func NewAmazonClientCredentials(clientID, clientSecret, tokenURL, scope string) (*Cache, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("amazon music requires AMAZON_MUSIC_CLIENT_ID and AMAZON_MUSIC_CLIENT_SECRET")
	}

	params := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}
	conf := &clientcredentials.Config{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		TokenURL:       tokenURL,
		AuthStyle:      oauth2.AuthStyleInHeader,
		EndpointParams: params,
	}
	if scope != "" {
		conf.Scopes = []string{scope}
	}
	return NewCache("amazon", exchange(conf)), nil
}

func exchange(conf *clientcredentials.Config) FetchFunc {
	return func(ctx context.Context) (string, time.Duration, error) {
		tok, err := conf.Token(ctx)
		if err != nil {
			return "", 0, err
		}
		expiresIn := time.Hour
		if !tok.Expiry.IsZero() {
			expiresIn = time.Until(tok.Expiry)
		}
		return tok.AccessToken, expiresIn, nil
	}
}
