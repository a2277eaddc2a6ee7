package itunes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{APIBase: server.URL, Country: "US", Timeout: 2 * time.Second})
}

func TestClient_SearchTracks_BlankInputShortCircuits(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	results, err := client.SearchTracks(context.Background(), "", "The Beatles", 1)
	require.NoError(t, err)
	require.Empty(t, results)
	require.False(t, called)
}

func TestClient_SearchTracks_SendsSearchParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "Yesterday The Beatles", r.URL.Query().Get("term"))
		require.Equal(t, "music", r.URL.Query().Get("media"))
		require.Equal(t, "song", r.URL.Query().Get("entity"))
		require.Equal(t, "3", r.URL.Query().Get("limit"))
		require.Equal(t, "US", r.URL.Query().Get("country"))

		_, _ = w.Write([]byte(`{"resultCount":1,"results":[{"trackId":12345,"trackName":"Yesterday","artistName":"The Beatles"}]}`))
	})

	results, err := client.SearchTracks(context.Background(), "Yesterday", "The Beatles", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(12345), results[0].TrackID)
}

func TestClient_SearchTracks_ClampsLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "50", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"resultCount":0,"results":[]}`))
	})

	_, err := client.SearchTracks(context.Background(), "a", "b", 400)
	require.NoError(t, err)
}

func TestClient_SearchTracks_ErrorStatusSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.SearchTracks(context.Background(), "a", "b", 1)
	require.Error(t, err)
}
