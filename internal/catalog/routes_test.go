package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/moodtune/moodtune-music-go/internal/itunes"
	"github.com/moodtune/moodtune-music-go/internal/spotify"
	"github.com/moodtune/moodtune-music-go/internal/track"
)

type stubRawSpotify struct {
	tracks []spotify.Track
	err    error
}

func (s stubRawSpotify) SearchTracks(ctx context.Context, title, artist string, limit int) ([]spotify.Track, error) {
	return s.tracks, s.err
}

type stubRawITunes struct {
	results []itunes.Result
}

func (s stubRawITunes) SearchTracks(ctx context.Context, title, artist string, limit int) ([]itunes.Result, error) {
	return s.results, nil
}

func newTestRouter(service *Service, rawSpotify RawSpotifySearch, rawITunes RawITunesSearch) *chi.Mux {
	router := chi.NewRouter()
	RegisterRoutes(router, service, rawSpotify, rawITunes)
	return router
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestResolveRoute_ReturnsNormalizedItems(t *testing.T) {
	searcher := &stubSearcher{outcome: SearchOutcome{Tracks: []track.Track{
		{ID: "spotify-t1", Provider: track.ProviderSpotify, Title: "Yesterday", Artist: "The Beatles"},
	}}}
	service := NewService(NewRegistry(Registration{Kind: track.ProviderSpotify, Searcher: searcher}), track.ProviderSpotify, nil)
	router := newTestRouter(service, nil, nil)

	rec := postJSON(t, router, "/catalog/resolve", `{"title":"Yesterday","artist":"The Beatles"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Items    []track.Track `json:"items"`
		Returned int           `json:"returned"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 1, payload.Returned)
	require.Equal(t, "Yesterday", payload.Items[0].Title)
}

func TestResolveRoute_MissingFieldsRejected(t *testing.T) {
	service := NewService(NewRegistry(), track.ProviderSpotify, nil)
	router := newTestRouter(service, nil, nil)

	rec := postJSON(t, router, "/catalog/resolve", `{"title":"Yesterday"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestResolveBatchRoute_PreservesIndexes(t *testing.T) {
	searcher := &stubSearcher{outcome: SearchOutcome{Tracks: []track.Track{completeTrack("t1")}}}
	service := NewService(NewRegistry(Registration{Kind: track.ProviderSpotify, Searcher: searcher}), track.ProviderSpotify, nil)
	router := newTestRouter(service, nil, nil)

	rec := postJSON(t, router, "/catalog/resolve-batch", `{"items":[{"title":"One","artist":"A"},{"title":"","artist":"B"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Items    []BatchItem `json:"items"`
		Returned int         `json:"returned"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 2, payload.Returned)
	require.Equal(t, 0, payload.Items[0].Index)
	require.Len(t, payload.Items[0].Items, 1)
	require.Equal(t, 1, payload.Items[1].Index)
	require.Empty(t, payload.Items[1].Items)
}

func TestSearchSpotifyRoute_ProviderFailureRendersEmpty(t *testing.T) {
	service := NewService(NewRegistry(), track.ProviderSpotify, nil)
	router := newTestRouter(service, stubRawSpotify{err: errors.New("unreachable")}, nil)

	rec := postJSON(t, router, "/catalog/search-spotify", `{"title":"a","artist":"b"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[],"returned":0}`, rec.Body.String())
}

func TestSearchITunesRoute_ReturnsRawResults(t *testing.T) {
	service := NewService(NewRegistry(), track.ProviderSpotify, nil)
	router := newTestRouter(service, nil, stubRawITunes{results: []itunes.Result{
		{TrackID: 1, TrackName: "Yesterday", ArtistName: "The Beatles"},
	}})

	rec := postJSON(t, router, "/catalog/search-itunes", `{"title":"Yesterday","artist":"The Beatles"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"trackName":"Yesterday"`)
}

func TestAudioFeaturesRoute_DefaultsToSpotify(t *testing.T) {
	features := &stubFeatures{features: map[string]track.AudioFeatures{"t1": {Valence: 0.9, Energy: 0.1}}}
	service := NewService(NewRegistry(Registration{Kind: track.ProviderSpotify, Features: features}), track.ProviderSpotify, nil)
	router := newTestRouter(service, nil, nil)

	rec := postJSON(t, router, "/catalog/audio-features", `{"ids":["t1"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":{"t1":{"valence":0.9,"energy":0.1}}}`, rec.Body.String())
}

func TestAudioFeaturesRoute_UnsupportedProvider(t *testing.T) {
	service := NewService(NewRegistry(Registration{Kind: track.ProviderITunes, Searcher: &stubSearcher{}}), track.ProviderITunes, nil)
	router := newTestRouter(service, nil, nil)

	rec := postJSON(t, router, "/catalog/audio-features", `{"provider":"itunes","ids":["t1"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "UNSUPPORTED_OPERATION")
}

func TestAudioFeaturesRoute_MissingIDsRejected(t *testing.T) {
	service := NewService(NewRegistry(), track.ProviderSpotify, nil)
	router := newTestRouter(service, nil, nil)

	rec := postJSON(t, router, "/catalog/audio-features", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmotionsRoutes(t *testing.T) {
	service := NewService(NewRegistry(), track.ProviderSpotify, nil)
	router := newTestRouter(service, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/catalog/emotions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"happy"`)

	req = httptest.NewRequest(http.MethodGet, "/catalog/emotions/HAPPY", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"emotion":"happy","params":{"valence":[0.6,1.0],"energy":[0.5,1.0]}}`, rec.Body.String())

	// Unknown emotions report the neutral fallback.
	req = httptest.NewRequest(http.MethodGet, "/catalog/emotions/confused", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"emotion":"confused","params":{"valence":[0.4,0.6],"energy":[0.4,0.6]}}`, rec.Body.String())
}
