package jackett

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		URL:    server.URL,
		APIKey: "test-api-key",
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	return client, server
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(ClientConfig{URL: "http://localhost:9117/", Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9117", client.baseURL)
}

func TestClient_AttachesAPIKey(t *testing.T) {
	var gotParam, gotHeader string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotParam = r.URL.Query().Get("apikey")
		gotHeader = r.Header.Get("X-Api-Key")
		w.Write([]byte(`[]`))
	})

	_, err := client.GetIndexers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-api-key", gotParam)
	assert.Equal(t, "test-api-key", gotHeader)
}

func TestGetIndexers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2.0/indexers", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("configured"))
		w.Write([]byte(`[
			{
				"id": "alpha",
				"name": "Alpha",
				"configured": true,
				"caps": {
					"searching": {
						"movie-search": {"available": true, "supportedParams": ["q", "imdbid"]}
					},
					"categories": [{"id": 2000, "name": "Movies"}]
				}
			},
			{"id": "beta", "name": "Beta", "configured": false}
		]`))
	})

	indexers, err := client.GetIndexers(context.Background())
	require.NoError(t, err)
	require.Len(t, indexers, 2)

	assert.Equal(t, "alpha", indexers[0].ID)
	assert.True(t, indexers[0].SupportsImdb())
	assert.True(t, indexers[0].SupportsCategory())

	assert.False(t, indexers[1].SupportsImdb())
	assert.False(t, indexers[1].SupportsCategory())
}

func TestGetIndexers_ErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetIndexers(context.Background())
	assert.Error(t, err)
}

func TestResults_ReturnsRawStatusAndBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2.0/indexers/alpha/results", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("Query"))
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream broke`))
	})

	params := url.Values{}
	params.Set("Query", "dune")

	status, body, err := client.Results(context.Background(), "alpha", params)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "upstream broke", string(body))
}

func TestResults_EscapesIndexerID(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{}`))
	})

	_, _, err := client.Results(context.Background(), "odd/id", nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/v2.0/indexers/odd%2Fid/results", gotPath)
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	assert.NoError(t, client.Ping(context.Background()))

	failing, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.Error(t, failing.Ping(context.Background()))
}
