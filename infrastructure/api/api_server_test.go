package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	photofind "github.com/pickworth/photofind"
	"github.com/pickworth/photofind/domain/photo"
	"github.com/pickworth/photofind/infrastructure/api"
)

// stubEmbedder returns a fixed query vector, or fails on demand.
type stubEmbedder struct {
	vector []float64
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = s.vector
	}
	return vectors, nil
}

func newTestServer(t *testing.T, embedder *stubEmbedder, apiKeys []string) (*httptest.Server, *photofind.Client) {
	t.Helper()

	opts := []photofind.Option{
		photofind.WithSQLite(filepath.Join(t.TempDir(), "test.db")),
		photofind.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if embedder != nil {
		opts = append(opts, photofind.WithEmbedder(embedder))
	}
	if len(apiKeys) > 0 {
		opts = append(opts, photofind.WithAPIKeys(apiKeys))
	}

	client, err := photofind.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	server := httptest.NewServer(api.NewAPIServer(client, apiKeys).Handler())
	t.Cleanup(server.Close)
	return server, client
}

func seedPhotos(t *testing.T, client *photofind.Client) {
	t.Helper()

	_, err := client.Photos.Import(context.Background(), []photo.Photo{
		photo.New("p-beach", "beach.jpg").
			WithCaption("kids building sandcastles").
			WithKeywords([]string{"beach", "summer"}).
			WithEmbedding([]float64{1, 0, 0}),
		photo.New("p-dog", "dog.jpg").
			WithCaption("dog in the garden").
			WithEmbedding([]float64{0, 1, 0}),
		photo.New("p-snow", "snow.jpg").
			WithCaption("snowy mountain trip").
			WithEmbedding([]float64{-1, 0, 0}),
	})
	require.NoError(t, err)
}

func postSearch(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(server.URL+"/api/v1/search", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var data map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	return data
}

func TestSearchEndpoint(t *testing.T) {
	server, client := newTestServer(t, &stubEmbedder{vector: []float64{1, 0, 0}}, nil)
	seedPhotos(t, client)

	resp := postSearch(t, server, `{"query": "kids at the beach"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	// Embedding vectors never leave the server.
	assert.NotContains(t, string(raw), "embedding")

	var body struct {
		Results []struct {
			ID       string   `json:"id"`
			Filename string   `json:"filename"`
			Caption  string   `json:"caption"`
			Keywords []string `json:"keywords"`
			Score    float64  `json:"score"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Results, 3)

	assert.Equal(t, "p-beach", body.Results[0].ID)
	assert.Equal(t, "beach.jpg", body.Results[0].Filename)
	assert.Equal(t, []string{"beach", "summer"}, body.Results[0].Keywords)
	assert.InDelta(t, 1.0, body.Results[0].Score, 0.001)
	assert.Equal(t, "p-dog", body.Results[1].ID)
	assert.Equal(t, "p-snow", body.Results[2].ID)
}

func TestSearchEndpoint_Limit(t *testing.T) {
	server, client := newTestServer(t, &stubEmbedder{vector: []float64{1, 0, 0}}, nil)
	seedPhotos(t, client)

	resp := postSearch(t, server, `{"query": "beach", "limit": 1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	results, ok := body["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 1)
}

func TestSearchEndpoint_MissingQuery(t *testing.T) {
	server, _ := newTestServer(t, &stubEmbedder{vector: []float64{1, 0, 0}}, nil)

	for _, payload := range []string{`{}`, `{"query": "   "}`} {
		resp := postSearch(t, server, payload)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "missing query", decodeBody(t, resp)["error"])
	}
}

func TestSearchEndpoint_InvalidLimit(t *testing.T) {
	server, _ := newTestServer(t, &stubEmbedder{vector: []float64{1, 0, 0}}, nil)

	resp := postSearch(t, server, `{"query": "beach", "limit": 0}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeBody(t, resp)["error"], "limit must be positive")
}

func TestSearchEndpoint_MalformedBody(t *testing.T) {
	server, _ := newTestServer(t, &stubEmbedder{vector: []float64{1, 0, 0}}, nil)

	resp := postSearch(t, server, `{"query": `)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", decodeBody(t, resp)["error"])
}

func TestSearchEndpoint_EmbedderFailure(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("upstream timeout: secret internal detail")}
	server, client := newTestServer(t, embedder, nil)
	seedPhotos(t, client)

	resp := postSearch(t, server, `{"query": "beach"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// Only the generic message reaches the caller.
	body := decodeBody(t, resp)
	assert.Equal(t, "search failed", body["error"])
}

func TestSearchEndpoint_NoEmbedderConfigured(t *testing.T) {
	server, _ := newTestServer(t, nil, nil)

	resp := postSearch(t, server, `{"query": "beach"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "search failed", decodeBody(t, resp)["error"])
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t, nil, nil)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestPhotosEndpoint_ListAndGet(t *testing.T) {
	server, client := newTestServer(t, nil, nil)
	seedPhotos(t, client)

	resp, err := http.Get(server.URL + "/api/v1/photos?limit=2")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(3), body["total"])
	photos, ok := body["photos"].([]any)
	require.True(t, ok)
	assert.Len(t, photos, 2)

	resp, err = http.Get(server.URL + "/api/v1/photos/p-dog")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody(t, resp)
	assert.Equal(t, "p-dog", detail["id"])
	assert.Equal(t, true, detail["has_embedding"])
}

func TestPhotosEndpoint_GetMissing(t *testing.T) {
	server, _ := newTestServer(t, nil, nil)

	resp, err := http.Get(server.URL + "/api/v1/photos/nope")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "photo not found", decodeBody(t, resp)["error"])
}

func TestPhotosEndpoint_UpdateRequiresAPIKey(t *testing.T) {
	server, client := newTestServer(t, nil, []string{"secret-key"})
	seedPhotos(t, client)

	patch := func(key string) *http.Response {
		req, err := http.NewRequest(http.MethodPatch,
			server.URL+"/api/v1/photos/p-dog",
			bytes.NewReader([]byte(`{"caption": "golden retriever in the garden"}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set("X-API-KEY", key)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := patch("")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = patch("wrong-key")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = patch("secret-key")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "golden retriever in the garden", body["caption"])
	// Caption edits invalidate the stored embedding.
	assert.Equal(t, false, body["has_embedding"])

	// Browsing stays open even with keys configured.
	getResp, err := http.Get(server.URL + "/api/v1/photos/p-dog")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	getResp.Body.Close()
}
