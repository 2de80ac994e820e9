package provider

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, client *http.Client, url, body string) string {
	t.Helper()

	resp, err := client.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestCachingTransport_CachesIdenticalRequests(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewCachingTransport(t.TempDir(), nil)}

	first := postJSON(t, client, srv.URL, `{"input":"hello"}`)
	second := postJSON(t, client, srv.URL, `{"input":"hello"}`)

	require.Equal(t, first, second)
	require.Equal(t, int64(1), counter.Load(), "identical request served from cache")
}

func TestCachingTransport_DifferentBodiesMiss(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewCachingTransport(t.TempDir(), nil)}

	first := postJSON(t, client, srv.URL, `{"input":"one"}`)
	second := postJSON(t, client, srv.URL, `{"input":"two"}`)

	require.NotEqual(t, first, second)
	require.Equal(t, int64(2), counter.Load())
}

func TestCachingTransport_SkipsErrorResponses(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewCachingTransport(t.TempDir(), nil)}

	_ = postJSON(t, client, srv.URL, `{"input":"hello"}`)
	_ = postJSON(t, client, srv.URL, `{"input":"hello"}`)

	require.Equal(t, int64(2), counter.Load(), "5xx responses are not cached")
}
