package fetch

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/cached", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=60")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("hello"))
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("caf\xe9"))
	})
	mux.HandleFunc("/missing", http.NotFound)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := New(slog.New(slog.DiscardHandler))

	t.Run("cached", func(t *testing.T) {
		t.Parallel()

		for range 2 {
			doc, err := client.Fetch(t.Context(), srv.URL+"/cached")
			require.NoError(t, err)
			assert.Equal(t, "hello", doc)
		}
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("charset", func(t *testing.T) {
		t.Parallel()

		doc, err := client.Fetch(t.Context(), srv.URL+"/latin1")
		require.NoError(t, err)
		assert.Equal(t, "café", doc)
	})

	t.Run("status", func(t *testing.T) {
		t.Parallel()

		_, err := client.Fetch(t.Context(), srv.URL+"/missing")
		require.ErrorContains(t, err, "unexpected status")
	})

	t.Run("scheme", func(t *testing.T) {
		t.Parallel()

		_, err := client.Fetch(t.Context(), "file:///etc/passwd")
		require.ErrorContains(t, err, "unsupported url scheme")
	})
}
