package installer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prebuilts/verilator-3.880.tgz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("tarball"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "verilator-3.880.tgz")
	f := HTTPFetcher{Client: srv.Client()}

	require.NoError(t, f.Fetch(context.Background(), srv.URL+"/prebuilts/verilator-3.880.tgz", dest))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "tarball", string(got))
}

func TestHTTPFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.tgz")
	err := HTTPFetcher{}.Fetch(context.Background(), srv.URL+"/missing.tgz", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")
	assert.NoFileExists(t, dest)
}

func TestHTTPFetcherUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/a.tgz"
	srv.Close()

	err := HTTPFetcher{}.Fetch(context.Background(), url, filepath.Join(t.TempDir(), "a.tgz"))
	assert.ErrorContains(t, err, "failed to GET")
}
