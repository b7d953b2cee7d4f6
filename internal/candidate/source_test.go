package candidate

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bear/reaper/internal/errors"
)

func TestFetchFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("talos-r4-snow-078,Yes\ntegra-050,No\n\nlinux-ix-slave04\n"))
	}))
	defer srv.Close()

	lines, err := Fetch(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"talos-r4-snow-078,Yes", "tegra-050,No", "linux-ix-slave04"}, lines)
}

func TestFetchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kittens.txt")
	require.NoError(t, os.WriteFile(path, []byte("host-a\nhost-b,Yes\n"), 0o644))

	lines, err := Fetch(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"host-a", "host-b,Yes"}, lines)
}

func TestFetchMissingFile(t *testing.T) {
	_, err := Fetch(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	lines, err := Fetch(srv.URL)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
