package inventory

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bear/reaper/internal/errors"
)

func TestSlaves(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/slaves", r.URL.Path)
		w.Write([]byte(`[
			{"name": "talos-r4-snow-078", "enabled": true, "notes": null},
			{"name": "tegra-050", "enabled": false, "notes": "bad flash"},
			{"name": "linux-ix-slave04", "enabled": true, "notes": ""}
		]`))
	}))
	defer srv.Close()

	hosts, err := NewClient(srv.URL + "/api").Slaves()
	require.NoError(t, err)
	require.Len(t, hosts, 3)

	assert.Equal(t, Host{Name: "talos-r4-snow-078", Enabled: true, Notes: ""}, hosts["talos-r4-snow-078"])
	assert.Equal(t, Host{Name: "tegra-050", Enabled: false, Notes: "bad flash"}, hosts["tegra-050"])
	assert.True(t, hosts["linux-ix-slave04"].Enabled)
}

func TestSlavesTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/slaves", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	hosts, err := NewClient(srv.URL + "/api/").Slaves()
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestSlavesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Slaves()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}

func TestSlavesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Slaves()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}

func TestSlavesUnreachable(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").Slaves()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrFetch))
}
