// Package inventory fetches the build-farm host inventory. Each host carries
// an enabled flag and a free-form notes field; a disabled host or one with
// notes is never touched by the reaper.
package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bear/reaper/internal/errors"
)

// fetchTimeout is the max time to wait for the inventory API.
const fetchTimeout = 30 * time.Second

// Host is one inventory record.
type Host struct {
	Name    string
	Enabled bool
	Notes   string
}

// wireHost matches the inventory API's JSON. Notes may be null.
type wireHost struct {
	Name    string  `json:"name"`
	Enabled bool    `json:"enabled"`
	Notes   *string `json:"notes"`
}

// Client talks to the inventory API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates an inventory client for the given API base URL
// (e.g. "http://slavealloc.example.com/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: fetchTimeout},
	}
}

// Slaves fetches the full host inventory, keyed by host name.
// Null notes fields are normalized to empty strings.
func (c *Client) Slaves() (map[string]Host, error) {
	url := c.baseURL + "/slaves"

	resp, err := c.httpc.Get(url)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't reach the inventory API",
			"Check inventory_url in your config: "+c.baseURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrFetch,
			fmt.Sprintf("Inventory API returned %s for %s", resp.Status, url),
			"Check inventory_url in your config")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't read the inventory response", "")
	}

	var wire []wireHost
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Inventory API returned invalid JSON",
			"Check inventory_url points at the API root, not a web page")
	}

	hosts := make(map[string]Host, len(wire))
	for _, w := range wire {
		h := Host{Name: w.Name, Enabled: w.Enabled}
		if w.Notes != nil {
			h.Notes = *w.Notes
		}
		hosts[h.Name] = h
	}
	return hosts, nil
}
