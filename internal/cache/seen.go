// Package cache implements the time-windowed "seen" cache that keeps the
// reaper from re-processing a host it already handled within the last hour.
// The cache is a plain text file, one "<host> <timestamp>" entry per line,
// fully rewritten on save so stale entries self-prune each run.
package cache

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bear/reaper/internal/errors"
)

// Window is the retention window. Entries at or under this age are kept on
// load; older ones are dropped and never re-saved.
const Window = time.Hour

// timeLayout is the on-disk timestamp format: seconds precision, no zone.
const timeLayout = "2006-01-02T15:04:05"

// SeenCache maps host names to the time they were last processed.
type SeenCache struct {
	entries map[string]time.Time
}

// New returns an empty cache.
func New() *SeenCache {
	return &SeenCache{entries: make(map[string]time.Time)}
}

// Load reads the cache file at path, keeping only entries whose age relative
// to now is within the retention window. A missing file yields an empty
// cache. A malformed line fails the whole load; partial recovery would risk
// rebooting a host that was just handled.
func Load(path string, now time.Time) (*SeenCache, error) {
	c := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrCache,
			"Couldn't read the seen cache file",
			"Check permissions on "+path)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCache,
				fmt.Sprintf("Seen cache line is malformed: %q", line),
				"Delete "+path+" and rerun; it will be rebuilt.")
		}

		ts, err := time.Parse(timeLayout, fields[1])
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCache,
				fmt.Sprintf("Seen cache has a bad timestamp: %q", fields[1]),
				"Delete "+path+" and rerun; it will be rebuilt.")
		}

		if now.Sub(ts) <= Window {
			c.entries[fields[0]] = ts
		}
	}

	return c, nil
}

// Seen reports whether host was processed within the retention window.
// Entries are pre-filtered to the window at load time, so presence is enough.
func (c *SeenCache) Seen(host string) bool {
	_, ok := c.entries[host]
	return ok
}

// MarkSeen records host as processed at the given time. In-memory only;
// nothing hits disk until Save.
func (c *SeenCache) MarkSeen(host string, at time.Time) {
	c.entries[host] = at
}

// LastSeen returns the recorded timestamp for host, if any.
func (c *SeenCache) LastSeen(host string) (time.Time, bool) {
	ts, ok := c.entries[host]
	return ts, ok
}

// Len returns the number of entries currently held.
func (c *SeenCache) Len() int {
	return len(c.entries)
}

// Save overwrites the file at path with the current entries, one per line.
// Entry order is not specified.
func (c *SeenCache) Save(path string) error {
	var b strings.Builder
	for host, ts := range c.entries {
		b.WriteString(host)
		b.WriteString(" ")
		b.WriteString(ts.Format(timeLayout))
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrCache,
			"Couldn't write the seen cache file",
			"Check permissions on "+path)
	}
	return nil
}
