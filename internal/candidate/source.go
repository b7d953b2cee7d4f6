// Package candidate fetches the raw reboot-candidate list and narrows it to
// the hosts that are actually eligible for processing this run.
package candidate

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bear/reaper/internal/errors"
)

// fetchTimeout is the max time to wait for an HTTP candidate source.
const fetchTimeout = 30 * time.Second

// Fetch retrieves the newline-delimited candidate list from source, which is
// either an http(s) URL or a local file path. Each returned line is one raw
// candidate entry: "<identifier>[,<enabled-flag>]".
func Fetch(source string) ([]string, error) {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return fetchURL(source)
	}
	return fetchFile(source)
}

func fetchURL(url string) ([]string, error) {
	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't download the candidate list",
			"Check the kittens URL is reachable: "+url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrFetch,
			fmt.Sprintf("Candidate list fetch returned %s for %s", resp.Status, url),
			"Check the kittens URL in your config")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't read the candidate list response", "")
	}

	return splitLines(string(body)), nil
}

func fetchFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't read the candidate list file",
			"Check the path exists: "+path)
	}
	return splitLines(string(data)), nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
