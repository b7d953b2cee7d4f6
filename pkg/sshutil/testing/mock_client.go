// Package testing provides a mock SSH client for tests.
package testing

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// CommandResponse defines a canned response for a specific command pattern.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
}

// MockClient simulates an SSH connection for testing. Commands are matched
// against registered exact strings first, then regex patterns, in
// registration order.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	closed   bool
	exact    map[string]CommandResponse
	patterns []patternResponse
	calls    []string
}

type patternResponse struct {
	re   *regexp.Regexp
	resp CommandResponse
}

// NewMockClient creates a new mock SSH client.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:    host,
		address: host + ":22",
		exact:   make(map[string]CommandResponse),
	}
}

// Respond registers a canned response for an exact command string.
func (m *MockClient) Respond(cmd string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[cmd] = resp
}

// RespondPattern registers a canned response for commands matching a regex.
func (m *MockClient) RespondPattern(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, patternResponse{
		re:   regexp.MustCompile(pattern),
		resp: resp,
	})
}

// Exec returns the registered response for cmd, or exit 127 if none matches.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}
	m.calls = append(m.calls, cmd)

	if resp, ok := m.exact[cmd]; ok {
		return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
	}
	for _, p := range m.patterns {
		if p.re.MatchString(cmd) {
			return p.resp.Stdout, p.resp.Stderr, p.resp.ExitCode, p.resp.Error
		}
	}

	return nil, []byte(fmt.Sprintf("sh: %s: command not found\n", cmd)), 127, nil
}

// Close marks the connection closed; further Exec calls fail.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GetHost returns the host name the mock was created with.
func (m *MockClient) GetHost() string {
	return m.host
}

// GetAddress returns the mock's host:22 address.
func (m *MockClient) GetAddress() string {
	return m.address
}

// Calls returns the commands executed so far, in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
