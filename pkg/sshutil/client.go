// Package sshutil provides SSH connection and command execution helpers.
// Connection settings are resolved from ~/.ssh/config when available, and
// authentication tries the SSH agent, key files, and an optional password.
package sshutil

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/bear/reaper/internal/errors"
)

// DefaultDialTimeout bounds the TCP dial when no timeout is given.
const DefaultDialTimeout = 10 * time.Second

// Options holds per-connection settings supplied by the caller.
// Zero values fall back to ~/.ssh/config and environment defaults.
type Options struct {
	// User is the login name. Overrides ~/.ssh/config when set.
	User string
	// Password enables password auth as a fallback after agent/key auth.
	Password string
	// Timeout bounds the TCP dial; DefaultDialTimeout when zero.
	Timeout time.Duration
}

// Client wraps an SSH connection with additional metadata.
type Client struct {
	*ssh.Client
	Host    string // The original host/alias used to connect
	Address string // The resolved address (host:port)
}

// StrictHostKeyChecking controls host key verification behavior.
// When true (default), host keys are verified against ~/.ssh/known_hosts.
// When false, verification is skipped (for automation against a build farm
// whose hosts are reimaged frequently).
var StrictHostKeyChecking = true

// Dial establishes an SSH connection to the specified host. The host can be
// an SSH config alias, a hostname, or hostname:port.
func Dial(host string, opts Options) (*Client, error) {
	settings := resolveSettings(host, opts)

	config, err := buildClientConfig(settings, opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	address := net.JoinHostPort(settings.hostname, settings.port)
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Can't reach '%s' at %s", host, address),
			"Make sure the host is reachable: ping "+settings.hostname)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' didn't go through", host),
			suggestionForHandshakeError(err))
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: address,
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// GetHost returns the original host/alias used to connect.
func (c *Client) GetHost() string {
	return c.Host
}

// GetAddress returns the resolved host:port address.
func (c *Client) GetAddress() string {
	return c.Address
}

// settings holds resolved SSH connection parameters.
type settings struct {
	hostname     string
	port         string
	user         string
	identityFile string
}

// resolveSettings parses the host string and fills gaps from ~/.ssh/config.
func resolveSettings(host string, opts Options) *settings {
	s := &settings{port: "22", user: opts.User}

	if atIdx := strings.Index(host, "@"); atIdx != -1 {
		s.user = host[:atIdx]
		host = host[atIdx+1:]
	}

	if colonIdx := strings.LastIndex(host, ":"); colonIdx != -1 {
		port := host[colonIdx+1:]
		if port != "" && strings.Trim(port, "0123456789") == "" {
			s.port = port
			host = host[:colonIdx]
		}
	}

	s.hostname = host

	// Fill in anything the caller didn't pin from ~/.ssh/config.
	if f, err := os.Open(filepath.Join(homeDir(), ".ssh", "config")); err == nil {
		defer f.Close()
		if cfg, err := ssh_config.Decode(f); err == nil {
			if hostname, _ := cfg.Get(host, "HostName"); hostname != "" {
				s.hostname = hostname
			}
			if port, _ := cfg.Get(host, "Port"); port != "" {
				s.port = port
			}
			if s.user == "" {
				if user, _ := cfg.Get(host, "User"); user != "" {
					s.user = user
				}
			}
			if identity, _ := cfg.Get(host, "IdentityFile"); identity != "" {
				s.identityFile = expandPath(identity)
			}
		}
	}

	if s.user == "" {
		s.user = currentUser()
	}

	return s
}

// buildClientConfig assembles auth methods: agent, key files, then password.
func buildClientConfig(s *settings, opts Options) (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	if agentAuth := sshAgentAuth(); agentAuth != nil {
		authMethods = append(authMethods, agentAuth)
	}

	keyPaths := []string{}
	if s.identityFile != "" {
		keyPaths = append(keyPaths, s.identityFile)
	}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		p := filepath.Join(homeDir(), ".ssh", name)
		if p != s.identityFile {
			keyPaths = append(keyPaths, p)
		}
	}
	for _, keyPath := range keyPaths {
		if keyAuth, err := keyFileAuth(keyPath); err == nil {
			authMethods = append(authMethods, keyAuth)
		}
	}

	if opts.Password != "" {
		authMethods = append(authMethods, ssh.Password(opts.Password))
	}

	if len(authMethods) == 0 {
		return nil, errors.New(errors.ErrSSH,
			"No SSH auth methods available",
			"Load a key (ssh-add -l) or set a password in your config")
	}

	var hostKeyCallback ssh.HostKeyCallback
	if StrictHostKeyChecking {
		var err error
		hostKeyCallback, err = knownHostsCallback()
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSSH,
				"Couldn't load ~/.ssh/known_hosts", "")
		}
	} else {
		hostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // User explicitly disabled host key checking
	}

	return &ssh.ClientConfig{
		User:            s.user,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         DefaultDialTimeout,
	}, nil
}

// agentConn holds the reusable SSH agent connection.
var (
	agentConn     net.Conn
	agentClient   agent.ExtendedAgent
	agentConnOnce sync.Once
)

// sshAgentAuth returns an auth method using the SSH agent if available.
// The agent connection is reused across multiple SSH connections.
// Returns nil if the agent has no keys loaded.
func sshAgentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}

	agentConnOnce.Do(func() {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return
		}
		agentConn = conn
		agentClient = agent.NewClient(conn)
	})

	if agentClient == nil {
		return nil
	}

	// Only return agent auth if the agent actually has keys.
	// An empty agent causes auth failures when placed before other methods.
	signers, err := agentClient.Signers()
	if err != nil || len(signers) == 0 {
		return nil
	}

	return ssh.PublicKeysCallback(agentClient.Signers)
}

// CloseAgent closes the SSH agent connection if one is open.
func CloseAgent() {
	if agentConn != nil {
		agentConn.Close()
	}
}

// keyFileAuth returns an auth method using a private key file.
func keyFileAuth(keyPath string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}

	return ssh.PublicKeys(signer), nil
}

// knownHostsCallback loads ~/.ssh/known_hosts, creating it if missing.
func knownHostsCallback() (ssh.HostKeyCallback, error) {
	path := filepath.Join(homeDir(), ".ssh", "known_hosts")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte{}, 0o600); err != nil {
			return nil, err
		}
	}
	return knownhosts.New(path)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func suggestionForHandshakeError(err error) string {
	errStr := err.Error()
	if strings.Contains(errStr, "unable to authenticate") || strings.Contains(errStr, "no supported methods") {
		return "Auth failed. Check your keys are loaded (ssh-add -l) or the configured password."
	}
	var keyErr *knownhosts.KeyError
	if stderrors.As(err, &keyErr) || strings.Contains(errStr, "host key") {
		return "Host key issue. Try connecting manually first: ssh <host>"
	}
	return "Something went wrong during SSH setup. Try: ssh <host>"
}
