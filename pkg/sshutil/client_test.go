package sshutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSettingsParsing(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		opts     Options
		wantHost string
		wantPort string
		wantUser string
	}{
		{
			name:     "bare hostname",
			host:     "talos-r4-snow-078",
			opts:     Options{User: "cltbld"},
			wantHost: "talos-r4-snow-078",
			wantPort: "22",
			wantUser: "cltbld",
		},
		{
			name:     "user at host",
			host:     "buildduty@tegra-050",
			opts:     Options{User: "cltbld"},
			wantHost: "tegra-050",
			wantPort: "22",
			wantUser: "buildduty",
		},
		{
			name:     "host with port",
			host:     "linux-ix-slave04:2222",
			opts:     Options{User: "cltbld"},
			wantHost: "linux-ix-slave04",
			wantPort: "2222",
			wantUser: "cltbld",
		},
		{
			name:     "trailing colon is not a port",
			host:     "odd-host:",
			opts:     Options{User: "cltbld"},
			wantHost: "odd-host:",
			wantPort: "22",
			wantUser: "cltbld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := resolveSettings(tt.host, tt.opts)
			assert.Equal(t, tt.wantHost, s.hostname)
			assert.Equal(t, tt.wantPort, s.port)
			assert.Equal(t, tt.wantUser, s.user)
		})
	}
}

func TestResolveSettingsDefaultsUser(t *testing.T) {
	s := resolveSettings("some-host-not-in-ssh-config", Options{})
	assert.NotEmpty(t, s.user)
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
	expanded := expandPath("~/id_rsa")
	assert.NotContains(t, expanded, "~")
}

func TestSuggestionForHandshakeError(t *testing.T) {
	assert.Contains(t,
		suggestionForHandshakeError(errors.New("ssh: unable to authenticate")),
		"Auth failed")
	assert.Contains(t,
		suggestionForHandshakeError(errors.New("ssh: host key mismatch")),
		"Host key")
	assert.Contains(t,
		suggestionForHandshakeError(errors.New("something else")),
		"ssh <host>")
}
