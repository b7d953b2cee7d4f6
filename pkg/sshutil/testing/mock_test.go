package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bear/reaper/pkg/sshutil"
)

// MockClient must satisfy the SSHClient interface.
var _ sshutil.SSHClient = (*MockClient)(nil)

func TestMockExactResponse(t *testing.T) {
	m := NewMockClient("host-a")
	m.Respond("ls ~/build", CommandResponse{Stdout: []byte("buildbot.tac\n")})

	out, _, code, err := m.Exec("ls ~/build")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "buildbot.tac\n", string(out))
}

func TestMockPatternResponse(t *testing.T) {
	m := NewMockClient("host-a")
	m.RespondPattern(`^tail -n \d+`, CommandResponse{Stdout: []byte("Main loop terminated\n")})

	out, _, code, err := m.Exec("tail -n 5 twistd.log")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, string(out), "Main loop terminated")
}

func TestMockUnknownCommand(t *testing.T) {
	m := NewMockClient("host-a")

	_, stderr, code, err := m.Exec("frobnicate")
	require.NoError(t, err)
	assert.Equal(t, 127, code)
	assert.Contains(t, string(stderr), "command not found")
}

func TestMockClosed(t *testing.T) {
	m := NewMockClient("host-a")
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())

	_, _, code, err := m.Exec("ls")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestMockRecordsCalls(t *testing.T) {
	m := NewMockClient("host-a")
	m.Respond("a", CommandResponse{})
	m.Exec("a")
	m.Exec("b")

	assert.Equal(t, []string{"a", "b"}, m.Calls())
}

func TestMockIdentity(t *testing.T) {
	m := NewMockClient("tegra-050")
	assert.Equal(t, "tegra-050", m.GetHost())
	assert.Equal(t, "tegra-050:22", m.GetAddress())
}
