package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	// Verify all expected error codes exist
	codes := []string{
		ErrConfig,
		ErrFetch,
		ErrCache,
		ErrSSH,
		ErrExec,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

	// Verify codes are unique
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .reaper.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "fetch error",
			code:       ErrFetch,
			message:    "Couldn't download the reboot candidate list",
			suggestion: "Check the kittens URL is reachable",
		},
		{
			name:       "cache error",
			code:       ErrCache,
			message:    "Seen cache file is malformed",
			suggestion: "Delete the cache file and rerun",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)
			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "Can't reach host")

	require.NotNil(t, err)
	assert.Equal(t, ErrSSH, err.Code)
	assert.Equal(t, "Can't reach host", err.Message)
	assert.Equal(t, cause, err.Cause)
}

func TestWrapWithCode(t *testing.T) {
	cause := errors.New("404 not found")
	err := WrapWithCode(cause, ErrFetch, "Inventory lookup failed", "Check inventory_url in your config")

	require.NotNil(t, err)
	assert.Equal(t, ErrFetch, err.Code)
	assert.Equal(t, "Inventory lookup failed", err.Message)
	assert.Equal(t, "Check inventory_url in your config", err.Suggestion)
	assert.Equal(t, cause, err.Cause)
}

func TestErrorFormatting(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := New(ErrConfig, "Bad config", "")
		out := err.Error()
		assert.True(t, strings.HasPrefix(out, "✗ Bad config"))
		assert.NotContains(t, out, "\n\n  \n")
	})

	t.Run("message with cause and suggestion", func(t *testing.T) {
		cause := errors.New("underlying failure")
		err := WrapWithCode(cause, ErrSSH, "SSH failed", "Try ssh manually")
		out := err.Error()
		assert.Contains(t, out, "✗ SSH failed")
		assert.Contains(t, out, "underlying failure")
		assert.Contains(t, out, "Try ssh manually")
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, "wrapped")

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrCache, "cache problem", "")

	assert.True(t, IsCode(err, ErrCache))
	assert.False(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(nil, ErrCache))
	assert.False(t, IsCode(errors.New("plain"), ErrCache))
}
