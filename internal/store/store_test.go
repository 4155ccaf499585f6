package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "none", "state.yaml"))

	require.NoError(t, err)
	assert.Empty(t, s.Keys())
	_, ok := s.Get(KeyRole)
	assert.False(t, ok)
}

func TestSaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gh-coach", "state.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	s.Set(KeyRole, "Staff Engineer")
	s.Set(KeyLastResponse, "```go\nfmt.Println(1)\n```\nmultiline: yes")
	s.Set("scratch", "x")
	s.Delete("scratch")
	require.NoError(t, s.Save())

	reopened, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, []string{KeyLastResponse, KeyRole}, reopened.Keys())
	assert.Equal(t, "Staff Engineer", reopened.Value(KeyRole))
	assert.Equal(t, "```go\nfmt.Println(1)\n```\nmultiline: yes", reopened.Value(KeyLastResponse))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := Open(path)

	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	path, err := DefaultPath()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/state", "gh-coach", "state.yaml"), path)
}
