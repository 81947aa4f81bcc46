// Package state_test tests cross-invocation editor state persistence.
// Related: internal/state/state.go
// Tags: state, persistence

package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingYieldsDefault(t *testing.T) {
	t.Parallel()

	st, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, st.LastTarget)
	assert.Empty(t, st.LastTarget)
}

func TestLoadCorruptedYieldsDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{broken`), 0o644))

	st, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, st.LastTarget)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "state")
	st := &EditorState{LastTarget: map[string]string{"/proj": "local"}}
	require.NoError(t, Save(dir, st))
	assert.False(t, st.UpdatedAt.IsZero())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "local", loaded.LastTarget["/proj"])
}

func TestRememberTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, RememberTarget(dir, "/proj", "mcp"))
	require.NoError(t, RememberTarget(dir, "global", "global"))
	require.NoError(t, RememberTarget(dir, "/proj", "local"))

	st, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "local", st.LastTarget["/proj"], "later writes win")
	assert.Equal(t, "global", st.LastTarget["global"])
}
