// Package session_test tests the session registry's single-owner rule.
// Related: internal/session/registry.go
// Tags: session, registry

package session

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/store"
	"github.com/utensils/fig/internal/testutil"
)

func newTestRegistry() *Registry {
	logger := log.New(io.Discard)
	return NewRegistry(store.New(logger), logger)
}

func TestRegistryReusesOpenSession(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	testutil.WriteSettings(t, root, settings.GlobalFileName, `{}`)

	reg := newTestRegistry()
	target := settings.ProjectTarget(settings.TargetProject, root)

	first, err := reg.Open(context.Background(), target)
	require.NoError(t, err)
	require.NoError(t, first.SetEnv("A", "1"))

	second, err := reg.Open(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID(), "one live session per path")
	assert.Equal(t, "1", second.Snapshot().Env()["A"], "the second opener sees pending edits")
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryDistinctTargets(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	reg := newTestRegistry()

	proj, err := reg.Open(context.Background(), settings.ProjectTarget(settings.TargetProject, root))
	require.NoError(t, err)
	local, err := reg.Open(context.Background(), settings.ProjectTarget(settings.TargetLocal, root))
	require.NoError(t, err)

	assert.NotEqual(t, proj.ID(), local.ID())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryClose(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	reg := newTestRegistry()
	target := settings.ProjectTarget(settings.TargetProject, root)

	sess, err := reg.Open(context.Background(), target)
	require.NoError(t, err)

	reg.Close(sess)
	assert.Equal(t, 0, reg.Len())
	require.Error(t, sess.SetEnv("A", "1"), "closed sessions reject edits")

	reopened, err := reg.Open(context.Background(), target)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID(), reopened.ID(), "reopening creates a fresh session")
}
