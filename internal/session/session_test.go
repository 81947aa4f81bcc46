// Package session_test tests the edit session: undo/redo, dirty tracking,
// save semantics, and the conflict state machine.
// Related: internal/session/session.go
// Tags: session, undo, conflicts, save

package session

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	figerrors "github.com/utensils/fig/internal/errors"
	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/store"
	"github.com/utensils/fig/internal/testutil"
)

// openSession loads a project-scoped session over a settings file seeded with
// body. Empty body leaves the file absent.
func openSession(t *testing.T, body string) *Session {
	t.Helper()

	root := testutil.ProjectDir(t)
	if body != "" {
		testutil.WriteSettings(t, root, settings.GlobalFileName, body)
	}

	st := store.New(log.New(io.Discard))
	doc, err := st.Load(context.Background(), settings.ProjectTarget(settings.TargetProject, root))
	require.NoError(t, err)
	return newSession(st, doc)
}

func TestDirtyTracking(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"env": {"A": "1"}}`)
	assert.False(t, sess.Dirty())

	require.NoError(t, sess.SetEnv("A", "2"))
	assert.True(t, sess.Dirty())

	require.NoError(t, sess.SetEnv("A", "1"))
	assert.False(t, sess.Dirty(), "restoring the original value makes the session clean again")
}

func TestNoOpMutationRecordsNothing(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"permissions": {"allow": ["Bash(go:*)"]}}`)

	require.NoError(t, sess.AddAllowRule("Bash(go:*)"))
	assert.False(t, sess.CanUndo(), "adding an already-present rule is not an undoable edit")
	assert.False(t, sess.Dirty())
}

func TestUndoRedo(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{}`)

	require.NoError(t, sess.AddAllowRule("Bash(make:*)"))
	require.NoError(t, sess.SetEnv("FOO", "bar"))
	require.True(t, sess.CanUndo())

	require.True(t, sess.Undo())
	assert.Empty(t, sess.Snapshot().Env())
	assert.Equal(t, []string{"Bash(make:*)"}, sess.Snapshot().AllowRules())

	require.True(t, sess.Redo())
	assert.Equal(t, "bar", sess.Snapshot().Env()["FOO"])

	require.True(t, sess.Undo())
	require.True(t, sess.Undo())
	assert.False(t, sess.Undo(), "empty undo stack reports false")
	assert.False(t, sess.Dirty())
}

func TestNewEditClearsRedo(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{}`)

	require.NoError(t, sess.SetEnv("A", "1"))
	require.True(t, sess.Undo())
	require.True(t, sess.CanRedo())

	require.NoError(t, sess.SetEnv("B", "2"))
	assert.False(t, sess.CanRedo(), "a fresh edit discards the redo branch")
}

func TestUndoAllRestoresBaseline(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		sess := openSession(t, `{"env": {"SEED": "v"}, "permissions": {"allow": ["Bash(go:*)"]}}`)
		baseline := sess.Snapshot()

		n := rapid.IntRange(1, 12).Draw(rt, "edits")
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				key := rapid.SampledFrom([]string{"A", "B", "SEED"}).Draw(rt, "envKey")
				val := rapid.StringMatching(`[a-z]{1,6}`).Draw(rt, "envVal")
				require.NoError(rt, sess.SetEnv(key, val))
			case 1:
				key := rapid.SampledFrom([]string{"A", "B", "SEED"}).Draw(rt, "unsetKey")
				require.NoError(rt, sess.UnsetEnv(key))
			case 2:
				rule := rapid.SampledFrom([]string{"Bash(go:*)", "Bash(make:*)", "Read"}).Draw(rt, "allow")
				require.NoError(rt, sess.AddAllowRule(rule))
			case 3:
				rule := rapid.SampledFrom([]string{"Bash(go:*)", "Bash(make:*)"}).Draw(rt, "removeAllow")
				require.NoError(rt, sess.RemoveAllowRule(rule))
			case 4:
				tool := rapid.SampledFrom([]string{"WebSearch", "WebFetch"}).Draw(rt, "tool")
				require.NoError(rt, sess.AddDisallowedTool(tool))
			}
		}

		for sess.Undo() {
		}
		assert.True(rt, baseline.Equal(sess.Snapshot()), "undoing everything restores the loaded content")
		assert.False(rt, sess.Dirty())
	})
}

func TestSaveClearsHistoryAndBaseline(t *testing.T) {
	t.Parallel()

	sess := openSession(t, "")
	require.False(t, sess.Exists())

	require.NoError(t, sess.AddDenyRule("Bash(curl:*)"))
	require.NoError(t, sess.Save(context.Background()))

	assert.True(t, sess.Exists())
	assert.False(t, sess.Dirty())
	assert.False(t, sess.CanUndo(), "undo entries never span a save")
	assert.False(t, sess.CanRedo())

	data, err := os.ReadFile(sess.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bash(curl:*)")
}

func TestCheckExternalWhileClean(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"env": {"A": "1"}}`)
	testutil.RewriteFile(t, sess.Path(), `{"env": {"A": "external"}}`)

	record, err := sess.CheckExternal(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record, "clean sessions adopt silently")
	assert.Equal(t, StateClean, sess.State())
	assert.Equal(t, "external", sess.Snapshot().Env()["A"])
}

func TestCheckExternalWhileDirty(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"env": {"A": "1"}}`)
	require.NoError(t, sess.SetEnv("B", "local"))
	testutil.RewriteFile(t, sess.Path(), `{"env": {"A": "external"}}`)

	record, err := sess.CheckExternal(context.Background())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, StateConflictPending, sess.State())
	assert.Equal(t, "local", sess.Snapshot().Env()["B"], "working copy is untouched while pending")

	err = sess.Save(context.Background())
	require.ErrorIs(t, err, figerrors.ErrConflictUnresolved)
}

func TestResolveKeepLocalThenSave(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"env": {"A": "1"}}`)
	require.NoError(t, sess.SetEnv("B", "local"))
	testutil.RewriteFile(t, sess.Path(), `{"env": {"A": "external"}}`)

	_, err := sess.CheckExternal(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateConflictPending, sess.State())

	require.NoError(t, sess.Resolve(KeepLocal))
	assert.Equal(t, StateClean, sess.State())
	assert.Nil(t, sess.PendingChange())
	assert.True(t, sess.CanUndo(), "keep-local preserves the undo history")

	require.NoError(t, sess.Save(context.Background()))

	data, err := os.ReadFile(sess.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"local"`)
	assert.NotContains(t, string(data), "external", "the external write was overwritten")
}

func TestResolveUseExternal(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"env": {"A": "1"}}`)
	require.NoError(t, sess.SetEnv("B", "local"))
	testutil.RewriteFile(t, sess.Path(), `{"env": {"A": "external"}}`)

	_, err := sess.CheckExternal(context.Background())
	require.NoError(t, err)

	require.NoError(t, sess.Resolve(UseExternal))
	assert.Equal(t, StateClean, sess.State())
	assert.False(t, sess.Dirty())
	assert.False(t, sess.CanUndo(), "adopting external content invalidates the history")
	assert.Equal(t, "external", sess.Snapshot().Env()["A"])
	_, ok := sess.Snapshot().Get("env.B")
	assert.False(t, ok)
}

func TestResolveUseExternalRejectsUnparseable(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"env": {"A": "1"}}`)
	require.NoError(t, sess.SetEnv("B", "local"))
	testutil.RewriteFile(t, sess.Path(), `{broken`)

	_, err := sess.CheckExternal(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateConflictPending, sess.State())

	err = sess.Resolve(UseExternal)
	require.Error(t, err)
	assert.True(t, figerrors.IsParseError(err))
	assert.Equal(t, StateConflictPending, sess.State(), "the conflict stays pending")

	require.NoError(t, sess.Resolve(KeepLocal))
	require.NoError(t, sess.Save(context.Background()))
}

func TestResolveWithoutConflict(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{}`)
	require.Error(t, sess.Resolve(KeepLocal))
}

func TestExternalDeletionConflict(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{"env": {"A": "1"}}`)
	require.NoError(t, sess.SetEnv("B", "local"))
	require.NoError(t, os.Remove(sess.Path()))

	record, err := sess.CheckExternal(context.Background())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Deleted)

	require.NoError(t, sess.Resolve(UseExternal))
	assert.False(t, sess.Exists())
	assert.Empty(t, sess.Snapshot())
}

func TestClosedSession(t *testing.T) {
	t.Parallel()

	sess := openSession(t, `{}`)
	sess.close()

	assert.ErrorIs(t, sess.SetEnv("A", "1"), figerrors.ErrSessionClosed)
	assert.ErrorIs(t, sess.Save(context.Background()), figerrors.ErrSessionClosed)
	_, err := sess.CheckExternal(context.Background())
	assert.ErrorIs(t, err, figerrors.ErrSessionClosed)
	assert.False(t, sess.Undo())
}
