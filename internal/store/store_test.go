// Package store_test tests document persistence: loading, atomic saves,
// baseline tracking, and external-change detection.
// Related: internal/store/store.go
// Tags: store, persistence, conflicts

package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	figerrors "github.com/utensils/fig/internal/errors"
	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/testutil"
)

func newTestStore() *Store {
	return New(log.New(io.Discard))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body        string
		missing     bool
		wantErr     bool
		wantParse   bool
		checkResult func(t *testing.T, doc *Document)
	}{
		"missing file yields empty non-existent document": {
			missing: true,
			checkResult: func(t *testing.T, doc *Document) {
				assert.False(t, doc.Exists)
				assert.Empty(t, doc.Content)
			},
		},
		"valid file loads with baseline": {
			body: `{"permissions": {"allow": ["Bash(go:*)"]}}`,
			checkResult: func(t *testing.T, doc *Document) {
				assert.True(t, doc.Exists)
				assert.Equal(t, []string{"Bash(go:*)"}, doc.Content.AllowRules())
				mt, hash := doc.Baseline()
				assert.False(t, mt.IsZero())
				assert.NotEmpty(t, hash)
			},
		},
		"empty object loads cleanly": {
			body: `{}`,
			checkResult: func(t *testing.T, doc *Document) {
				assert.True(t, doc.Exists)
				assert.Empty(t, doc.Content)
			},
		},
		"malformed JSON returns a parse error": {
			body:      `{"permissions": `,
			wantErr:   true,
			wantParse: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := testutil.ProjectDir(t)
			if !test.missing {
				testutil.WriteSettings(t, root, settings.GlobalFileName, test.body)
			}

			s := newTestStore()
			target := settings.ProjectTarget(settings.TargetProject, root)
			doc, err := s.Load(context.Background(), target)
			if test.wantErr {
				require.Error(t, err)
				if test.wantParse {
					assert.True(t, figerrors.IsParseError(err))
				}
				return
			}
			require.NoError(t, err)
			test.checkResult(t, doc)
		})
	}
}

func TestSaveCreatesDirectoriesAndWritesAtomically(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	s := newTestStore()
	target := settings.ProjectTarget(settings.TargetLocal, root)

	doc, err := s.Load(context.Background(), target)
	require.NoError(t, err)
	require.False(t, doc.Exists)

	doc.Content.AddAllowRule("Bash(make:*)")
	require.NoError(t, s.Save(context.Background(), doc))

	assert.True(t, doc.Exists)
	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bash(make:*)")

	entries, err := os.ReadDir(filepath.Dir(doc.Path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "no temp files left behind")
	}
}

func TestSaveDoesNotSelfConflict(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	testutil.WriteSettings(t, root, settings.GlobalFileName, `{"env": {"A": "1"}}`)

	s := newTestStore()
	doc, err := s.Load(context.Background(), settings.ProjectTarget(settings.TargetProject, root))
	require.NoError(t, err)

	doc.Content.SetEnv("A", "2")
	require.NoError(t, s.Save(context.Background(), doc))

	record, err := s.CheckExternalChange(context.Background(), doc)
	require.NoError(t, err)
	assert.Nil(t, record, "a save's own write is not an external change")
}

func TestCheckExternalChange(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate      func(t *testing.T, path string)
		checkRecord func(t *testing.T, record *ExternalChangeRecord)
	}{
		"untouched file reports nothing": {
			mutate: func(t *testing.T, path string) {},
			checkRecord: func(t *testing.T, record *ExternalChangeRecord) {
				assert.Nil(t, record)
			},
		},
		"rewrite reports new content": {
			mutate: func(t *testing.T, path string) {
				testutil.RewriteFile(t, path, `{"env": {"A": "changed"}}`)
			},
			checkRecord: func(t *testing.T, record *ExternalChangeRecord) {
				require.NotNil(t, record)
				assert.False(t, record.Deleted)
				require.NotNil(t, record.Content)
				assert.Equal(t, "changed", record.Content.Env()["A"])
			},
		},
		"touch with identical content reports nothing": {
			mutate: func(t *testing.T, path string) {
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				testutil.RewriteFile(t, path, string(data))
			},
			checkRecord: func(t *testing.T, record *ExternalChangeRecord) {
				assert.Nil(t, record)
			},
		},
		"deletion reports deleted": {
			mutate: func(t *testing.T, path string) {
				require.NoError(t, os.Remove(path))
			},
			checkRecord: func(t *testing.T, record *ExternalChangeRecord) {
				require.NotNil(t, record)
				assert.True(t, record.Deleted)
			},
		},
		"rewrite to invalid JSON still reports a change": {
			mutate: func(t *testing.T, path string) {
				testutil.RewriteFile(t, path, `{broken`)
			},
			checkRecord: func(t *testing.T, record *ExternalChangeRecord) {
				require.NotNil(t, record)
				assert.Nil(t, record.Content)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := testutil.ProjectDir(t)
			testutil.WriteSettings(t, root, settings.GlobalFileName, `{"env": {"A": "1"}}`)

			s := newTestStore()
			doc, err := s.Load(context.Background(), settings.ProjectTarget(settings.TargetProject, root))
			require.NoError(t, err)

			test.mutate(t, doc.Path)

			record, err := s.CheckExternalChange(context.Background(), doc)
			require.NoError(t, err)
			test.checkRecord(t, record)
		})
	}
}

func TestAdopt(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	testutil.WriteSettings(t, root, settings.GlobalFileName, `{"env": {"A": "1"}}`)

	s := newTestStore()
	doc, err := s.Load(context.Background(), settings.ProjectTarget(settings.TargetProject, root))
	require.NoError(t, err)

	testutil.RewriteFile(t, doc.Path, `{"env": {"A": "external"}}`)
	record, err := s.CheckExternalChange(context.Background(), doc)
	require.NoError(t, err)
	require.NotNil(t, record)

	s.Adopt(doc, record)
	assert.Equal(t, "external", doc.Content.Env()["A"])

	again, err := s.CheckExternalChange(context.Background(), doc)
	require.NoError(t, err)
	assert.Nil(t, again, "adopted change no longer registers")
}

func TestAdoptBaselineKeepsContent(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	testutil.WriteSettings(t, root, settings.GlobalFileName, `{"env": {"A": "1"}}`)

	s := newTestStore()
	doc, err := s.Load(context.Background(), settings.ProjectTarget(settings.TargetProject, root))
	require.NoError(t, err)

	testutil.RewriteFile(t, doc.Path, `{"env": {"A": "external"}}`)
	record, err := s.CheckExternalChange(context.Background(), doc)
	require.NoError(t, err)
	require.NotNil(t, record)

	s.AdoptBaseline(doc, record)
	assert.Equal(t, "1", doc.Content.Env()["A"], "content is untouched")

	again, err := s.CheckExternalChange(context.Background(), doc)
	require.NoError(t, err)
	assert.Nil(t, again, "baseline now matches the external write")
}

func TestCreate(t *testing.T) {
	t.Parallel()

	root := testutil.ProjectDir(t)
	s := newTestStore()
	target := settings.ProjectTarget(settings.TargetProject, root)

	doc, err := s.Create(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, doc.Exists)
	assert.FileExists(t, doc.Path)

	// Creating again returns the existing document untouched.
	testutil.RewriteFile(t, doc.Path, `{"model": "opus"}`)
	doc2, err := s.Create(context.Background(), target)
	require.NoError(t, err)
	v, ok := doc2.Content.Get("model")
	require.True(t, ok)
	assert.Equal(t, "opus", v)
}

func TestAtomicWriteReplacesContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, AtomicWrite(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestLoadCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestStore()
	_, err := s.Load(ctx, settings.ProjectTarget(settings.TargetProject, t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}
