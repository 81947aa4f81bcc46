// Package settings_test tests target kind parsing and path resolution for
// the recognized settings files.
// Related: internal/settings/target.go
// Tags: settings, targets, paths

package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetKind(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    TargetKind
		wantErr bool
	}{
		"global":      {input: "global", want: TargetGlobal},
		"project":     {input: "project", want: TargetProject},
		"local":       {input: "local", want: TargetLocal},
		"mcp":         {input: "mcp", want: TargetMCP},
		"unknown":     {input: "workspace", wantErr: true},
		"empty":       {input: "", wantErr: true},
		"capitalized": {input: "Global", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTargetKind(test.input)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
			assert.Equal(t, test.input, got.String())
		})
	}
}

func TestTargetPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := map[string]struct {
		target  Target
		want    string
		wantErr bool
	}{
		"project settings": {
			target: ProjectTarget(TargetProject, root),
			want:   filepath.Join(root, ".claude", "settings.json"),
		},
		"local overrides": {
			target: ProjectTarget(TargetLocal, root),
			want:   filepath.Join(root, ".claude", "settings.local.json"),
		},
		"mcp lives at project root": {
			target: ProjectTarget(TargetMCP, root),
			want:   filepath.Join(root, ".mcp.json"),
		},
		"project kind without root": {
			target:  Target{Kind: TargetProject},
			wantErr: true,
		},
		"local kind without root": {
			target:  Target{Kind: TargetLocal},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := test.target.Path()
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestGlobalTargetPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GlobalTarget().Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".claude", "settings.json"), path)
}

func TestTargetScope(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ScopeGlobal, GlobalTarget().Scope())
	assert.Equal(t, ScopeProject, ProjectTarget(TargetLocal, "/p").Scope())
	assert.Equal(t, ScopeProject, ProjectTarget(TargetMCP, "/p").Scope())
	assert.Equal(t, "global", ScopeGlobal.String())
	assert.Equal(t, "project", ScopeProject.String())
}
