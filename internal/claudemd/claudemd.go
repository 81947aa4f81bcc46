// Package claudemd exposes the CLAUDE.md hierarchy: the global memory file
// under the user's home config directory plus the per-directory files inside
// a project, each with existence and git-tracked state.
package claudemd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/utensils/fig/internal/git"
	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/store"
)

// FileName is the memory file name Claude Code looks for.
const FileName = "CLAUDE.md"

// skipDirs are directories never scanned for memory files.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// Entry is one CLAUDE.md file in the hierarchy.
type Entry struct {
	Path    string
	Scope   settings.Scope
	Exists  bool
	Tracked git.TrackState
}

// GlobalPath returns the path of the global memory file,
// ~/.claude/CLAUDE.md.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, settings.SettingsDir, FileName), nil
}

// List enumerates the hierarchy for a project: the global file, the project
// root file (both listed even when absent, so a UI can offer "create"), and
// every existing CLAUDE.md in subdirectories.
func List(projectRoot string) ([]Entry, error) {
	var entries []Entry

	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	entries = append(entries, newEntry(globalPath, settings.ScopeGlobal))

	rootFile := filepath.Join(projectRoot, FileName)
	entries = append(entries, newEntry(rootFile, settings.ScopeProject))

	err = filepath.WalkDir(projectRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			name := d.Name()
			if skipDirs[name] || (strings.HasPrefix(name, ".") && path != projectRoot) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != FileName || path == rootFile {
			return nil
		}
		entries = append(entries, newEntry(path, settings.ScopeProject))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", projectRoot, err)
	}

	sort.Slice(entries[2:], func(i, j int) bool {
		return entries[i+2].Path < entries[j+2].Path
	})
	return entries, nil
}

// newEntry stats a path and, when the file exists, queries its git state.
func newEntry(path string, scope settings.Scope) Entry {
	e := Entry{Path: path, Scope: scope}
	if _, err := os.Stat(path); err == nil {
		e.Exists = true
		if state, err := git.TrackStateOf(path); err == nil {
			e.Tracked = state
		}
	}
	return e
}

// Read returns the body of a memory file.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the body of a memory file atomically, creating parent
// directories as needed.
func Write(path, body string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return store.AtomicWrite(path, []byte(body))
}
