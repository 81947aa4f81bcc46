// Package testutil provides test utilities and helpers for fig tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteSettings writes a settings file under dir/.claude with the given name
// and body, creating directories as needed. Returns the file path.
func WriteSettings(t *testing.T, dir, name, body string) string {
	t.Helper()

	claudeDir := filepath.Join(dir, ".claude")
	if err := os.MkdirAll(claudeDir, 0o755); err != nil {
		t.Fatalf("failed to create .claude directory: %v", err)
	}
	path := filepath.Join(claudeDir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	return path
}

// RewriteFile replaces a file's content in place, simulating an external
// editor. The mtime is pushed forward so change detection cannot miss the
// write on filesystems with coarse timestamp resolution.
func RewriteFile(t *testing.T, path, body string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("failed to bump mtime: %v", err)
	}
}

// ProjectDir creates a temp directory to act as a project root.
func ProjectDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}
