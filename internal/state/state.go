// Package state persists small pieces of editor state across fig
// invocations, such as the last target edited per project.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the name of the editor state file.
const FileName = "editor_state.json"

// EditorState remembers per-project editing context between runs.
type EditorState struct {
	// LastTarget maps a project root (or "global") to the target kind name
	// last edited there.
	LastTarget map[string]string `json:"last_target"`
	// UpdatedAt is the time of the last state write.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Load reads the editor state from the state directory. A missing or
// corrupted file yields a default empty state, never an error the caller
// must handle.
func Load(stateDir string) (*EditorState, error) {
	path := filepath.Join(stateDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &EditorState{LastTarget: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("reading editor state: %w", err)
	}

	var st EditorState
	if err := json.Unmarshal(data, &st); err != nil {
		return &EditorState{LastTarget: make(map[string]string)}, nil
	}
	if st.LastTarget == nil {
		st.LastTarget = make(map[string]string)
	}
	return &st, nil
}

// Save persists the state using atomic write (temp file + rename), creating
// the state directory if needed.
func Save(stateDir string, st *EditorState) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling editor state: %w", err)
	}

	path := filepath.Join(stateDir, FileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// RememberTarget records the last target kind used for a project and saves
// immediately.
func RememberTarget(stateDir, projectKey, targetKind string) error {
	st, err := Load(stateDir)
	if err != nil {
		return err
	}
	st.LastTarget[projectKey] = targetKind
	return Save(stateDir, st)
}
