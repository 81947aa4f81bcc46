// Package git answers the source-control questions fig needs: where the
// enclosing repository root is and whether a file is tracked. It is a thin
// query layer over go-git; fig never mutates repository state.
package git

import (
	"errors"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// TrackState describes a file's relationship to the enclosing repository.
type TrackState int

const (
	// NotRepository means no git repository encloses the file.
	NotRepository TrackState = iota
	// Untracked means the repository exists but does not track the file.
	Untracked
	// Ignored means the file matches an ignore pattern.
	Ignored
	// Tracked means the file is known to the repository.
	Tracked
)

// String returns a human-readable track state.
func (t TrackState) String() string {
	switch t {
	case NotRepository:
		return "no repo"
	case Untracked:
		return "untracked"
	case Ignored:
		return "ignored"
	case Tracked:
		return "tracked"
	default:
		return "unknown"
	}
}

// open finds the repository enclosing dir, walking up like the git CLI.
func open(dir string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
}

// Root returns the worktree root of the repository enclosing dir. The second
// return is false when dir is not inside a repository.
func Root(dir string) (string, bool) {
	repo, err := open(dir)
	if err != nil {
		return "", false
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository: no worktree to resolve paths against.
		return "", false
	}
	return wt.Filesystem.Root(), true
}

// TrackStateOf reports whether path is tracked by its enclosing repository.
func TrackStateOf(path string) (TrackState, error) {
	repo, err := open(filepath.Dir(path))
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return NotRepository, nil
		}
		return NotRepository, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return NotRepository, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return NotRepository, err
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return NotRepository, err
	}
	relSlash := filepath.ToSlash(rel)

	// Ignored files are absent from the status map just like clean tracked
	// files, so the ignore patterns must be consulted first.
	if patterns, perr := gitignore.ReadPatterns(wt.Filesystem, nil); perr == nil {
		patterns = append(patterns, wt.Excludes...)
		if gitignore.NewMatcher(patterns).Match(strings.Split(relSlash, "/"), false) {
			return Ignored, nil
		}
	}

	status, err := wt.Status()
	if err != nil {
		return NotRepository, err
	}

	// Clean tracked files do not appear in the status map; only files with
	// pending changes or untracked files do.
	if fs, ok := status[relSlash]; ok && fs.Worktree == gogit.Untracked {
		return Untracked, nil
	}
	return Tracked, nil
}
