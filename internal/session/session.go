// Package session implements the edit session for a settings document: a
// mutable working copy with linear undo/redo, a dirty flag derived from
// structural equality against the last-saved baseline, and the conflict
// state machine that reconciles external file changes with pending edits.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	figerrors "github.com/utensils/fig/internal/errors"
	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/store"
)

// State is the conflict-resolution state of a session.
type State int

const (
	// StateClean means no external change record is pending.
	StateClean State = iota
	// StateConflictPending means an external change was detected while the
	// session had unsaved edits. Saves are blocked until resolved.
	StateConflictPending
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateConflictPending:
		return "conflict-pending"
	default:
		return "unknown"
	}
}

// Resolution is the user's choice for a pending conflict.
type Resolution int

const (
	// KeepLocal discards the external change record; the next save
	// overwrites the external content.
	KeepLocal Resolution = iota
	// UseExternal discards the working copy and undo history, adopting the
	// new on-disk content.
	UseExternal
)

// String returns the CLI name of the resolution.
func (r Resolution) String() string {
	switch r {
	case KeepLocal:
		return "keep-local"
	case UseExternal:
		return "use-external"
	default:
		return "unknown"
	}
}

// fieldEdit is one atomic field-level edit: the value at a field path before
// and after the mutation. Undo restores the before state, redo the after.
type fieldEdit struct {
	path       string
	oldValue   interface{}
	oldPresent bool
	newValue   interface{}
	newPresent bool
}

// Session is the single in-memory editor for one (scope, target) pair.
// All methods are safe for concurrent use; the internal lock also serializes
// saves against mutations and external-change delivery, so a check can never
// race a save into a spurious conflict.
type Session struct {
	id    string
	store *store.Store
	doc   *store.Document

	mu      sync.Mutex
	working settings.Content
	undo    []fieldEdit
	redo    []fieldEdit
	state   State
	pending *store.ExternalChangeRecord
	closed  bool
}

// newSession seeds a session from a freshly loaded document.
func newSession(st *store.Store, doc *store.Document) *Session {
	return &Session{
		id:      uuid.NewString(),
		store:   st,
		doc:     doc,
		working: doc.Content.Clone(),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Target returns the editing target the session is bound to.
func (s *Session) Target() settings.Target { return s.doc.Target }

// Path returns the resolved file path.
func (s *Session) Path() string { return s.doc.Path }

// Exists reports whether the underlying file exists on disk.
func (s *Session) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Exists
}

// State returns the conflict state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PendingChange returns the external change record while in
// StateConflictPending, nil otherwise.
func (s *Session) PendingChange() *store.ExternalChangeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Snapshot returns a deep copy of the working content.
func (s *Session) Snapshot() settings.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Clone()
}

// Dirty reports whether the working copy differs structurally from the
// last-saved baseline. Always recomputed, never cached: formatting noise and
// no-op edits can never leave a stale flag behind.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

func (s *Session) dirtyLocked() bool {
	return !s.working.Equal(s.doc.Content)
}

// CanUndo reports whether an undo entry is available.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether a redo entry is available.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// mutate runs fn against the working copy, recording the value at path
// before and after as an undo entry. A mutation that leaves the value
// unchanged records nothing. Standard linear undo: any new edit clears redo.
func (s *Session) mutate(path string, fn func(settings.Content)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return figerrors.ErrSessionClosed
	}

	oldValue, oldPresent := s.working.Get(path)
	oldValue = settings.CloneValue(oldValue)

	fn(s.working)

	newValue, newPresent := s.working.Get(path)
	if oldPresent == newPresent && settings.ValuesEqual(oldValue, newValue) {
		return nil
	}

	s.undo = append(s.undo, fieldEdit{
		path:       path,
		oldValue:   oldValue,
		oldPresent: oldPresent,
		newValue:   settings.CloneValue(newValue),
		newPresent: newPresent,
	})
	s.redo = nil
	return nil
}

// Set writes a value at a dot-separated field path.
func (s *Session) Set(path string, value interface{}) error {
	var setErr error
	err := s.mutate(path, func(c settings.Content) {
		setErr = c.Set(path, value)
	})
	if err != nil {
		return err
	}
	return setErr
}

// Unset removes the value at a field path.
func (s *Session) Unset(path string) error {
	return s.mutate(path, func(c settings.Content) {
		c.Unset(path)
	})
}

// AddAllowRule appends a permission allow pattern.
func (s *Session) AddAllowRule(pattern string) error {
	return s.mutate("permissions.allow", func(c settings.Content) {
		c.AddAllowRule(pattern)
	})
}

// RemoveAllowRule removes a permission allow pattern.
func (s *Session) RemoveAllowRule(pattern string) error {
	return s.mutate("permissions.allow", func(c settings.Content) {
		c.RemoveAllowRule(pattern)
	})
}

// AddDenyRule appends a permission deny pattern.
func (s *Session) AddDenyRule(pattern string) error {
	return s.mutate("permissions.deny", func(c settings.Content) {
		c.AddDenyRule(pattern)
	})
}

// RemoveDenyRule removes a permission deny pattern.
func (s *Session) RemoveDenyRule(pattern string) error {
	return s.mutate("permissions.deny", func(c settings.Content) {
		c.RemoveDenyRule(pattern)
	})
}

// SetEnv sets an environment variable.
func (s *Session) SetEnv(key, value string) error {
	return s.mutate(settings.KeyEnv, func(c settings.Content) {
		c.SetEnv(key, value)
	})
}

// UnsetEnv removes an environment variable.
func (s *Session) UnsetEnv(key string) error {
	return s.mutate(settings.KeyEnv, func(c settings.Content) {
		c.UnsetEnv(key)
	})
}

// SetAttribution writes the attribution flags.
func (s *Session) SetAttribution(a settings.Attribution) error {
	return s.mutate(settings.KeyAttribution, func(c settings.Content) {
		c.SetAttribution(a)
	})
}

// AddDisallowedTool appends a tool to the disallowed list.
func (s *Session) AddDisallowedTool(tool string) error {
	return s.mutate(settings.KeyDisallowedTools, func(c settings.Content) {
		c.AddDisallowedTool(tool)
	})
}

// RemoveDisallowedTool removes a tool from the disallowed list.
func (s *Session) RemoveDisallowedTool(tool string) error {
	return s.mutate(settings.KeyDisallowedTools, func(c settings.Content) {
		c.RemoveDisallowedTool(tool)
	})
}

// Undo reverts the most recent edit. Returns false when the undo stack is
// empty (disabled affordance, not an error).
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.undo) == 0 {
		return false
	}
	edit := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.applyLocked(edit.path, edit.oldValue, edit.oldPresent)
	s.redo = append(s.redo, edit)
	return true
}

// Redo re-applies the most recently undone edit. Returns false when the redo
// stack is empty.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.redo) == 0 {
		return false
	}
	edit := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.applyLocked(edit.path, edit.newValue, edit.newPresent)
	s.undo = append(s.undo, edit)
	return true
}

func (s *Session) applyLocked(path string, value interface{}, present bool) {
	if present {
		// Set only fails when a path segment collides with a non-object,
		// which cannot happen when replaying an edit recorded at that path.
		_ = s.working.Set(path, settings.CloneValue(value))
		return
	}
	s.working.Unset(path)
}

// Save persists the working copy through the store and re-baselines: dirty
// becomes false and both undo stacks are cleared, so no undo entry ever
// spans a save boundary. Blocked with ErrConflictUnresolved while a conflict
// is pending.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return figerrors.ErrSessionClosed
	}
	if s.state == StateConflictPending {
		return figerrors.ErrConflictUnresolved
	}

	prev := s.doc.Content
	s.doc.Content = s.working.Clone()
	if err := s.store.Save(ctx, s.doc); err != nil {
		// Failed save must not move the baseline: the session stays dirty.
		s.doc.Content = prev
		return err
	}
	s.undo = nil
	s.redo = nil
	return nil
}

// CheckExternal runs an external-change check and feeds the result through
// the conflict state machine:
//
//   - no change: stays Clean, returns nil record
//   - change while clean: silently adopts the external content (nothing to
//     lose), stays Clean
//   - change while dirty: enters StateConflictPending and exposes the record
//
// Delivery is serialized with Save through the session lock, and the store's
// own save re-baselines before releasing its path lock, so a completed save
// never reads back as an external change.
func (s *Session) CheckExternal(ctx context.Context) (*store.ExternalChangeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, figerrors.ErrSessionClosed
	}

	record, err := s.store.CheckExternalChange(ctx, s.doc)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	if !s.dirtyLocked() {
		s.adoptLocked(record)
		return nil, nil
	}

	s.state = StateConflictPending
	s.pending = record
	return record, nil
}

// Resolve applies the user's choice to the pending conflict and returns the
// session to StateClean. Resolved records are not retained; a later external
// change always creates a fresh conflict.
func (s *Session) Resolve(r Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return figerrors.ErrSessionClosed
	}
	if s.state != StateConflictPending || s.pending == nil {
		return fmt.Errorf("no conflict to resolve")
	}

	record := s.pending
	switch r {
	case KeepLocal:
		// Move the baseline metadata onto the external file state so the
		// same external write is not re-detected; content stays local and
		// the next save overwrites.
		s.store.AdoptBaseline(s.doc, record)
	case UseExternal:
		if !record.Deleted && record.Content == nil {
			return &figerrors.ParseError{Path: record.Path, Err: fmt.Errorf("external content is not valid JSON")}
		}
		s.adoptLocked(record)
	default:
		return fmt.Errorf("unknown resolution %d", r)
	}

	s.pending = nil
	s.state = StateClean
	return nil
}

// adoptLocked replaces working copy and baseline with the external content
// and clears both undo stacks: edits recorded against superseded content are
// meaningless.
func (s *Session) adoptLocked(record *store.ExternalChangeRecord) {
	s.store.Adopt(s.doc, record)
	s.working = s.doc.Content.Clone()
	s.undo = nil
	s.redo = nil
}

// DiscardToExternal force-adopts new content, bypassing conflict detection.
// Exposed for callers that already know the external version wins.
func (s *Session) DiscardToExternal(record *store.ExternalChangeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return figerrors.ErrSessionClosed
	}
	s.adoptLocked(record)
	s.pending = nil
	s.state = StateClean
	return nil
}

// close marks the session dead. Later mutations and checks fail with
// ErrSessionClosed; an in-flight save that already holds the lock finishes
// first (durability over responsiveness).
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
