// Package watch delivers external-change checks to open edit sessions. It
// combines an fsnotify watcher on each target's directory with a polling
// fallback, because editors and sync tools commonly replace files via
// temp-and-rename, which can slip past a watch on the file itself.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/utensils/fig/internal/session"
	"github.com/utensils/fig/internal/store"
)

// DefaultInterval is the poll fallback interval.
const DefaultInterval = 2 * time.Second

// debounceWindow coalesces bursts of filesystem events for one file into a
// single check.
const debounceWindow = 250 * time.Millisecond

// ConflictHandler is invoked when a check detects an external change against
// a dirty session. Clean-session changes are adopted silently and never
// reach the handler.
type ConflictHandler func(sess *session.Session, record *store.ExternalChangeRecord)

// Watcher runs the external-change detection loop for a set of sessions.
type Watcher struct {
	logger     *log.Logger
	interval   time.Duration
	onConflict ConflictHandler
}

// New creates a watcher. A zero interval uses DefaultInterval.
func New(logger *log.Logger, interval time.Duration, onConflict ConflictHandler) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		logger:     logger,
		interval:   interval,
		onConflict: onConflict,
	}
}

// Run watches the given sessions until ctx is cancelled. Checks are issued
// from this single goroutine, so deliveries for one session are naturally
// serialized; the session lock serializes them against saves.
func (w *Watcher) Run(ctx context.Context, sessions []*session.Session) error {
	byDir := make(map[string][]*session.Session)
	byPath := make(map[string]*session.Session, len(sessions))
	for _, sess := range sessions {
		dir := filepath.Dir(sess.Path())
		byDir[dir] = append(byDir[dir], sess)
		byPath[filepath.Clean(sess.Path())] = sess
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for dir := range byDir {
		if err := fsw.Add(dir); err != nil {
			// Directory may not exist yet; polling still covers it.
			w.logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	queued := make(map[*session.Session]struct{})
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if sess, found := byPath[filepath.Clean(ev.Name)]; found {
				queued[sess] = struct{}{}
				debounce = time.After(debounceWindow)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-debounce:
			debounce = nil
			w.flush(ctx, queued)

		case <-ticker.C:
			for _, sess := range sessions {
				queued[sess] = struct{}{}
			}
			w.flush(ctx, queued)
		}
	}
}

// flush runs a check for every queued session and clears the queue.
func (w *Watcher) flush(ctx context.Context, queued map[*session.Session]struct{}) {
	for sess := range queued {
		delete(queued, sess)
		w.Check(ctx, sess)
	}
}

// Check runs one external-change check against a session and dispatches the
// conflict handler if the session entered StateConflictPending.
func (w *Watcher) Check(ctx context.Context, sess *session.Session) {
	record, err := sess.CheckExternal(ctx)
	if err != nil {
		w.logger.Warn("external change check failed", "path", sess.Path(), "error", err)
		return
	}
	if record == nil {
		return
	}
	w.logger.Info("conflict pending", "path", sess.Path())
	if w.onConflict != nil {
		w.onConflict(sess, record)
	}
}
