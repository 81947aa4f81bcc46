package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/utensils/fig/internal/settings"
	"github.com/utensils/fig/internal/store"
)

// Registry enforces the single-owner rule: at most one live session exists
// per resolved file path. Opening an already-open target returns the
// existing session rather than a second editor racing the first.
type Registry struct {
	store  *store.Store
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a session registry backed by the given store.
func NewRegistry(st *store.Store, logger *log.Logger) *Registry {
	return &Registry{
		store:    st,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Open returns the live session for a target, loading the document and
// creating the session on first open.
func (r *Registry) Open(ctx context.Context, target settings.Target) (*Session, error) {
	path, err := target.Path()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[path]; ok {
		r.logger.Debug("reusing open session", "path", path, "session", existing.ID())
		return existing, nil
	}

	doc, err := r.store.Load(ctx, target)
	if err != nil {
		return nil, err
	}

	sess := newSession(r.store, doc)
	r.sessions[path] = sess
	r.logger.Debug("opened session", "path", path, "session", sess.ID())
	return sess, nil
}

// Close destroys a session, discarding any unsaved edits. Callers are
// responsible for confirming with the user when the session is dirty.
func (r *Registry) Close(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[sess.Path()]; ok && current.ID() == sess.ID() {
		delete(r.sessions, sess.Path())
	}
	sess.close()
	r.logger.Debug("closed session", "path", sess.Path(), "session", sess.ID())
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
