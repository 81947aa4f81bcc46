// Package store persists settings documents. It owns the on-disk baseline
// (modification time + content hash) each document was last read or written
// at, which is what external-change detection compares against.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	figerrors "github.com/utensils/fig/internal/errors"
	"github.com/utensils/fig/internal/settings"
)

// Document is a settings document bound to a target, carrying parsed content
// plus the raw bytes and baseline metadata captured at load or save time.
type Document struct {
	Target  settings.Target
	Path    string
	Exists  bool
	Content settings.Content

	// Raw holds the bytes the content was parsed from. Preserved so a
	// malformed file is never overwritten with partial data.
	Raw []byte

	modTime time.Time
	hash    string
}

// Baseline returns the modification time and content hash the document was
// last synchronized with disk at.
func (d *Document) Baseline() (time.Time, string) {
	return d.modTime, d.hash
}

// ExternalChangeRecord captures a detected mismatch between the on-disk file
// and a document's baseline. It is consumed by conflict resolution.
type ExternalChangeRecord struct {
	Path       string
	ModTime    time.Time
	Hash       string
	Content    settings.Content
	Deleted    bool
	DetectedAt time.Time
}

// Store loads, saves, and change-checks settings documents. Safe for
// concurrent use; per-path locking serializes a save against a change check
// on the same file so a save's own write never reads as an external change.
type Store struct {
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store. The logger must not be nil; pass a discarding logger
// in tests.
func New(logger *log.Logger) *Store {
	return &Store{
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// pathLock returns the mutex guarding a file path.
func (s *Store) pathLock(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	return l
}

// Load reads and parses the settings document for a target. A missing file
// is not an error: the returned document has Exists=false and empty content
// so callers can offer "create". Malformed JSON returns a ParseError; no
// document is produced, so nothing can save over the unparsed file.
func (s *Store) Load(ctx context.Context, target settings.Target) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := target.Path()
	if err != nil {
		return nil, err
	}

	lock := s.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	return s.readLocked(target, path)
}

// readLocked reads the file and builds a Document. Caller holds the path lock.
func (s *Store) readLocked(target settings.Target, path string) (*Document, error) {
	doc := &Document{
		Target:  target,
		Path:    path,
		Content: settings.NewContent(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("settings file absent", "path", path)
			return doc, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	content, perr := settings.ParseContent(data)
	if perr != nil {
		return nil, &figerrors.ParseError{Path: path, Err: perr}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat settings file %s: %w", path, err)
	}

	doc.Exists = true
	doc.Content = content
	doc.Raw = data
	doc.modTime = info.ModTime()
	doc.hash = hashBytes(data)
	s.logger.Debug("loaded settings", "path", path, "hash", doc.hash[:8])
	return doc, nil
}

// Create materializes a non-existent document with a default empty structure
// and writes it to disk. The document comes back baselined, so it is clean.
func (s *Store) Create(ctx context.Context, target settings.Target) (*Document, error) {
	doc, err := s.Load(ctx, target)
	if err != nil {
		return nil, err
	}
	if doc.Exists {
		return doc, nil
	}
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes the document's content atomically (temp file + rename) and
// re-baselines the stored modification time and hash before releasing the
// path lock, so a change check racing the save can never see the store's own
// write as external.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := doc.Content.Serialize()
	if err != nil {
		return err
	}

	lock := s.pathLock(doc.Path)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Dir(doc.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := AtomicWrite(doc.Path, data); err != nil {
		return err
	}

	info, err := os.Stat(doc.Path)
	if err != nil {
		return fmt.Errorf("stat after save %s: %w", doc.Path, err)
	}

	doc.Exists = true
	doc.Raw = data
	doc.modTime = info.ModTime()
	doc.hash = hashBytes(data)
	s.logger.Debug("saved settings", "path", doc.Path, "hash", doc.hash[:8])
	return nil
}

// CheckExternalChange compares the on-disk state against the document's
// baseline. Returns nil when nothing changed. Deletion of a previously
// existing file is reported as a change with Deleted=true. A changed file
// that no longer parses is also reported (with nil Content); resolution can
// still keep local and overwrite it.
func (s *Store) CheckExternalChange(ctx context.Context, doc *Document) (*ExternalChangeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := s.pathLock(doc.Path)
	lock.Lock()
	defer lock.Unlock()

	info, err := os.Stat(doc.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if !doc.Exists {
				return nil, nil
			}
			return &ExternalChangeRecord{
				Path:       doc.Path,
				Deleted:    true,
				DetectedAt: time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("stat settings file %s: %w", doc.Path, err)
	}

	// Cheap check first: unchanged mtime with a known baseline means no
	// change. Hash comparison catches same-mtime rewrites.
	if doc.Exists && info.ModTime().Equal(doc.modTime) {
		return nil, nil
	}

	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", doc.Path, err)
	}

	hash := hashBytes(data)
	if doc.Exists && hash == doc.hash {
		// Touched but identical content: adopt the new mtime quietly.
		doc.modTime = info.ModTime()
		return nil, nil
	}

	record := &ExternalChangeRecord{
		Path:       doc.Path,
		ModTime:    info.ModTime(),
		Hash:       hash,
		DetectedAt: time.Now(),
	}
	if content, perr := settings.ParseContent(data); perr == nil {
		record.Content = content
	} else {
		s.logger.Warn("external change is not valid JSON", "path", doc.Path, "error", perr)
	}
	s.logger.Info("external change detected", "path", doc.Path, "hash", hash[:8])
	return record, nil
}

// Adopt re-baselines the document onto an external change record, replacing
// its content wholesale. Used when the external version wins.
func (s *Store) Adopt(doc *Document, record *ExternalChangeRecord) {
	lock := s.pathLock(doc.Path)
	lock.Lock()
	defer lock.Unlock()

	if record.Deleted {
		doc.Exists = false
		doc.Content = settings.NewContent()
		doc.Raw = nil
		doc.modTime = time.Time{}
		doc.hash = ""
		return
	}
	doc.Exists = true
	if record.Content != nil {
		doc.Content = record.Content
	}
	doc.modTime = record.ModTime
	doc.hash = record.Hash
}

// AdoptBaseline re-baselines only the document's change-detection metadata
// onto a record, leaving content alone. Used for keep-local resolutions: the
// external write stops registering as a change, and the next save overwrites
// it.
func (s *Store) AdoptBaseline(doc *Document, record *ExternalChangeRecord) {
	lock := s.pathLock(doc.Path)
	lock.Lock()
	defer lock.Unlock()

	if record.Deleted {
		doc.Exists = false
		doc.modTime = time.Time{}
		doc.hash = ""
		return
	}
	doc.Exists = true
	doc.modTime = record.ModTime
	doc.hash = record.Hash
}

// hashBytes returns the hex SHA-256 of data.
func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// AtomicWrite writes data to a file atomically using temp file + rename.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fig-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	tmpPath = ""
	return nil
}
