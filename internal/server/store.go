package server

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formrender/pkg/definition"
)

// ErrPreviewNotFound is returned for unknown preview ids.
var ErrPreviewNotFound = errors.New("server: preview not found")

// DefaultMaxPreviews bounds the posted documents kept in memory.
const DefaultMaxPreviews = 256

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxPreviews caps the stored previews; the oldest is evicted first.
// Values below one keep the default.
func WithMaxPreviews(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxPreviews = n
		}
	}
}

// Store holds the definitions loaded from disk and the documents posted to
// the server. Posted documents live in memory only, at most maxPreviews of
// them.
type Store struct {
	mu          sync.RWMutex
	fsys        fs.FS
	dir         string
	defs        *definition.Document
	previews    map[uuid.UUID]*definition.Document
	order       []uuid.UUID
	maxPreviews int
}

// NewStore loads every definition under dir in fsys. A nil fsys starts with
// an empty document.
func NewStore(fsys fs.FS, dir string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		fsys:        fsys,
		dir:         dir,
		defs:        &definition.Document{Forms: map[string]definition.FormSpec{}},
		previews:    make(map[uuid.UUID]*definition.Document),
		maxPreviews: DefaultMaxPreviews,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rereads the definitions directory. The previous document stays in
// place when loading fails.
func (s *Store) Reload() error {
	if s.fsys == nil {
		return nil
	}
	doc, err := definition.LoadDir(s.fsys, s.dir)
	if err != nil {
		return fmt.Errorf("server: reload definitions: %w", err)
	}
	s.mu.Lock()
	s.defs = doc
	s.mu.Unlock()
	return nil
}

// Definitions returns the current document. Callers must not mutate it.
func (s *Store) Definitions() *definition.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defs
}

// AddPreview stores doc under a new id, evicting the oldest previews past
// the limit.
func (s *Store) AddPreview(doc *definition.Document) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.previews[id] = doc
	s.order = append(s.order, id)
	for len(s.order) > s.maxPreviews {
		delete(s.previews, s.order[0])
		s.order = s.order[1:]
	}
	return id
}

// Preview returns the document posted under id.
func (s *Store) Preview(id uuid.UUID) (*definition.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.previews[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPreviewNotFound, id)
	}
	return doc, nil
}
