package server

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/errors"
)

// Entry is one uploaded document.
type Entry struct {
	ID      uuid.UUID
	File    *cache.RenderedFile
	Created time.Time
}

// Store keeps uploaded documents in memory. When full, the oldest document
// is evicted.
type Store struct {
	mu    sync.RWMutex
	max   int
	docs  map[uuid.UUID]*Entry
	order []uuid.UUID
}

// NewStore returns a store holding at most max documents.
func NewStore(max int) *Store {
	return &Store{max: max, docs: make(map[uuid.UUID]*Entry)}
}

// Put stores f under a new id.
func (s *Store) Put(f *cache.RenderedFile) *Entry {
	e := &Entry{ID: uuid.New(), File: f, Created: time.Now().UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.order) >= s.max && len(s.order) > 0 {
		delete(s.docs, s.order[0])
		s.order = s.order[1:]
	}
	s.docs[e.ID] = e
	s.order = append(s.order, e.ID)
	return e
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (*Entry, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[uuid.MustParse(id)]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "document %s not found", id)
	}
	return e, nil
}

// Delete removes the document with the given id.
func (s *Store) Delete(id string) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, e.ID)
	s.order = slices.DeleteFunc(s.order, func(u uuid.UUID) bool { return u == e.ID })
	return nil
}

// List returns the stored documents, oldest first.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
