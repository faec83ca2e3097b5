package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
)

// Store is a thread-safe in-memory DocumentStore.
type Store struct {
	mu    sync.RWMutex
	items map[string]*entry
	seq   int64
}

type entry struct {
	doc *model.Document
	seq int64
}

func NewStore() *Store {
	return &Store{items: make(map[string]*entry)}
}

var (
	namedMu sync.Mutex
	named   = map[string]*Store{}
)

// Named returns the process-wide store registered under name, creating it on
// first use. Servers with URL memory:<name> share it.
func Named(name string) *Store {
	namedMu.Lock()
	defer namedMu.Unlock()
	s, ok := named[name]
	if !ok {
		s = NewStore()
		named[name] = s
	}
	return s
}

// Reset drops the named store so the next Named call starts empty.
func Reset(name string) {
	namedMu.Lock()
	defer namedMu.Unlock()
	delete(named, name)
}

func key(kind model.Kind, id string) string { return kind.String() + "/" + id }

func (s *Store) Create(_ context.Context, d *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key(d.Kind, d.ID)]; ok {
		return model.ErrDocumentExists
	}
	if s.findByName(d.Kind, d.Name) != nil {
		return model.ErrDocumentExists
	}
	s.seq++
	s.items[key(d.Kind, d.ID)] = &entry{doc: d.Clone(), seq: s.seq}
	return nil
}

func (s *Store) Get(_ context.Context, kind model.Kind, id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[key(kind, id)]
	if !ok {
		return nil, model.ErrDocumentNotFound
	}
	return e.doc.Clone(), nil
}

func (s *Store) GetByName(_ context.Context, kind model.Kind, name string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.findByName(kind, name)
	if e == nil {
		return nil, model.ErrDocumentNotFound
	}
	return e.doc.Clone(), nil
}

func (s *Store) findByName(kind model.Kind, name string) *entry {
	for _, e := range s.items {
		if e.doc.Kind == kind && e.doc.Name == name {
			return e
		}
	}
	return nil
}

func (s *Store) List(_ context.Context, kind model.Kind) ([]*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var es []*entry
	for _, e := range s.items {
		if e.doc.Kind == kind {
			es = append(es, e)
		}
	}
	sort.Slice(es, func(i, j int) bool { return es[i].seq < es[j].seq })
	out := make([]*model.Document, 0, len(es))
	for _, e := range es {
		out = append(out, e.doc.Clone())
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, d *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key(d.Kind, d.ID)]
	if !ok {
		return model.ErrDocumentNotFound
	}
	if other := s.findByName(d.Kind, d.Name); other != nil && other != e {
		return model.ErrDocumentExists
	}
	e.doc = d.Clone()
	return nil
}

func (s *Store) Delete(_ context.Context, kind model.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key(kind, id)]; !ok {
		return model.ErrDocumentNotFound
	}
	delete(s.items, key(kind, id))
	return nil
}

// Close is a no-op; named stores live for the whole process.
func (s *Store) Close() error { return nil }

var _ domain.DocumentStore = (*Store)(nil)
