package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	storedomain "github.com/jakub-pelec/teacherspace-cf/internal/store/domain"
)

// Store is an in-memory document store used as the local-development backend
// and as the substitute in tests.
type Store struct {
	mu   sync.Mutex
	docs map[string]map[string]any

	batchErr error
}

func New() *Store {
	return &Store{docs: make(map[string]map[string]any)}
}

// FailNextBatch forces the next DeleteTree to fail with err after staging,
// so callers can assert all-or-nothing behavior.
func (s *Store) FailNextBatch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchErr = err
}

func (s *Store) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	s.docs[storedomain.Join(collection, id)] = clone(data)
	return id, nil
}

func (s *Store) Get(_ context.Context, path string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, storedomain.ErrNotFound
	}
	return clone(doc), nil
}

func (s *Store) Set(_ context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[path] = clone(data)
	return nil
}

func (s *Store) Merge(_ context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		doc = make(map[string]any)
		s.docs[path] = doc
	}
	for k, v := range data {
		doc[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, path)
	return nil
}

func (s *Store) ListCollection(_ context.Context, collection string) ([]storedomain.Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listLocked(collection), nil
}

func (s *Store) DeleteTree(_ context.Context, path string, subcollections []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := []string{path}
	for _, sub := range subcollections {
		for _, doc := range s.listLocked(storedomain.Join(path, sub)) {
			staged = append(staged, doc.Path)
		}
	}

	if s.batchErr != nil {
		err := s.batchErr
		s.batchErr = nil
		return err
	}

	for _, p := range staged {
		delete(s.docs, p)
	}
	return nil
}

func (s *Store) listLocked(collection string) []storedomain.Doc {
	prefix := collection + "/"
	var docs []storedomain.Doc
	for p, data := range s.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		id := strings.TrimPrefix(p, prefix)
		if strings.Contains(id, "/") {
			continue
		}
		docs = append(docs, storedomain.Doc{ID: id, Path: p, Data: clone(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

func clone(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
