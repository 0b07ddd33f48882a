package record

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Store is the ordered set of records of one kind currently known to a view.
// The backend is always called first: the store only changes once a request succeeded.
type Store struct {
	kind    string
	backend Backend

	mu       sync.Mutex
	items    []Entity
	seq      uint64 // last issued fetch
	inflight int
}

func NewStore(kind string, backend Backend) *Store {
	return &Store{kind: kind, backend: backend}
}

func (s *Store) Kind() string { return s.kind }

// Fetch replaces the store contents with the backend's records.
// On failure the previous contents are kept. When a newer Fetch was issued in the meantime
// the response is dropped and ErrStaleResponse returned.
func (s *Store) Fetch(ctx context.Context, params Params) ([]Entity, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inflight++
	s.mu.Unlock()

	items, err := s.backend.List(ctx, s.kind, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if seq != s.seq {
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", s.kind)
	}
	s.items = items
	return cloneAll(items), nil
}

// Loading reports whether a Fetch is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Items returns a copy of the records, in order.
func (s *Store) Items() []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.items)
}

func (s *Store) Get(id string) (Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return nil, false
}

func (s *Store) Create(ctx context.Context, data Entity) (Entity, error) {
	created, err := s.backend.Create(ctx, s.kind, data)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", s.kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, created)
	return created.Clone(), nil
}

// Update replaces the record id in place. The id is kept whatever the backend returns.
func (s *Store) Update(ctx context.Context, id string, data Entity) (Entity, error) {
	updated, err := s.backend.Update(ctx, s.kind, id, data)
	if err != nil {
		return nil, errors.Wrapf(err, "updating %s", s.kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		updated["id"] = s.items[i]["id"]
		s.items[i] = updated
	}
	return updated.Clone(), nil
}

// Delete removes the record id. A record already gone from the backend counts as deleted.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, s.kind, id); err != nil && errors.Cause(err) != ErrNotFound {
		return errors.Wrapf(err, "deleting %s", s.kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	return nil
}

func (s *Store) index(id string) int {
	for i, e := range s.items {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

func cloneAll(items []Entity) []Entity {
	out := make([]Entity, 0, len(items))
	for _, e := range items {
		out = append(out, e.Clone())
	}
	return out
}
