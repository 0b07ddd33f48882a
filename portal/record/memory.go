package record

import (
	"context"
	"sync"
)

// MemoryBackend keeps records in memory. It backs the portal's demo mode and tests.
// New records get the integer id following the largest existing one.
type MemoryBackend struct {
	mu    sync.Mutex
	kinds map[string][]Entity
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend copies seed, keyed by kind.
func NewMemoryBackend(seed map[string][]Entity) *MemoryBackend {
	b := &MemoryBackend{kinds: make(map[string][]Entity, len(seed))}
	for kind, items := range seed {
		b.kinds[kind] = cloneAll(items)
	}
	return b
}

// List returns every record of kind; params are ignored.
func (b *MemoryBackend) List(_ context.Context, kind string, _ Params) ([]Entity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneAll(b.kinds[kind]), nil
}

func (b *MemoryBackend) Create(_ context.Context, kind string, data Entity) (Entity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := 1
	for _, e := range b.kinds[kind] {
		if id, ok := e.Int("id"); ok && id >= next {
			next = id + 1
		}
	}
	e := data.Clone()
	e["id"] = next
	b.kinds[kind] = append(b.kinds[kind], e)
	return e.Clone(), nil
}

func (b *MemoryBackend) Update(_ context.Context, kind, id string, data Entity) (Entity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.kinds[kind]
	for i, e := range items {
		if e.ID() == id {
			updated := e.Clone()
			for k, v := range data {
				updated[k] = v
			}
			updated["id"] = e["id"]
			items[i] = updated
			return updated.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (b *MemoryBackend) Delete(_ context.Context, kind, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.kinds[kind]
	for i, e := range items {
		if e.ID() == id {
			b.kinds[kind] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Seed builds the seed of a kind from records without ids, numbering them from 1.
func Seed(items ...Entity) []Entity {
	out := make([]Entity, 0, len(items))
	for i, e := range items {
		e = e.Clone()
		e["id"] = i + 1
		out = append(out, e)
	}
	return out
}
