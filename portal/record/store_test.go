package record_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/portal/record"
)

// gatedBackend wraps a MemoryBackend; List calls block until released and may fail.
type gatedBackend struct {
	*record.MemoryBackend
	mu      sync.Mutex
	gates   map[string]chan struct{}
	results map[string][]record.Entity
	listErr error
	delErr  error
}

func (b *gatedBackend) gate(search string) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gates == nil {
		b.gates = make(map[string]chan struct{})
	}
	if _, ok := b.gates[search]; !ok {
		b.gates[search] = make(chan struct{})
	}
	return b.gates[search]
}

func (b *gatedBackend) List(ctx context.Context, kind string, params record.Params) ([]record.Entity, error) {
	if b.results != nil {
		<-b.gate(params.Search)
		return b.results[params.Search], nil
	}
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.MemoryBackend.List(ctx, kind, params)
}

func (b *gatedBackend) Delete(ctx context.Context, kind, id string) error {
	if b.delErr != nil {
		return b.delErr
	}
	return b.MemoryBackend.Delete(ctx, kind, id)
}

func students() map[string][]record.Entity {
	return map[string][]record.Entity{
		"students": record.Seed(
			record.Entity{"firstName": "John", "lastName": "Banda"},
			record.Entity{"firstName": "Mary", "lastName": "Phiri"},
			record.Entity{"firstName": "Grace", "lastName": "Mwale"},
		),
	}
}

func names(items []record.Entity) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.String("firstName"))
	}
	return out
}

func TestStore_Fetch(t *testing.T) {
	ctx := context.Background()
	backend := &gatedBackend{MemoryBackend: record.NewMemoryBackend(students())}
	store := record.NewStore("students", backend)

	got, err := store.Fetch(ctx, record.Params{})
	require.NoError(t, err)
	assert.Equal(t, []string{"John", "Mary", "Grace"}, names(got))
	assert.False(t, store.Loading())

	t.Run("failure keeps previous contents", func(t *testing.T) {
		backend.listErr = &record.NetworkError{Op: "list students", Err: errors.New("connection refused")}
		defer func() { backend.listErr = nil }()

		_, err := store.Fetch(ctx, record.Params{})
		require.Error(t, err)
		var netErr *record.NetworkError
		assert.True(t, errors.As(err, &netErr))
		assert.Equal(t, []string{"John", "Mary", "Grace"}, names(store.Items()))
	})

	t.Run("items are copies", func(t *testing.T) {
		items := store.Items()
		items[0]["firstName"] = "Changed"
		e, ok := store.Get(items[0].ID())
		require.True(t, ok)
		assert.Equal(t, "John", e.String("firstName"))
	})
}

func TestStore_FetchDiscardsStaleResponses(t *testing.T) {
	ctx := context.Background()
	backend := &gatedBackend{
		MemoryBackend: record.NewMemoryBackend(nil),
		results: map[string][]record.Entity{
			"ma":  record.Seed(record.Entity{"firstName": "Mary"}, record.Entity{"firstName": "Martha"}),
			"mar": record.Seed(record.Entity{"firstName": "Mary"}),
		},
	}
	store := record.NewStore("students", backend)

	first := make(chan error, 1)
	go func() {
		_, err := store.Fetch(ctx, record.Params{Search: "ma"})
		first <- err
	}()
	// the first fetch must be issued before the second one
	assert.Eventually(t, store.Loading, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, err := store.Fetch(ctx, record.Params{Search: "mar"})
		second <- err
	}()

	close(backend.gate("mar"))
	require.NoError(t, <-second)
	assert.True(t, store.Loading())

	close(backend.gate("ma"))
	assert.Equal(t, record.ErrStaleResponse, <-first)
	assert.Equal(t, []string{"Mary"}, names(store.Items()))
	assert.False(t, store.Loading())
}

func TestStore_Mutations(t *testing.T) {
	ctx := context.Background()
	backend := &gatedBackend{MemoryBackend: record.NewMemoryBackend(students())}
	store := record.NewStore("students", backend)
	_, err := store.Fetch(ctx, record.Params{})
	require.NoError(t, err)

	created, err := store.Create(ctx, record.Entity{"firstName": "Esther"})
	require.NoError(t, err)
	assert.Equal(t, "4", created.ID())
	assert.Equal(t, []string{"John", "Mary", "Grace", "Esther"}, names(store.Items()))

	updated, err := store.Update(ctx, "2", record.Entity{"firstName": "Maria"})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.ID())
	assert.Equal(t, "Phiri", updated.String("lastName"))
	assert.Equal(t, []string{"John", "Maria", "Grace", "Esther"}, names(store.Items()))

	_, err = store.Update(ctx, "42", record.Entity{"firstName": "Nobody"})
	assert.Equal(t, record.ErrNotFound, errors.Cause(err))
	assert.Len(t, store.Items(), 4)

	require.NoError(t, store.Delete(ctx, "1"))
	assert.Equal(t, []string{"Maria", "Grace", "Esther"}, names(store.Items()))

	t.Run("already deleted counts as deleted", func(t *testing.T) {
		require.NoError(t, backend.MemoryBackend.Delete(ctx, "students", "3"))

		require.NoError(t, store.Delete(ctx, "3"))
		assert.Equal(t, []string{"Maria", "Esther"}, names(store.Items()))
	})

	t.Run("failed delete keeps the record", func(t *testing.T) {
		backend.delErr = &record.NetworkError{Op: "delete students", Status: 500, Err: errors.New("boom")}
		defer func() { backend.delErr = nil }()

		require.Error(t, store.Delete(ctx, "4"))
		assert.Equal(t, []string{"Maria", "Esther"}, names(store.Items()))
	})
}

func TestMemoryBackend_Create(t *testing.T) {
	ctx := context.Background()
	seed := map[string][]record.Entity{
		"grades": {{"id": 3, "term": "Term 1"}, {"id": 7, "term": "Term 2"}},
	}
	backend := record.NewMemoryBackend(seed)

	created, err := backend.Create(ctx, "grades", record.Entity{"term": "Term 3"})
	require.NoError(t, err)
	assert.Equal(t, "8", created.ID())

	created, err = backend.Create(ctx, "teachers", record.Entity{"firstName": "James"})
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID())

	// seed is copied
	assert.Len(t, seed["grades"], 2)
	assert.Equal(t, record.ErrNotFound, backend.Delete(ctx, "grades", "42"))
}

func TestEntity(t *testing.T) {
	e := record.Entity{"id": float64(12), "score": 82.5, "name": "Mary", "count": "7"}
	assert.Equal(t, "12", e.ID())
	assert.Equal(t, "82.5", e.String("score"))
	assert.Equal(t, "", e.String("missing"))

	n, ok := e.Int("count")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = e.Int("name")
	assert.False(t, ok)
}
