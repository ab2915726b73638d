package favorites

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is an in-memory domain.KeyValueStore with failure injection.
type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes [][]byte

	getErr   error
	setErr   error
	getPanic bool

	// When set, SetItem signals started (once) and waits for release.
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (kv *memKV) GetItem(key string) ([]byte, bool, error) {
	if kv.getPanic {
		panic("storage exploded")
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.getErr != nil {
		return nil, false, kv.getErr
	}
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *memKV) SetItem(key string, value []byte) error {
	if kv.release != nil {
		kv.once.Do(func() { close(kv.started) })
		<-kv.release
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.setErr != nil {
		return kv.setErr
	}
	kv.data[key] = value
	kv.writes = append(kv.writes, value)
	return nil
}

func (kv *memKV) RemoveItem(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

func (kv *memKV) stored(t *testing.T) []domain.Movie {
	t.Helper()
	kv.mu.Lock()
	defer kv.mu.Unlock()
	data, ok := kv.data[DefaultKey]
	require.True(t, ok, "no snapshot written")
	movies, err := Decode(data)
	require.NoError(t, err)
	return movies
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, kv domain.KeyValueStore) *Store {
	t.Helper()
	s := NewStore(kv, WithLogger(discardLogger()))
	t.Cleanup(s.Close)
	return s
}

func ids(movies []domain.Movie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestToggle_AddThenRemove(t *testing.T) {
	s := newTestStore(t, newMemKV())

	s.Toggle(domain.Movie{ID: 42, Title: "X"})
	assert.Equal(t, []domain.Movie{{ID: 42, Title: "X"}}, s.Snapshot())

	s.Toggle(domain.Movie{ID: 42, Title: "X"})
	assert.Empty(t, s.Snapshot())
}

func TestToggle_RemovalKeepsOrderOfSurvivors(t *testing.T) {
	s := newTestStore(t, newMemKV())

	s.Toggle(domain.Movie{ID: 1})
	s.Toggle(domain.Movie{ID: 2})
	s.Toggle(domain.Movie{ID: 1})
	assert.Equal(t, []int{2}, ids(s.Snapshot()))

	s.Toggle(domain.Movie{ID: 3})
	s.Toggle(domain.Movie{ID: 4})
	s.Toggle(domain.Movie{ID: 3})
	s.Toggle(domain.Movie{ID: 1})
	assert.Equal(t, []int{2, 4, 1}, ids(s.Snapshot()))
}

func TestToggle_MatchesByIDOnly(t *testing.T) {
	s := newTestStore(t, newMemKV())

	s.Toggle(domain.Movie{ID: 5, Title: "Original"})
	s.Toggle(domain.Movie{ID: 5, Title: "Stale copy from another screen"})
	assert.Empty(t, s.Snapshot())
}

func TestToggle_PairLeavesListUnchanged(t *testing.T) {
	s := newTestStore(t, newMemKV())
	for _, id := range []int{10, 20, 30} {
		s.Toggle(domain.Movie{ID: id})
	}
	before := s.Snapshot()

	for _, id := range []int{20, 99, 10} {
		s.Toggle(domain.Movie{ID: id})
		s.Toggle(domain.Movie{ID: id})
		assert.Equal(t, before, s.Snapshot())
	}
}

func TestToggle_OddCountMeansPresent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for round := 0; round < 20; round++ {
		s := newTestStore(t, newMemKV())
		counts := make(map[int]int)

		for i := 0; i < 200; i++ {
			id := rng.Intn(15)
			counts[id]++
			s.Toggle(domain.Movie{ID: id})
		}

		snapshot := s.Snapshot()
		seen := make(map[int]bool)
		for _, m := range snapshot {
			require.False(t, seen[m.ID], "duplicate id %d", m.ID)
			seen[m.ID] = true
		}
		for id, n := range counts {
			assert.Equal(t, n%2 == 1, seen[id], "id %d toggled %d times", id, n)
		}
	}
}

func TestToggle_SnapshotIsACopy(t *testing.T) {
	s := newTestStore(t, newMemKV())
	s.Toggle(domain.Movie{ID: 1, Title: "One"})

	snap := s.Snapshot()
	snap[0].Title = "mutated"

	assert.Equal(t, "One", s.Snapshot()[0].Title)
}

func TestToggle_PersistsWholeList(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, WithLogger(discardLogger()))

	s.Toggle(domain.Movie{ID: 1, Title: "One", VoteAverage: 7.5})
	s.Toggle(domain.Movie{ID: 2, Title: "Two"})
	s.Toggle(domain.Movie{ID: 3, Title: "Three"})
	s.Toggle(domain.Movie{ID: 2, Title: "Two"})
	s.Close()

	assert.Equal(t, s.Snapshot(), kv.stored(t))
	assert.LessOrEqual(t, len(kv.writes), 4)
}

func TestToggle_DoesNotWaitForSlowWrites(t *testing.T) {
	kv := newMemKV()
	kv.started = make(chan struct{})
	kv.release = make(chan struct{})
	s := NewStore(kv, WithLogger(discardLogger()))

	s.Toggle(domain.Movie{ID: 1})
	<-kv.started // writer is now stuck inside SetItem

	done := make(chan struct{})
	go func() {
		s.Toggle(domain.Movie{ID: 2})
		s.Toggle(domain.Movie{ID: 3})
		s.Toggle(domain.Movie{ID: 1})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Toggle blocked on an in-flight write")
	}
	assert.Equal(t, []int{2, 3}, ids(s.Snapshot()))

	close(kv.release)
	s.Close()

	// The stale first write landed before the last one
	assert.Equal(t, []int{2, 3}, ids(kv.stored(t)))
}

func TestToggle_WriteFailureIsLoggedNotReverted(t *testing.T) {
	var logs bytes.Buffer
	kv := newMemKV()
	kv.setErr = errors.New("disk full")
	s := NewStore(kv, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	s.Toggle(domain.Movie{ID: 9})
	s.Close()

	assert.Equal(t, []int{9}, ids(s.Snapshot()))
	assert.Contains(t, logs.String(), "failed to save favorites")
	assert.Contains(t, logs.String(), "disk full")
}

func TestToggle_AfterCloseUpdatesMemoryOnly(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, WithLogger(discardLogger()))
	s.Toggle(domain.Movie{ID: 1})
	s.Close()
	writes := len(kv.writes)

	s.Toggle(domain.Movie{ID: 2})

	assert.Equal(t, []int{1, 2}, ids(s.Snapshot()))
	assert.Equal(t, writes, len(kv.writes))
	s.Close() // idempotent
}

func TestInitialize_LoadsSnapshot(t *testing.T) {
	kv := newMemKV()
	kv.data[DefaultKey] = []byte(`[{"id":3,"title":"C"},{"id":1,"title":"A"}]`)
	s := newTestStore(t, kv)

	s.Initialize(context.Background())

	assert.Equal(t, []domain.Movie{{ID: 3, Title: "C"}, {ID: 1, Title: "A"}}, s.Snapshot())
}

func TestInitialize_UsesCustomKey(t *testing.T) {
	kv := newMemKV()
	kv.data["favs:v2"] = []byte(`[{"id":8}]`)
	s := NewStore(kv, WithKey("favs:v2"), WithLogger(discardLogger()))
	defer s.Close()

	s.Initialize(context.Background())
	assert.Equal(t, []int{8}, ids(s.Snapshot()))
}

func TestInitialize_CollapsesDuplicateIDs(t *testing.T) {
	kv := newMemKV()
	kv.data[DefaultKey] = []byte(`[{"id":1,"title":"first"},{"id":2},{"id":1,"title":"again"}]`)
	s := newTestStore(t, kv)

	s.Initialize(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, []int{1, 2}, ids(snap))
	assert.Equal(t, "first", snap[0].Title)
}

func TestInitialize_FailuresLeaveListEmpty(t *testing.T) {
	tests := []struct {
		name  string
		setup func(kv *memKV)
	}{
		{
			name:  "missing snapshot",
			setup: func(kv *memKV) {},
		},
		{
			name:  "corrupt snapshot",
			setup: func(kv *memKV) { kv.data[DefaultKey] = []byte(`{ not json`) },
		},
		{
			name:  "wrong shape",
			setup: func(kv *memKV) { kv.data[DefaultKey] = []byte(`{"id":1}`) },
		},
		{
			name:  "read error",
			setup: func(kv *memKV) { kv.getErr = errors.New("io error") },
		},
		{
			name:  "backend panics",
			setup: func(kv *memKV) { kv.getPanic = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			tt.setup(kv)
			s := newTestStore(t, kv)

			assert.NotPanics(t, func() { s.Initialize(context.Background()) })
			assert.Empty(t, s.Snapshot())

			// Still usable afterwards
			s.Toggle(domain.Movie{ID: 1})
			assert.Equal(t, []int{1}, ids(s.Snapshot()))
		})
	}
}

func TestInitialize_CancelledContext(t *testing.T) {
	kv := newMemKV()
	kv.data[DefaultKey] = []byte(`[{"id":1}]`)
	s := newTestStore(t, kv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Initialize(ctx)

	assert.Empty(t, s.Snapshot())
}

func TestSubscribe_NotifiesWholeList(t *testing.T) {
	kv := newMemKV()
	kv.data[DefaultKey] = []byte(`[{"id":1}]`)
	s := newTestStore(t, kv)

	var got [][]int
	unsubscribe := s.Subscribe(domain.ObserverFunc(func(favs []domain.Movie) {
		got = append(got, ids(favs))
	}))

	s.Initialize(context.Background())
	s.Toggle(domain.Movie{ID: 2})
	s.Toggle(domain.Movie{ID: 1})
	unsubscribe()
	s.Toggle(domain.Movie{ID: 3})

	assert.Equal(t, [][]int{{1}, {1, 2}, {2}}, got)
}

func TestCodec_RoundTrip(t *testing.T) {
	movies := []domain.Movie{
		{ID: 3, Title: "Three", PosterPath: "/p3.jpg", VoteAverage: 6.1, ReleaseDate: "2001-02-03", GenreIDs: []int{18, 35}},
		{ID: 1, Title: "One", Overview: "first", Adult: true},
	}
	data, err := Encode(movies)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, movies, decoded)
}

func TestCodec_EncodeNil(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
