package persist_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/persist"
	"github.com/tasklight/backend/internal/store"
)

// memStorage is an in-memory Storage that counts writes.
type memStorage struct {
	mu     sync.Mutex
	data   []byte
	writes int

	failWrite bool
	failRead  bool
}

func (m *memStorage) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return nil, errors.New("read refused")
	}
	return m.data, nil
}

func (m *memStorage) Write(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("quota exceeded")
	}
	m.data = append([]byte(nil), payload...)
	m.writes++
	return nil
}

func (m *memStorage) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

func (m *memStorage) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func snapshotWith(text string) store.Snapshot {
	s := store.New(nil)
	_, _ = s.AddTask(store.AddTaskInput{Text: text})
	return s.Snapshot()
}

func Test_Save_DebounceCollapsesToLastState(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	g := persist.NewGateway(storage, 80*time.Millisecond, nil)

	g.Save(snapshotWith("one"))
	time.Sleep(20 * time.Millisecond)
	g.Save(snapshotWith("two"))
	time.Sleep(20 * time.Millisecond)
	g.Save(snapshotWith("three"))

	// inside the window nothing has been written yet
	assert.Zero(t, storage.writeCount())

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 1, storage.writeCount())

	loaded, ok := g.Load()
	require.True(t, ok)
	require.Len(t, loaded.Tasks.AllIDs, 1)
	assert.Equal(t, "three", loaded.Tasks.ByID[loaded.Tasks.AllIDs[0]].Text)
}

func Test_Flush_WritesImmediately(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	g := persist.NewGateway(storage, time.Hour, nil)

	g.Save(snapshotWith("now"))
	g.Flush()
	assert.Equal(t, 1, storage.writeCount())

	// nothing pending, flush is a no-op
	g.Flush()
	assert.Equal(t, 1, storage.writeCount())
}

func Test_RoundTrip_ThroughBolt(t *testing.T) {
	t.Parallel()

	storage, err := persist.OpenBolt(t.TempDir() + "/tasks.db")
	require.NoError(t, err)
	defer storage.Close()

	g := persist.NewGateway(storage, time.Millisecond, nil)

	s := store.New(nil)
	task, err := s.AddTask(store.AddTaskInput{
		Text:        "persisted",
		Description: "survives restart",
		Tags:        []string{"keep"},
		DueDate:     1_700_000_500_000,
	})
	require.NoError(t, err)
	s.SetTaskReminder(task.ID, store.ReminderUpdate{})
	s.AddCategory("Errands", "red", "cart")
	snap := s.Snapshot()

	g.Save(snap)
	g.Flush()

	loaded, ok := g.Load()
	require.True(t, ok)
	if diff := cmp.Diff(snap, loaded); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func Test_Load_AbsentState(t *testing.T) {
	t.Parallel()

	g := persist.NewGateway(&memStorage{}, time.Second, nil)
	_, ok := g.Load()
	assert.False(t, ok)
}

func Test_Load_VersionMismatchDiscardsEntry(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	stale, err := json.Marshal(persist.Envelope{
		Version:   0,
		Timestamp: domain.NowMillis(),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Write(stale))

	g := persist.NewGateway(storage, time.Second, nil)
	_, ok := g.Load()
	assert.False(t, ok)

	// the stale record is gone
	raw, err := storage.Read()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func Test_Load_CorruptPayloadTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	require.NoError(t, storage.Write([]byte("{not json")))

	g := persist.NewGateway(storage, time.Second, nil)
	_, ok := g.Load()
	assert.False(t, ok)
}

func Test_WriteFailure_NeverPropagates(t *testing.T) {
	t.Parallel()

	storage := &memStorage{failWrite: true}
	g := persist.NewGateway(storage, time.Millisecond, nil)

	g.Save(snapshotWith("doomed"))
	g.Flush() // must not panic or surface the error

	storage.failRead = true
	_, ok := g.Load()
	assert.False(t, ok)
}

func Test_Close_FlushesPendingState(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	g := persist.NewGateway(storage, time.Hour, nil)

	g.Save(snapshotWith("last edit"))
	require.NoError(t, g.Close())
	assert.Equal(t, 1, storage.writeCount())

	// saves after close are dropped
	g.Save(snapshotWith("too late"))
	g.Flush()
	assert.Equal(t, 1, storage.writeCount())
}

func Test_Envelope_WireShape(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	g := persist.NewGateway(storage, time.Millisecond, nil)
	g.SetClock(func() int64 { return 42 })

	g.Save(snapshotWith("shape"))
	g.Flush()

	raw, err := storage.Read()
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Contains(t, env, "version")
	assert.Contains(t, env, "timestamp")
	assert.Contains(t, env, "data")

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env["data"], &data))
	for _, table := range []string{"tasks", "categories"} {
		var tbl map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data[table], &tbl))
		assert.Contains(t, tbl, "byId")
		assert.Contains(t, tbl, "allIds")
	}
}

func Test_BoltStorage_Stats(t *testing.T) {
	t.Parallel()

	storage, err := persist.OpenBolt(t.TempDir() + "/tasks.db")
	require.NoError(t, err)
	defer storage.Close()

	stats := storage.Stats()
	assert.True(t, stats.Online)
	assert.Greater(t, stats.Size, int64(0))

	var missing *persist.BoltStorage
	assert.False(t, missing.Stats().Online)
}
