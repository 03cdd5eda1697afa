package watcher

import (
	"os"
	"path/filepath"
	"plantao/internal/store"
	"plantao/internal/testutil"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T) (*RecordWatcher, *testutil.MockCache, string, chan Change) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plantao.json")
	cache := testutil.NewMockCache()
	rw := NewRecordWatcher(&testutil.MockLogger{}, cache, path)

	changes := make(chan Change, 64)
	rw.OnChange(func(c Change) { changes <- c })
	require.NoError(t, rw.Start())
	t.Cleanup(func() { _ = rw.Stop() })
	return rw, cache, path, changes
}

func waitChange(t *testing.T, changes <-chan Change) Change {
	t.Helper()
	select {
	case c := <-changes:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no change observed")
		return Change{}
	}
}

func TestRecordWatcher_ExternalEditPurgesCache(t *testing.T) {
	_, cache, path, changes := startWatcher(t)
	cache.Set("record:1:1", []byte("{}"))

	require.NoError(t, os.WriteFile(path, []byte(`{"collaborators":[]}`), 0o644))

	c := waitChange(t, changes)
	assert.Equal(t, path, c.Path)
	assert.GreaterOrEqual(t, cache.ClearCount(), 1)
	_, ok := cache.Get("record:1:1")
	assert.False(t, ok)
}

func TestRecordWatcher_StoreWriteIsObserved(t *testing.T) {
	_, _, path, changes := startWatcher(t)

	_, err := store.NewRecordStore(path, nil, nil).Write(map[string]any{})
	require.NoError(t, err)

	c := waitChange(t, changes)
	assert.Equal(t, OpReplace, c.Op)
}

func TestRecordWatcher_IgnoresOtherFiles(t *testing.T) {
	_, cache, path, changes := startWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	c := waitChange(t, changes)
	assert.Equal(t, path, c.Path)
	assert.GreaterOrEqual(t, cache.ClearCount(), 1)
}

func TestRecordWatcher_StartTwiceFails(t *testing.T) {
	rw, _, _, _ := startWatcher(t)
	assert.Error(t, rw.Start())
}

func TestRecordWatcher_StartMissingDirFails(t *testing.T) {
	rw := NewRecordWatcher(&testutil.MockLogger{}, testutil.NewMockCache(), filepath.Join(t.TempDir(), "nope", "plantao.json"))
	assert.Error(t, rw.Start())
	assert.NoError(t, rw.Stop())
}

func TestRecordWatcher_StopIdempotent(t *testing.T) {
	rw, _, _, _ := startWatcher(t)
	assert.NoError(t, rw.Stop())
	assert.NoError(t, rw.Stop())
}

func TestConvert(t *testing.T) {
	rw := NewRecordWatcher(&testutil.MockLogger{}, testutil.NewMockCache(), "/data/plantao.json")

	tests := []struct {
		event fsnotify.Event
		want  ChangeOp
		ok    bool
	}{
		{fsnotify.Event{Name: "/data/plantao.json", Op: fsnotify.Write}, OpWrite, true},
		{fsnotify.Event{Name: "/data/plantao.json", Op: fsnotify.Create}, OpReplace, true},
		{fsnotify.Event{Name: "/data/plantao.json", Op: fsnotify.Remove}, OpRemove, true},
		{fsnotify.Event{Name: "/data/plantao.json", Op: fsnotify.Rename}, OpRemove, true},
		{fsnotify.Event{Name: "/data/plantao.json", Op: fsnotify.Chmod}, 0, false},
		{fsnotify.Event{Name: "/data/.plantao.json-123.tmp", Op: fsnotify.Write}, 0, false},
	}
	for _, tt := range tests {
		got, ok := rw.convert(tt.event)
		assert.Equal(t, tt.ok, ok, tt.event.String())
		if ok {
			assert.Equal(t, tt.want, got.Op)
		}
	}
}

func TestChangeOp_String(t *testing.T) {
	assert.Equal(t, "write", OpWrite.String())
	assert.Equal(t, "replace", OpReplace.String())
	assert.Equal(t, "remove", OpRemove.String())
	assert.Equal(t, "unknown", ChangeOp(9).String())
}
