package ballast

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "snapshot channel closed early")
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestWatch_RequiresBackingFile(t *testing.T) {
	store := New()
	_, _, err := store.Watch(context.Background())
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestWatch_InitialSnapshot(t *testing.T) {
	cleanupKeys(t, "WATCH_A", "WATCH_B")
	path := writeEnv(t, "WATCH_A=1\nWATCH_B=two\n")
	store, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, _, err := store.Watch(ctx)
	require.NoError(t, err)

	snap := awaitSnapshot(t, snapshots)
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, "initial", snap.Cause)
	assert.Equal(t, []string{"WATCH_A", "WATCH_B"}, snap.Changed)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	cleanupKeys(t, "WATCH_C", "WATCH_D")
	path := writeEnv(t, "WATCH_C=old\n")
	store, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, errs, err := store.Watch(ctx)
	require.NoError(t, err)
	awaitSnapshot(t, snapshots) // initial

	require.NoError(t, os.WriteFile(path, []byte("WATCH_C=new\nWATCH_D=42\n"), 0o644))

	snap := awaitSnapshot(t, snapshots)
	assert.Equal(t, int64(2), snap.Version)
	assert.Equal(t, []string{"WATCH_C", "WATCH_D"}, snap.Changed)

	assert.Equal(t, "new", store.String("WATCH_C", ""))
	assert.Equal(t, int64(42), store.Int("WATCH_D", 0))

	select {
	case err := <-errs:
		t.Fatalf("unexpected watch error: %v", err)
	default:
	}
}

func TestWatch_RemovedKeysDropped(t *testing.T) {
	cleanupKeys(t, "WATCH_E", "WATCH_F")
	path := writeEnv(t, "WATCH_E=1\nWATCH_F=2\n")
	store, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, _, err := store.Watch(ctx)
	require.NoError(t, err)
	awaitSnapshot(t, snapshots)

	require.NoError(t, os.WriteFile(path, []byte("WATCH_E=1\n"), 0o644))

	snap := awaitSnapshot(t, snapshots)
	assert.Equal(t, []string{"WATCH_F"}, snap.Changed)
	_, ok := store.Get("WATCH_F")
	assert.False(t, ok)
}

func TestWatch_SurvivesAtomicReplace(t *testing.T) {
	cleanupKeys(t, "WATCH_G")
	path := writeEnv(t, "WATCH_G=before\n")
	store, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, _, err := store.Watch(ctx)
	require.NoError(t, err)
	awaitSnapshot(t, snapshots)

	// Replace the file the way editors and the store's own writer do:
	// write a sibling temp file and rename it over the target.
	tmp := filepath.Join(filepath.Dir(path), "next.env")
	require.NoError(t, os.WriteFile(tmp, []byte("WATCH_G=after\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	snap := awaitSnapshot(t, snapshots)
	assert.Equal(t, []string{"WATCH_G"}, snap.Changed)
	assert.Equal(t, "after", store.String("WATCH_G", ""))
}

func TestWatch_ContextCancelClosesChannels(t *testing.T) {
	cleanupKeys(t, "WATCH_H")
	path := writeEnv(t, "WATCH_H=1\n")
	store, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	snapshots, errs, err := store.Watch(ctx)
	require.NoError(t, err)
	awaitSnapshot(t, snapshots)

	cancel()

	select {
	case _, ok := <-snapshots:
		assert.False(t, ok, "snapshot channel should close on cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("snapshot channel did not close")
	}
	select {
	case _, ok := <-errs:
		assert.False(t, ok, "error channel should close on cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("error channel did not close")
	}
}
