package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, sub *Subscription, name string) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-sub.C:
			require.True(t, ok, "subscription closed while waiting for %s", name)
			if filepath.Base(ev.Path) == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", name)
		}
	}
}

func TestSubscribeReceivesCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Close()

	sub, err := w.Subscribe(dir)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh.txt"), []byte("x"), 0o644))

	ev := waitFor(t, sub, "fresh.txt")
	assert.Equal(t, "create", ev.Op)
}

func TestSubscribeReceivesRemove(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "victim.txt")
	require.NoError(t, os.WriteFile(victim, []byte("x"), 0o644))

	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Close()

	sub, err := w.Subscribe(dir)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, os.Remove(victim))

	ev := waitFor(t, sub, "victim.txt")
	assert.Equal(t, "remove", ev.Op)
}

func TestEventsScopedToDirectory(t *testing.T) {
	root := t.TempDir()
	watched := filepath.Join(root, "watched")
	other := filepath.Join(root, "other")
	require.NoError(t, os.MkdirAll(watched, 0o755))
	require.NoError(t, os.MkdirAll(other, 0o755))

	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Close()

	sub, err := w.Subscribe(watched)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, os.WriteFile(filepath.Join(watched, "in.txt"), []byte("x"), 0o644))

	ev := waitFor(t, sub, "in.txt")
	assert.Equal(t, watched, filepath.Dir(ev.Path))
}

func TestMultipleSubscribersShareDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Close()

	sub1, err := w.Subscribe(dir)
	require.NoError(t, err)
	sub2, err := w.Subscribe(dir)
	require.NoError(t, err)
	defer sub2.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.txt"), []byte("x"), 0o644))
	waitFor(t, sub1, "shared.txt")
	waitFor(t, sub2, "shared.txt")

	// Closing one subscriber leaves the other attached.
	sub1.Close()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "second.txt"), []byte("x"), 0o644))
	waitFor(t, sub2, "second.txt")
}

func TestCloseClosesSubscriptions(t *testing.T) {
	dir := t.TempDir()
	w, err := New(nil, nil)
	require.NoError(t, err)

	sub, err := w.Subscribe(dir)
	require.NoError(t, err)

	require.NoError(t, w.Close())

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestSubscribeMissingDirectory(t *testing.T) {
	w, err := New(nil, nil)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Subscribe(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
