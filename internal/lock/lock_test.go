package lock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileLock(t *testing.T) {
	dir := t.TempDir()
	l1 := New(dir)
	ok, err := l1.TryLock()
	require.NoError(t, err)
	require.True(t, ok, "first lock failed")
	defer func() { _ = l1.Unlock() }()

	l2 := New(dir)
	ok, err = l2.TryLock()
	require.NoError(t, err)
	require.False(t, ok, "lock should be held by first watcher")
}

func TestLockPathPerDir(t *testing.T) {
	require.Equal(t, New("/data/a/").Path(), New("/data/a").Path())
	require.NotEqual(t, New("/data/a").Path(), New("/data/b").Path())
}
