package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock guards a data directory against concurrent watchers.
type FileLock struct {
	fl   *flock.Flock
	path string
}

// New returns lock at <tmp>/spacecheck_<hash>.lock.
func New(dataDir string) *FileLock {
	abs := filepath.Clean(dataDir)
	sum := sha256.Sum256([]byte(abs))
	name := filepath.Join(os.TempDir(), fmt.Sprintf("spacecheck_%s.lock", hex.EncodeToString(sum[:8])))
	return &FileLock{fl: flock.New(name), path: name}
}

func (l *FileLock) Path() string { return l.path }

// TryLock attempts non-blocking lock.
func (l *FileLock) TryLock() (bool, error) {
	return l.fl.TryLock()
}

// Unlock releases the lock and removes the lock file.
func (l *FileLock) Unlock() error {
	if err := l.fl.Unlock(); err != nil {
		return err
	}
	// another process may already have removed it
	_ = os.Remove(l.path)
	return nil
}
