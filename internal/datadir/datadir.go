// Package datadir resolves the application data directory and holds the
// process-wide handle used by storage queries.
package datadir

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/vbp1/spacecheck/internal/util/disk"
)

// AppName is the directory created under the XDG data home.
const AppName = "spacecheck"

var (
	mu      sync.Mutex
	current disk.Dir
)

// Path returns the data directory for app under the XDG data home.
func Path(app string) string {
	return filepath.Join(xdg.DataHome, app)
}

// Default returns the process-wide data directory handle, resolving it on first use.
func Default() disk.Dir {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = disk.PathDir(statRoot(Path(AppName)))
	}
	return current
}

// SetForTest replaces the process-wide handle and returns a func restoring the previous one.
func SetForTest(d disk.Dir) (restore func()) {
	mu.Lock()
	prev := current
	current = d
	mu.Unlock()
	return func() {
		mu.Lock()
		current = prev
		mu.Unlock()
	}
}

// statRoot returns the nearest existing ancestor of path, so a data
// directory that has not been created yet still reports its volume.
func statRoot(path string) string {
	p := filepath.Clean(path)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
