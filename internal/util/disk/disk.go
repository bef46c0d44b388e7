package disk

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// Space holds information about free and total bytes.
// Values are in bytes.
// On Linux, Statfs uses fragment size in Bsize.
type Space struct {
	Free  uint64
	Total uint64
}

// Dir is a handle to a storage location that can report its space.
type Dir interface {
	UsableSpace() (uint64, error)
	TotalSpace() (uint64, error)
}

// PathDir is a Dir backed by a filesystem path.
type PathDir string

func (p PathDir) UsableSpace() (uint64, error) {
	sp, err := FreeBytes(string(p))
	if err != nil {
		return 0, err
	}
	return sp.Free, nil
}

func (p PathDir) TotalSpace() (uint64, error) {
	sp, err := FreeBytes(string(p))
	if err != nil {
		return 0, err
	}
	return sp.Total, nil
}

func (p PathDir) String() string { return string(p) }

// FreeBytes returns available (for unprivileged user) and total bytes on filesystem containing path.
func FreeBytes(path string) (Space, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Space{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	free := uint64(st.Bavail) * bsize
	total := uint64(st.Blocks) * bsize
	return Space{Free: free, Total: total}, nil
}

// EnsureSpace checks that each path in need has at least required bytes free.
// Keys: directory paths; value: required bytes.
// Paths are checked in sorted order, so the first short path is reported.
func EnsureSpace(need map[string]uint64) error {
	for _, p := range slices.Sorted(maps.Keys(need)) {
		req := need[p]
		free, err := PathDir(p).UsableSpace()
		if err != nil {
			return err
		}
		if free < req {
			return fmt.Errorf("insufficient space on %s: free %s, need %s", p, humanize.IBytes(free), humanize.IBytes(req))
		}
	}
	return nil
}
