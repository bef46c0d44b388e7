// Package storage reports free and total space of a data directory and
// flags low-storage conditions.
package storage

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/vbp1/spacecheck/internal/datadir"
	"github.com/vbp1/spacecheck/internal/util/disk"
)

// DefaultThreshold is the usable space below which storage counts as almost full.
const DefaultThreshold uint64 = 10 << 20 // 10 MiB

// Inspector queries a data directory handle.
type Inspector struct {
	dir       disk.Dir
	threshold uint64
}

type Option func(*Inspector)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(n uint64) Option {
	return func(i *Inspector) { i.threshold = n }
}

// New returns an Inspector over dir.
func New(dir disk.Dir, opts ...Option) *Inspector {
	i := &Inspector{dir: dir, threshold: DefaultThreshold}
	for _, o := range opts {
		o(i)
	}
	return i
}

func (i *Inspector) Threshold() uint64 { return i.threshold }

// FreeSpaceInBytes returns the usable space reported by the handle.
func (i *Inspector) FreeSpaceInBytes() (uint64, error) {
	n, err := i.dir.UsableSpace()
	if err != nil {
		return 0, fmt.Errorf("usable space: %w", err)
	}
	return n, nil
}

// TotalSpaceInBytes returns the total space reported by the handle.
func (i *Inspector) TotalSpaceInBytes() (uint64, error) {
	n, err := i.dir.TotalSpace()
	if err != nil {
		return 0, fmt.Errorf("total space: %w", err)
	}
	return n, nil
}

// IsAlmostFull reports whether usable space is strictly below the threshold.
func (i *Inspector) IsAlmostFull() (bool, error) {
	free, err := i.FreeSpaceInBytes()
	if err != nil {
		return false, err
	}
	return free < i.threshold, nil
}

// Usage is a point-in-time view of a data directory.
type Usage struct {
	Free       uint64
	Total      uint64
	Used       uint64
	Percent    float64
	Threshold  uint64
	AlmostFull bool
}

// Usage samples free and total space together.
func (i *Inspector) Usage() (Usage, error) {
	free, err := i.FreeSpaceInBytes()
	if err != nil {
		return Usage{}, err
	}
	total, err := i.TotalSpaceInBytes()
	if err != nil {
		return Usage{}, err
	}
	u := Usage{Free: free, Total: total, Threshold: i.threshold, AlmostFull: free < i.threshold}
	// handles may report free > total
	if total > free {
		u.Used = total - free
	}
	if total > 0 {
		u.Percent = float64(u.Used) / float64(total) * 100
	}
	return u, nil
}

func (u Usage) String() string {
	return fmt.Sprintf("free %s / total %s (%.1f%% used), threshold %s, almost full: %t",
		humanize.IBytes(u.Free), humanize.IBytes(u.Total), u.Percent, humanize.IBytes(u.Threshold), u.AlmostFull)
}

// FreeSpaceInBytes returns usable space of the process-wide data directory.
func FreeSpaceInBytes() (uint64, error) { return New(datadir.Default()).FreeSpaceInBytes() }

// TotalSpaceInBytes returns total space of the process-wide data directory.
func TotalSpaceInBytes() (uint64, error) { return New(datadir.Default()).TotalSpaceInBytes() }

// IsStorageAlmostFull reports whether the process-wide data directory is below DefaultThreshold.
func IsStorageAlmostFull() (bool, error) { return New(datadir.Default()).IsAlmostFull() }
