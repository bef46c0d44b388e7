package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vbp1/spacecheck/internal/storage"
)

// DefaultInterval is used when Watcher.Interval is not positive.
const DefaultInterval = 30 * time.Second

// Watcher polls an Inspector and reports almost-full transitions.
type Watcher struct {
	Inspector *storage.Inspector
	Interval  time.Duration
	// OnChange is called with the first sample and on every almost-full flip.
	OnChange func(storage.Usage)
}

// Run polls until ctx is done. Failed samples are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	var (
		seen bool
		last bool
	)
	for {
		u, err := w.Inspector.Usage()
		if err != nil {
			slog.Warn("watch: sample failed", "err", err)
		} else if !seen || u.AlmostFull != last {
			w.report(u, seen)
			seen, last = true, u.AlmostFull
		} else {
			slog.Debug("watch: sample", "free", u.Free, "total", u.Total)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (w *Watcher) report(u storage.Usage, changed bool) {
	attrs := []any{"free", humanize.IBytes(u.Free), "total", humanize.IBytes(u.Total), "threshold", humanize.IBytes(u.Threshold)}
	switch {
	case u.AlmostFull:
		slog.Warn("storage almost full", attrs...)
	case changed:
		slog.Info("storage recovered", attrs...)
	default:
		slog.Info("storage ok", attrs...)
	}
	if w.OnChange != nil {
		w.OnChange(u)
	}
}
