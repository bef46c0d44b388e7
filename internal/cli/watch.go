package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbp1/spacecheck/internal/lock"
	"github.com/vbp1/spacecheck/internal/storage"
	"github.com/vbp1/spacecheck/internal/util/signalctx"
	"github.com/vbp1/spacecheck/internal/watch"
)

func newWatchCmd(cfg *Config) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the data directory and report almost-full transitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cfg.inspector()
			if err != nil {
				return err
			}

			l := lock.New(cfg.dirLabel())
			ok, err := l.TryLock()
			if err != nil {
				return fmt.Errorf("lock %s: %w", l.Path(), err)
			}
			if !ok {
				return fmt.Errorf("another watcher holds %s", l.Path())
			}
			defer func() { _ = l.Unlock() }()

			ctx, cancel, _ := signalctx.WithSignals(cmd.Context())
			defer cancel()

			slog.Info("watching", "dir", cfg.dirLabel(), "interval", interval)
			out := cmd.OutOrStdout()
			w := &watch.Watcher{
				Inspector: in,
				Interval:  interval,
				OnChange: func(u storage.Usage) {
					fmt.Fprintf(out, "%s %s\n", time.Now().Format(time.RFC3339), u)
				},
			}
			return w.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "Polling interval")
	return cmd
}
