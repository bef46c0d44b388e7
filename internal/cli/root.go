package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vbp1/spacecheck/internal/datadir"
	"github.com/vbp1/spacecheck/internal/log"
	"github.com/vbp1/spacecheck/internal/storage"
	"github.com/vbp1/spacecheck/internal/util/disk"
)

// ErrAlmostFull is returned by status --fail-on-full when usable space is below the threshold.
var ErrAlmostFull = errors.New("storage almost full")

// Config holds values of CLI flags.
type Config struct {
	DataDir   string
	Threshold string
	Debug     bool
	Verbose   bool
}

// inspector builds a storage.Inspector from flags.
// An empty DataDir uses the process-wide data directory.
func (c *Config) inspector() (*storage.Inspector, error) {
	threshold, err := humanize.ParseBytes(c.Threshold)
	if err != nil {
		return nil, fmt.Errorf("invalid --threshold %q: %w", c.Threshold, err)
	}
	var dir disk.Dir = disk.PathDir(c.DataDir)
	if c.DataDir == "" {
		dir = datadir.Default()
	}
	return storage.New(dir, storage.WithThreshold(threshold)), nil
}

// dirLabel names the inspected directory for locks and messages.
func (c *Config) dirLabel() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return datadir.Path(datadir.AppName)
}

// NewRootCmd returns the spacecheck command tree.
func NewRootCmd() *cobra.Command {
	cfg := &Config{}
	root := &cobra.Command{
		Use:           "spacecheck",
		Short:         "Report free/total space of a data directory and flag low storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Setup(cmd.ErrOrStderr(), cfg.Debug, cfg.Verbose)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&cfg.DataDir, "data-dir", "", "Directory to inspect (default: XDG data dir)")
	f.StringVar(&cfg.Threshold, "threshold", "10MiB", "Usable space below which storage is almost full")
	f.BoolVar(&cfg.Debug, "debug", false, "Enable debug trace output")
	f.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")

	root.AddCommand(
		newFreeCmd(cfg),
		newTotalCmd(cfg),
		newStatusCmd(cfg),
		newEnsureCmd(),
		newWatchCmd(cfg),
	)
	return root
}

// Execute parses flags and runs the root command.
func Execute() error { return NewRootCmd().Execute() }
