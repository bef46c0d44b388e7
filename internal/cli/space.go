package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/vbp1/spacecheck/internal/storage"
	"github.com/vbp1/spacecheck/internal/util/disk"
)

func printBytes(w io.Writer, n uint64, human bool) {
	if human {
		fmt.Fprintln(w, humanize.IBytes(n))
		return
	}
	fmt.Fprintln(w, n)
}

func newFreeCmd(cfg *Config) *cobra.Command {
	var human bool
	cmd := &cobra.Command{
		Use:   "free",
		Short: "Print usable space in bytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cfg.inspector()
			if err != nil {
				return err
			}
			n, err := in.FreeSpaceInBytes()
			if err != nil {
				return err
			}
			printBytes(cmd.OutOrStdout(), n, human)
			return nil
		},
	}
	cmd.Flags().BoolVar(&human, "human", false, "Print IEC units instead of bytes")
	return cmd
}

func newTotalCmd(cfg *Config) *cobra.Command {
	var human bool
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Print total space in bytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cfg.inspector()
			if err != nil {
				return err
			}
			n, err := in.TotalSpaceInBytes()
			if err != nil {
				return err
			}
			printBytes(cmd.OutOrStdout(), n, human)
			return nil
		},
	}
	cmd.Flags().BoolVar(&human, "human", false, "Print IEC units instead of bytes")
	return cmd
}

func newStatusCmd(cfg *Config) *cobra.Command {
	var (
		bar        bool
		failOnFull bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print usage and the almost-full flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cfg.inspector()
			if err != nil {
				return err
			}
			u, err := in.Usage()
			if err != nil {
				return err
			}
			slog.Debug("status", "dir", cfg.dirLabel(), "free", u.Free, "total", u.Total)
			out := cmd.OutOrStdout()
			if bar && u.Total > 0 {
				renderUsageBar(out, u)
			}
			fmt.Fprintln(out, u)
			if failOnFull && u.AlmostFull {
				return fmt.Errorf("%s: %w", cfg.dirLabel(), ErrAlmostFull)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&bar, "bar", false, "Render a used/total gauge")
	cmd.Flags().BoolVar(&failOnFull, "fail-on-full", false, "Exit non-zero when storage is almost full")
	return cmd
}

// renderUsageBar draws a single static bar of used against total space.
// Auto refresh is forced so the frame is drawn when w is not a terminal.
func renderUsageBar(w io.Writer, u storage.Usage) {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(40), mpb.WithAutoRefresh())
	b := p.New(int64(u.Total), mpb.BarStyle().Rbound("|").Lbound("|"),
		mpb.PrependDecorators(decor.Name("used "), decor.Percentage()),
		mpb.AppendDecorators(decor.Any(func(s decor.Statistics) string {
			return fmt.Sprintf("%s / %s", humanize.IBytes(uint64(s.Current)), humanize.IBytes(uint64(s.Total)))
		})))
	b.SetCurrent(int64(u.Used))
	// Abort keeps the bar rendered at its current position; no-op if already complete.
	b.Abort(false)
	p.Wait()
}

func newEnsureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure PATH=SIZE...",
		Short: "Fail unless every PATH has at least SIZE usable space",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			need, err := parseRequirements(args)
			if err != nil {
				return err
			}
			if err := disk.EnsureSpace(need); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// parseRequirements turns PATH=SIZE arguments into EnsureSpace input.
// Repeated paths keep the largest requirement.
func parseRequirements(args []string) (map[string]uint64, error) {
	need := make(map[string]uint64, len(args))
	for _, a := range args {
		i := strings.LastIndex(a, "=")
		if i <= 0 || i == len(a)-1 {
			return nil, fmt.Errorf("invalid requirement %q: expected PATH=SIZE", a)
		}
		n, err := humanize.ParseBytes(a[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid size in %q: %w", a, err)
		}
		p := a[:i]
		if cur, ok := need[p]; !ok || n > cur {
			need[p] = n
		}
	}
	return need, nil
}
