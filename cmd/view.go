package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/pulse/internal/metrics"
	"github.com/fakeyudi/pulse/internal/summary"
	"github.com/fakeyudi/pulse/internal/tui"
)

var (
	plainOutput    bool
	markdownOutput bool
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "View a daily summary (defaults to the configured output path)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := GetConfig().OutputPath
		if len(args) == 1 {
			path = args[0]
		}

		s, err := loadSummary(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case markdownOutput:
			data, err := (&summary.MarkdownRenderer{}).Render(s)
			if err != nil {
				return fmt.Errorf("render summary: %w", err)
			}
			_, err = out.Write(data)
			return err
		case plainOutput || !isTerminal(out):
			printSummary(out, s)
			return nil
		}
		return tui.Run(s, path)
	},
}

func loadSummary(path string) (*summary.Summary, error) {
	s, err := summary.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, err
	}
	return s, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// printSummary writes a plain-text report to w.
func printSummary(w io.Writer, s *summary.Summary) {
	fmt.Fprintln(w, "## Summary")
	fmt.Fprintf(w, "  Generated:    %s\n", s.Timestamp)
	fmt.Fprintf(w, "  Screen time:  %s\n", summary.FormatDuration(s.TotalDurationSec))
	fmt.Fprintf(w, "  Pickups:      %g\n", s.Pickups)
	fmt.Fprintf(w, "  Entropy:      %.2f (%s)\n", s.Entropy, metrics.Level(s.Entropy))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Apps")
	apps := summary.RankApps(s.Apps)
	if len(apps) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		for _, a := range apps {
			fmt.Fprintf(w, "  %-20s %s  %5.1f%%\n", a.Name, summary.FormatDuration(a.Seconds), a.Share(s.TotalDurationSec)*100)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Busiest Hours")
	hours := busiestHours(s.HourlyDistribution, 3)
	if len(hours) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		for _, h := range hours {
			fmt.Fprintf(w, "  %02d:00  %g\n", h, s.HourlyDistribution[h])
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Flow")
	if len(s.Flow) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		for _, e := range s.Flow {
			fmt.Fprintf(w, "  %s -> %s  %g\n", e.Source, e.Target, e.Value)
		}
	}
}

// busiestHours returns up to n hours with non-zero values, highest first.
func busiestHours(dist []float64, n int) []int {
	var hours []int
	for h, v := range dist {
		if v > 0 {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool { return dist[hours[i]] > dist[hours[j]] })
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	viewCmd.Flags().BoolVar(&markdownOutput, "markdown", false, "render the summary as Markdown")
	rootCmd.AddCommand(viewCmd)
}
