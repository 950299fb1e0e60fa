package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pulse/internal/metrics"
	"github.com/fakeyudi/pulse/internal/summary"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := GetConfig().OutputPath
		out := cmd.OutOrStdout()

		s, err := summary.Load(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, "no summary yet")
				return nil
			}
			return err
		}

		fmt.Fprintf(out, "Summary: %s\n", path)
		fmt.Fprintf(out, "Generated: %s\n", s.Timestamp)
		fmt.Fprintf(out, "Screen time: %s\n", summary.FormatDuration(s.TotalDurationSec))
		fmt.Fprintf(out, "Pickups: %g\n", s.Pickups)
		fmt.Fprintf(out, "Entropy: %.2f (%s)\n", s.Entropy, metrics.Level(s.Entropy))
		fmt.Fprintf(out, "Apps: %d\n", len(s.Apps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
