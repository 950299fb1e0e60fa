package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/pulse/internal/pipeline"
	"github.com/fakeyudi/pulse/internal/watch"
)

var watchSync bool

var watchCmd = &cobra.Command{
	Use:   "watch <raw.json>",
	Short: "Rebuild the summary whenever the raw export changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := &pipeline.Pipeline{Builder: newBuilder()}
		if watchSync {
			p.Agent = newAgent(cmd.OutOrStdout())
		}
		rebuild := func(path string) {
			out, _, err := p.Run(path)
			if err != nil {
				logger.Error().Err(err).Str("input", path).Msg("rebuild failed")
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}

		rawPath := args[0]
		if _, err := os.Stat(rawPath); err == nil {
			rebuild(rawPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		return watch.New(rawPath, logger).Run(ctx, rebuild)
	},
}

// cmdContext returns the command's context, or Background when run without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	watchCmd.Flags().BoolVar(&watchSync, "sync", false, "Sync the repository after each rebuild")
	rootCmd.AddCommand(watchCmd)
}
