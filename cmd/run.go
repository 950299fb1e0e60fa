package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/pulse/internal/pipeline"
)

var runNoSync bool

var runCmd = &cobra.Command{
	Use:   "run <raw.json>",
	Short: "Build the daily summary and sync it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := &pipeline.Pipeline{Builder: newBuilder()}
		if !runNoSync {
			p.Agent = newAgent(cmd.OutOrStdout())
		}
		out, _, err := p.Run(args[0])
		if err != nil {
			return err
		}
		logger.Debug().Str("output", out).Msg("run complete")
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoSync, "no-sync", false, "Build the summary without syncing")
	rootCmd.AddCommand(runCmd)
}
