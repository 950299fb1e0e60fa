package cmd

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Stage, commit and push the repository",
	Long: "Stage all changes, commit them with a timestamped message and push to the\n" +
		"configured remote and branch. The outcome is reported as a status line;\n" +
		"a failed sync does not change the exit code.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		newAgent(cmd.OutOrStdout()).Run()
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
