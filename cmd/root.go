package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/pulse/internal/config"
	"github.com/fakeyudi/pulse/internal/reposync"
	"github.com/fakeyudi/pulse/internal/summary"
)

// ReadyLine is printed when pulse runs without a subcommand.
const ReadyLine = "DIGITAL_PULSE_PROCESSOR: READY"

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is configured from cfg in PersistentPreRunE.
var logger = zerolog.Nop()

// gitRunner overrides the git subprocess; nil runs the real binary.
var gitRunner reposync.GitRunner

var (
	outputFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:          "pulse",
	Short:        "Summarise daily app usage and publish it to a git-backed dashboard",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if outputFlag != "" {
			loaded.OutputPath = outputFlag
		}
		if logLevelFlag != "" {
			loaded.LogLevel = logLevelFlag
		}
		cfg = loaded
		logger = setupLogger(cmd.ErrOrStderr(), cfg).
			With().Str("run_id", uuid.New().String()).Logger()
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), ReadyLine)
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// setupLogger builds the process logger. Logs go to w, leaving stdout for
// the status lines.
func setupLogger(w io.Writer, c config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch c.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if c.LogFormat == "json" {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(level).With().Timestamp().Logger()
}

// newBuilder returns a SummaryBuilder for the configured output path.
func newBuilder() *summary.Builder {
	return summary.NewBuilder(cfg.OutputPath, logger)
}

// newAgent returns a SyncAgent for the configured repository, reporting to out.
func newAgent(out io.Writer) *reposync.Agent {
	a := reposync.NewAgent(&reposync.GitClient{WorkDir: cfg.RepoDir, Runner: gitRunner}, logger)
	a.Remote = cfg.Remote
	a.Branch = cfg.Branch
	a.Out = out
	return a
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Summary output path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
}
