package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
	serverURL    string
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Music release pipeline with LLM extraction and portal fill scripts",
	Long: `Maestro turns free-form release announcements into validated metadata
and paste-ready browser scripts for the label portal.

The pipeline includes:
  - Structured field extraction from raw text via a generative model
  - Deterministic validation: normalization, defaults, and blocking checks
  - Browser console script generation for the portal form
  - An interactive review loop for correcting extracted fields`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.maestro/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "maestro home directory (default: ~/.maestro)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose, "verbose", false, "enable debug logging",
	)
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

// newLogger builds the process logger, honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
