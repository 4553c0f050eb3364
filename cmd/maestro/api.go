package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/server/endpoints"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Maestro server via HTTP.

These commands require a running server (maestro serve).
Use --server to specify a custom server URL.

Examples:
  maestro api health                      # Check server health
  maestro api sessions list               # List review sessions
  maestro api sessions extract <id> "..." # Extract a release from text`,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Review session commands",
}

var apiCallsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Model call history commands",
}

var apiMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Pipeline metrics commands",
}

var apiPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompt inspection commands",
}

var apiPortalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Portal form contract commands",
}

func init() {
	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Field schema and swagger at top level of api
	apiCmd.AddCommand((&endpoints.SchemaEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	// Sessions as subcommand group
	for _, ep := range endpoints.SessionCommands() {
		sessionsCmd.AddCommand(ep.Command(getServerURL))
	}

	// Portal as subcommand group
	apiPortalCmd.AddCommand((&endpoints.PortalCheckEndpoint{}).Command(getServerURL))

	// Calls as subcommand group
	for _, ep := range endpoints.CallCommands() {
		apiCallsCmd.AddCommand(ep.Command(getServerURL))
	}

	// Metrics as subcommand group
	for _, ep := range endpoints.MetricsCommands() {
		apiMetricsCmd.AddCommand(ep.Command(getServerURL))
	}

	// Prompts as subcommand group
	for _, ep := range endpoints.PromptCommands() {
		apiPromptsCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(sessionsCmd)
	apiCmd.AddCommand(apiPortalCmd)
	apiCmd.AddCommand(apiCallsCmd)
	apiCmd.AddCommand(apiMetricsCmd)
	apiCmd.AddCommand(apiPromptsCmd)
	rootCmd.AddCommand(apiCmd)
}
