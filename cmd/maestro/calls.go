package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/server/endpoints"
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Inspect the model call history",
	Long: `Inspect the server's in-memory log of extraction model calls:
prompts, responses, token usage, latency, and failures.`,
}

func init() {
	for _, ep := range endpoints.CallCommands() {
		callsCmd.AddCommand(ep.Command(getServerURL))
	}
	rootCmd.AddCommand(callsCmd)
}
