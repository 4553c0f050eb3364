package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/server/endpoints"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Manage review sessions on the server",
	Long: `Manage review sessions on the running server.

A session carries one release through the pipeline: extract, correct,
validate, generate. Sessions live in server memory and are dropped on
restart or delete.`,
}

func init() {
	for _, ep := range endpoints.SessionCommands() {
		sessionCmd.AddCommand(ep.Command(getServerURL))
	}
	rootCmd.AddCommand(sessionCmd)
}
