package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/config"
	"github.com/jackzampolin/maestro/internal/home"
	"github.com/jackzampolin/maestro/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Maestro server",
	Long: `Start the Maestro HTTP server.

Review sessions, the model call log, and pipeline metrics live in memory
and reset on restart. Generated fill scripts are saved under the maestro
home directory.

The server requires at least one usable extraction provider. Provider API
keys come from config.yaml, usually via ${ENV_VAR} references.

Examples:
  maestro serve                    # Start on default port 8080
  maestro serve --port 3000        # Start on custom port
  maestro serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := newLogger()

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load config and enable hot reload
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		// Create server
		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
