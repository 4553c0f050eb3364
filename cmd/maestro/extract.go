package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/server/endpoints"
	"github.com/jackzampolin/maestro/internal/session"
)

var (
	extractProvider string
	extractModel    string
	extractFile     string
)

var extractCmd = &cobra.Command{
	Use:   "extract [text...]",
	Short: "Create a session and extract a release from free text",
	Long: `Create a review session on the server and run extraction in one step.

Text is taken from the arguments, or from --file (use "-" for stdin).
The printed session id feeds the validate and generate commands.

Examples:
  maestro extract "Jane Doe releases her new single Midnight Drive on ONErpm..."
  maestro extract --file announcement.txt
  pbpaste | maestro extract --file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := releaseText(args, extractFile)
		if err != nil {
			return err
		}

		client := api.NewClient(getServerURL())
		if err := client.WaitReady(ctx, 5*time.Second); err != nil {
			return fmt.Errorf("no server at %s (start one with `maestro serve`): %w", getServerURL(), err)
		}

		var created endpoints.CreateSessionResponse
		if err := client.Post(ctx, "/api/sessions", nil, &created); err != nil {
			return err
		}

		var snap session.Snapshot
		err = client.Post(ctx, "/api/sessions/"+created.ID+"/extract", endpoints.ExtractRequest{
			Text:     text,
			Provider: extractProvider,
			Model:    extractModel,
		}, &snap)
		if err != nil {
			return err
		}

		return printSnapshot(snap)
	},
}

// releaseText assembles the raw release text from args or a file,
// treating "-" as stdin.
func releaseText(args []string, file string) (string, error) {
	if file == "" {
		return strings.Join(args, " "), nil
	}
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(file)
	return string(data), err
}

func init() {
	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "Extraction provider (default from server config)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "Model override")
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", `Read release text from file ("-" for stdin)`)

	rootCmd.AddCommand(extractCmd)
}
