package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/server/endpoints"
)

var (
	generateSave bool
	generateOut  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <session-id>",
	Short: "Generate the portal fill script for a validated session",
	Long: `Generate the browser console script for a validated session.

The script is printed to stdout so it can be piped or copied straight
into the portal page's developer console. Notices go to stderr.

Examples:
  maestro generate 5b1e
  maestro generate 5b1e > fill.js
  maestro generate 5b1e --save           # keep a copy under ~/.maestro/scripts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(getServerURL())

		var resp endpoints.GenerateResponse
		err := client.Post(cmd.Context(), "/api/sessions/"+args[0]+"/generate", endpoints.GenerateRequest{
			Save: generateSave,
		}, &resp)
		if err != nil {
			return err
		}

		if generateOut != "" {
			if err := os.WriteFile(generateOut, []byte(resp.Script), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", generateOut)
		} else {
			fmt.Println(resp.Script)
		}
		if resp.SavedTo != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "saved to %s\n", resp.SavedTo)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "Save the script under the server's maestro home")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Write the script to a local file instead of stdout")

	rootCmd.AddCommand(generateCmd)
}
