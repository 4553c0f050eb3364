package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/server/endpoints"
	"github.com/jackzampolin/maestro/internal/session"
)

var validateEdits []string

var validateCmd = &cobra.Command{
	Use:   "validate <session-id>",
	Short: "Validate a session's extracted record",
	Long: `Run the deterministic validation rules over a session's record:
normalization, the ONErpm label default, release type classification,
genre mapping, and the blocking ISRC length check.

Pass --set field=value to correct fields before validating.

Examples:
  maestro validate 5b1e
  maestro validate 5b1e --set isrc=USRC17607839 --set genre=Cumbia`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id := args[0]
		client := api.NewClient(getServerURL())

		if len(validateEdits) > 0 {
			fields, err := parseEdits(validateEdits)
			if err != nil {
				return err
			}
			var snap session.Snapshot
			if err := client.Post(ctx, "/api/sessions/"+id+"/edit", endpoints.EditRequest{Fields: fields}, &snap); err != nil {
				return err
			}
		}

		var snap session.Snapshot
		if err := client.Post(ctx, "/api/sessions/"+id+"/validate", nil, &snap); err != nil {
			return err
		}
		return printVerdict(snap)
	},
}

// parseEdits turns field=value arguments into an edit map.
func parseEdits(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid edit %q: expected field=value", pair)
		}
		fields[name] = value
	}
	return fields, nil
}

func init() {
	validateCmd.Flags().StringArrayVar(&validateEdits, "set", nil, "Correct a field before validating (field=value)")

	rootCmd.AddCommand(validateCmd)
}
