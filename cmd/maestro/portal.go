package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/portal"
)

var portalCheckFile string

var portalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Portal form contract commands",
}

// portalCheckCmd probes the portal page in-process, without a server.
var portalCheckCmd = &cobra.Command{
	Use:   "check [url]",
	Short: "Check the portal form against the fill script's selectors",
	Long: `Probe a portal page for every form control the generated script
targets, reporting any selector drift.

The check runs locally and needs no server. It fetches the portal URL
(or the given one), or reads saved HTML from --file for pages behind a
login.

Examples:
  maestro portal check
  maestro portal check https://staging.example.com/form
  maestro portal check --file saved_page.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var page []byte
		var source string
		switch {
		case portalCheckFile != "":
			data, err := os.ReadFile(portalCheckFile)
			if err != nil {
				return err
			}
			page, source = data, portalCheckFile
		default:
			url := portal.FormURL
			if len(args) > 0 {
				url = args[0]
			}
			client := &http.Client{Timeout: 30 * time.Second}
			data, err := portal.Fetch(ctx, client, url)
			if err != nil {
				return err
			}
			page, source = data, url
		}

		statuses, err := portal.Check(page)
		if err != nil {
			return err
		}
		return printControlStatuses(source, statuses)
	},
}

func printControlStatuses(source string, statuses []portal.ControlStatus) error {
	missing := portal.Missing(statuses)

	if !isTerminal(os.Stdout) {
		return api.Output(struct {
			Source   string                 `json:"source" yaml:"source"`
			Controls []portal.ControlStatus `json:"controls" yaml:"controls"`
			Missing  int                    `json:"missing" yaml:"missing"`
			OK       bool                   `json:"ok" yaml:"ok"`
		}{source, statuses, len(missing), len(missing) == 0})
	}

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		found := "yes"
		if !st.Found {
			found = "MISSING"
		}
		rows = append(rows, []string{st.Field, st.Selector, found})
	}
	fmt.Println(renderTable([]string{"Field", "Selector", "Found"}, rows))

	if len(missing) > 0 {
		fmt.Printf("%s: %d control(s) missing, the fill script would not work on this page\n", source, len(missing))
	} else {
		fmt.Printf("%s: all controls present\n", source)
	}
	return nil
}

func init() {
	portalCheckCmd.Flags().StringVarP(&portalCheckFile, "file", "f", "", "Check saved HTML instead of fetching the portal")

	portalCmd.AddCommand(portalCheckCmd)
	rootCmd.AddCommand(portalCmd)
}
