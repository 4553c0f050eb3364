package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"github.com/jackzampolin/maestro/internal/api"
	"github.com/jackzampolin/maestro/internal/release"
	"github.com/jackzampolin/maestro/internal/schema"
	"github.com/jackzampolin/maestro/internal/session"
	"github.com/jackzampolin/maestro/internal/validate"
)

// isTerminal reports whether the writer is an interactive terminal.
// Tables are for humans; pipes and redirects get structured output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}

// recordRows lists every schema field of a record in field order.
func recordRows(rec release.Record) [][]string {
	var rows [][]string
	for _, f := range schema.Fields() {
		value, err := schema.FieldValue(rec, f.Name)
		if err != nil {
			continue
		}
		rows = append(rows, []string{f.Label, value})
	}
	return rows
}

// printSnapshot renders a session as a field table on a terminal, or as
// yaml/json everywhere else.
func printSnapshot(snap session.Snapshot) error {
	if !isTerminal(os.Stdout) {
		return api.Output(snap)
	}

	fmt.Println(renderTable([]string{"Field", "Value"}, recordRows(snap.Record)))
	fmt.Printf("session %s  state=%s", snap.ID, snap.State)
	if snap.Provider != "" {
		fmt.Printf("  provider=%s", snap.Provider)
	}
	fmt.Println()
	return nil
}

// printVerdict renders a validation verdict: the normalized record, then
// every blocking error and advisory.
func printVerdict(snap session.Snapshot) error {
	if !isTerminal(os.Stdout) {
		return api.Output(snap)
	}
	verdict := snap.Verdict
	if verdict == nil {
		return api.Output(snap)
	}

	fmt.Println(renderTable([]string{"Field", "Value"}, recordRows(verdict.Record)))

	if rows := issueRows(verdict); len(rows) > 0 {
		fmt.Println(renderTable([]string{"Severity", "Field", "Message"}, rows))
	}

	if verdict.Blocking {
		fmt.Printf("session %s  BLOCKED: fix the errors above and validate again\n", snap.ID)
	} else {
		fmt.Printf("session %s  ready: run `maestro generate %s`\n", snap.ID, snap.ID)
	}
	return nil
}

func issueRows(v *validate.Verdict) [][]string {
	var rows [][]string
	for _, e := range v.Errors {
		rows = append(rows, []string{"error", e.Field, e.Message})
	}
	for _, a := range v.Advisories {
		rows = append(rows, []string{"advisory", a.Field, a.Message})
	}
	return rows
}
