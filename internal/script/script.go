// Package script renders the browser-console JavaScript that fills the
// portal submission form from a release record. Generation is plain
// templating: no validation happens here, callers gate on a verdict first.
package script

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/jackzampolin/maestro/internal/portal"
	"github.com/jackzampolin/maestro/internal/release"
	"github.com/jackzampolin/maestro/internal/schema"
)

//go:embed fill.js.tmpl
var fillTemplate string

var fillTmpl = template.Must(template.New("fill.js").Parse(fillTemplate))

// Generator renders console fill scripts for the portal form.
type Generator struct {
	// PortalURL is the page the script expects to run on, named in the
	// script header for the operator.
	PortalURL string
}

// New returns a Generator pointed at the default portal page.
func New() *Generator {
	return &Generator{PortalURL: portal.FormURL}
}

type assignment struct {
	Selector string
	Value    string
}

type fillData struct {
	PortalURL   string
	Assignments []assignment
	Summary     string
	Submit      string
}

// Generate renders the fill script for rec. Empty fields are skipped so the
// script never clobbers form state with blanks. String values pass through
// the template js escaper, so quotes and newlines in titles or descriptions
// cannot break out of the script.
func (g *Generator) Generate(rec release.Record) (string, error) {
	url := g.PortalURL
	if url == "" {
		url = portal.FormURL
	}

	data := fillData{
		PortalURL:   url,
		Assignments: assignments(rec),
		Summary:     fmt.Sprintf("%s (%s, Latin audience: %s)", rec.Summary(), rec.ReleaseType, release.LatinAudience),
		Submit:      portal.SubmitSelector,
	}

	var buf bytes.Buffer
	if err := fillTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering fill script: %w", err)
	}
	return buf.String(), nil
}

// assignments pairs each non-empty portal-backed field with its selector,
// in form order.
func assignments(rec release.Record) []assignment {
	var out []assignment
	for _, f := range schema.Fields() {
		if f.Selector == "" {
			continue
		}
		value, err := schema.FieldValue(rec, f.Name)
		if err != nil || value == "" {
			continue
		}
		out = append(out, assignment{Selector: f.CSSSelector(), Value: value})
	}
	return out
}
