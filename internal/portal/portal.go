// Package portal knows the third-party submission form: the page the fill
// script runs on, the submit control it clicks, and a check that probes a
// copy of the page for every control the script targets. The pipeline never
// submits to the portal itself; a human pastes the script in a browser.
package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/jackzampolin/maestro/internal/schema"
)

const (
	// FormURL is the portal submission page.
	FormURL = "https://labelportal.amazonmusic.com/s/project-flow-frontline"

	// SubmitSelector is the query the fill script uses to find the form's
	// submit control.
	SubmitSelector = `button[type="submit"], input[type="submit"]`
)

// ControlStatus reports whether one scripted form control exists on a page.
type ControlStatus struct {
	Field    string `json:"field"`
	Selector string `json:"selector"`
	Found    bool   `json:"found"`
}

// CheckDocument probes a parsed page for every control the fill script
// targets, plus the submit control. Results come back in form order.
func CheckDocument(doc *goquery.Document) []ControlStatus {
	var out []ControlStatus
	for _, f := range schema.Fields() {
		sel := f.CSSSelector()
		if sel == "" {
			continue
		}
		out = append(out, ControlStatus{
			Field:    f.Name,
			Selector: sel,
			Found:    doc.Find(sel).Length() > 0,
		})
	}
	out = append(out, ControlStatus{
		Field:    "submit",
		Selector: SubmitSelector,
		Found:    doc.Find(SubmitSelector).Length() > 0,
	})
	return out
}

// Check parses raw HTML and probes it for scripted controls.
func Check(html []byte) ([]ControlStatus, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing portal page: %w", err)
	}
	return CheckDocument(doc), nil
}

// Missing filters statuses down to controls the page lacks.
func Missing(statuses []ControlStatus) []ControlStatus {
	var out []ControlStatus
	for _, s := range statuses {
		if !s.Found {
			out = append(out, s)
		}
	}
	return out
}

// Fetch retrieves a portal page. Callers own the choice of URL so saved
// copies and staging mirrors can be checked the same way.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building portal request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching portal page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching portal page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading portal page: %w", err)
	}
	return body, nil
}
