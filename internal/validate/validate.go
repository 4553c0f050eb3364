// Package validate applies the deterministic business rules to a candidate
// release record: normalization, the ISRC blocking rule, release type
// classification, label defaulting, genre mapping, and the advisory checks
// a human reviewer should see before anything reaches the portal.
package validate

import (
	"fmt"
	"regexp"

	"github.com/jackzampolin/maestro/internal/release"
	"github.com/jackzampolin/maestro/internal/schema"
)

// Error kinds carried on FieldError.
const (
	KindInvalidISRC = "invalid_isrc"
)

// FieldError is a blocking problem with a single field.
type FieldError struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Advisory is a non-blocking observation for the human reviewer.
type Advisory struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Verdict is the result of running every rule against a candidate record.
// Record is the normalized copy with defaults applied; the input record is
// never mutated. Blocking is true exactly when Errors is non-empty.
type Verdict struct {
	Record     release.Record `json:"record"`
	Errors     []FieldError   `json:"errors,omitempty"`
	Advisories []Advisory     `json:"advisories,omitempty"`
	Blocking   bool           `json:"blocking"`
}

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Run applies every rule to a candidate record and returns the verdict.
// rawText is the free text the candidate was extracted from; release type
// keywords fall back to it when the candidate carries no usable signal.
// Run is pure: same inputs, same verdict, no model involved.
func Run(candidate release.Record, rawText string) Verdict {
	rec := schema.NormalizeRecord(candidate)

	rec.ReleaseType = Classify(string(rec.ReleaseType), rawText)
	if rec.Label == "" {
		rec.Label = release.DefaultLabel
	}
	if mapped, ok := MapGenre(rec.Genre); ok {
		rec.Genre = mapped
	}

	v := Verdict{Record: rec}

	// ISRC is the single rule that blocks script generation.
	switch {
	case rec.ISRC == "":
		v.Errors = append(v.Errors, FieldError{
			Field:   "isrc",
			Kind:    KindInvalidISRC,
			Message: "ISRC is missing; the portal requires one",
		})
	case !ValidISRC(rec.ISRC):
		v.Errors = append(v.Errors, FieldError{
			Field:   "isrc",
			Kind:    KindInvalidISRC,
			Message: fmt.Sprintf("ISRC %q must be exactly 12 characters, A-Z or 0-9", rec.ISRC),
		})
	case !StrictISRC(rec.ISRC):
		v.Advisories = append(v.Advisories, Advisory{
			Field:   "isrc",
			Message: fmt.Sprintf("ISRC %q does not follow the usual CC-XXX-YY-NNNNN layout; double-check it", rec.ISRC),
		})
	}

	if rec.PrimaryArtist == "" {
		v.Advisories = append(v.Advisories, Advisory{Field: "primary_artist", Message: "no primary artist found in the text"})
	}
	if rec.Title == "" {
		v.Advisories = append(v.Advisories, Advisory{Field: "title", Message: "no release title found in the text"})
	}

	switch {
	case rec.UPC == "":
		v.Advisories = append(v.Advisories, Advisory{Field: "upc", Message: "no UPC found in the text"})
	case !digitsOnly.MatchString(rec.UPC):
		v.Advisories = append(v.Advisories, Advisory{Field: "upc", Message: fmt.Sprintf("UPC %q contains non-digit characters", rec.UPC)})
	}

	switch {
	case rec.ReleaseDate == "":
		v.Advisories = append(v.Advisories, Advisory{Field: "release_date", Message: "no release date found in the text"})
	case !dateShape.MatchString(rec.ReleaseDate):
		v.Advisories = append(v.Advisories, Advisory{Field: "release_date", Message: fmt.Sprintf("release date %q is not in YYYY-MM-DD form", rec.ReleaseDate)})
	}

	if rec.Country != "" {
		v.Advisories = append(v.Advisories, territoryAdvisory(rec.Country))
	}

	if rec.Genre != "" {
		if _, ok := MapGenre(rec.Genre); !ok {
			v.Advisories = append(v.Advisories, Advisory{
				Field:   "genre",
				Message: fmt.Sprintf("genre %q is not in the portal vocabulary; pick the closest portal genre by hand", rec.Genre),
			})
		}
	}

	v.Blocking = len(v.Errors) > 0
	return v
}
