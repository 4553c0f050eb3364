// Package schema is the single source of truth for release metadata fields:
// their canonical JSON keys, the guidance handed to the extraction model,
// per-field normalization, and the portal form controls they map onto.
package schema

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/maestro/internal/release"
)

// Control kinds for portal form selectors.
const (
	ControlInput    = "input"
	ControlTextarea = "textarea"
)

// Field describes one release metadata field.
type Field struct {
	// Name is the canonical JSON key, e.g. "primary_artist".
	Name string `json:"name"`
	// Label is the human-facing label, e.g. "Primary Artist".
	Label string `json:"label"`
	// Description is the extraction guidance given to the model.
	Description string `json:"description"`
	// Selector is the name attribute of the portal form control, empty when
	// the portal has no direct control for this field.
	Selector string `json:"selector,omitempty"`
	// Control is the element kind the selector targets, input or textarea.
	Control string `json:"control,omitempty"`
}

// fields is ordered: the extraction prompt lists fields and the fill script
// assigns controls in this order.
var fields = []Field{
	{
		Name:        "primary_artist",
		Label:       "Primary Artist",
		Description: "The main performing artist or band name.",
		Selector:    "Primary_Artist",
		Control:     ControlInput,
	},
	{
		Name:        "title",
		Label:       "Title",
		Description: "The release title, without quotes or surrounding punctuation.",
		Selector:    "Title",
		Control:     ControlInput,
	},
	{
		Name:        "upc",
		Label:       "UPC",
		Description: "The UPC or EAN barcode, digits only if possible.",
		Selector:    "UPC",
		Control:     ControlInput,
	},
	{
		Name:        "isrc",
		Label:       "ISRC",
		Description: "The 12-character ISRC code, e.g. USRC17607839. Use null if you are not certain.",
		Selector:    "ISRC",
		Control:     ControlInput,
	},
	{
		Name:        "release_date",
		Label:       "Release Date",
		Description: "The release date in YYYY-MM-DD format.",
		Selector:    "Release_Date",
		Control:     ControlInput,
	},
	{
		Name:        "label",
		Label:       "Label",
		Description: "The record label releasing this content.",
		Selector:    "Label",
		Control:     ControlInput,
	},
	{
		Name:        "country",
		Label:       "Country",
		Description: "The country or territory of the release, as written in the text.",
		Selector:    "Territory",
		Control:     ControlInput,
	},
	{
		Name:        "genre",
		Label:       "Genre",
		Description: "The musical genre as written in the text, e.g. Popular, Urbano, Cumbia.",
	},
	{
		Name:        "description",
		Label:       "Description",
		Description: "A short marketing description of the release, if the text contains one.",
		Selector:    "Description",
		Control:     ControlTextarea,
	},
	{
		Name:        "release_type",
		Label:       "Release Type",
		Description: "One of \"New Single\", \"New Album\" or \"New EP\" when the text says which, otherwise the release-type phrase as written.",
	},
}

// CSSSelector returns the document query for this field's portal control,
// e.g. `input[name="Primary_Artist"]`, or the empty string when the portal
// has no control for it.
func (f Field) CSSSelector() string {
	if f.Selector == "" {
		return ""
	}
	return fmt.Sprintf(`%s[name=%q]`, f.Control, f.Selector)
}

// Fields returns the ordered field table.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// ByName looks up a field by its canonical JSON key.
func ByName(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the canonical JSON keys in field order.
func Names() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

var separatorReplacer = strings.NewReplacer("-", "", " ", "", " ", "")

// Normalize applies the per-field normalization rule to a raw value.
// Every field is at minimum whitespace-trimmed; code-like fields also
// drop separators, and ISRCs are upcased.
func Normalize(name, value string) string {
	v := strings.TrimSpace(value)
	switch name {
	case "isrc":
		return strings.ToUpper(separatorReplacer.Replace(v))
	case "upc":
		return separatorReplacer.Replace(v)
	case "country":
		if len(v) == 2 {
			return strings.ToUpper(v)
		}
		return v
	}
	return v
}

// NormalizeRecord returns a copy of rec with every field normalized.
func NormalizeRecord(rec release.Record) release.Record {
	rec.PrimaryArtist = Normalize("primary_artist", rec.PrimaryArtist)
	rec.Title = Normalize("title", rec.Title)
	rec.UPC = Normalize("upc", rec.UPC)
	rec.ISRC = Normalize("isrc", rec.ISRC)
	rec.ReleaseDate = Normalize("release_date", rec.ReleaseDate)
	rec.Label = Normalize("label", rec.Label)
	rec.Country = Normalize("country", rec.Country)
	rec.Genre = Normalize("genre", rec.Genre)
	rec.Description = Normalize("description", rec.Description)
	rec.ReleaseType = release.Type(Normalize("release_type", string(rec.ReleaseType)))
	return rec
}

// FieldValue reads the named field from a record.
func FieldValue(rec release.Record, name string) (string, error) {
	switch name {
	case "primary_artist":
		return rec.PrimaryArtist, nil
	case "title":
		return rec.Title, nil
	case "upc":
		return rec.UPC, nil
	case "isrc":
		return rec.ISRC, nil
	case "release_date":
		return rec.ReleaseDate, nil
	case "label":
		return rec.Label, nil
	case "country":
		return rec.Country, nil
	case "genre":
		return rec.Genre, nil
	case "description":
		return rec.Description, nil
	case "release_type":
		return string(rec.ReleaseType), nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// SetField writes the named field on a record.
func SetField(rec *release.Record, name, value string) error {
	switch name {
	case "primary_artist":
		rec.PrimaryArtist = value
	case "title":
		rec.Title = value
	case "upc":
		rec.UPC = value
	case "isrc":
		rec.ISRC = value
	case "release_date":
		rec.ReleaseDate = value
	case "label":
		rec.Label = value
	case "country":
		rec.Country = value
	case "genre":
		rec.Genre = value
	case "description":
		rec.Description = value
	case "release_type":
		rec.ReleaseType = release.Type(value)
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// JSONProperties builds the properties block of the extraction response
// schema. Every field is a nullable string so the model can signal absence
// without inventing values.
func JSONProperties() map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.Name] = map[string]any{
			"type":        []string{"string", "null"},
			"description": f.Description,
		}
	}
	return props
}
