// Package release defines the structured release metadata record that the
// extraction pipeline produces and the portal form consumes.
package release

// Type is the portal-facing release classification.
type Type string

const (
	// TypeNewSingle is the default classification when the input text names
	// neither an album nor an EP.
	TypeNewSingle Type = "New Single"
	TypeNewAlbum  Type = "New Album"
	TypeNewEP     Type = "New EP"
)

// Canonical reports whether t is one of the three portal release types.
func (t Type) Canonical() bool {
	switch t {
	case TypeNewSingle, TypeNewAlbum, TypeNewEP:
		return true
	}
	return false
}

const (
	// DefaultLabel is substituted when the input text names no record label.
	DefaultLabel = "ONErpm"

	// LatinAudience is a fixed portal attribute for every release this
	// pipeline handles.
	LatinAudience = "Yes"
)

// Record is one release as extracted from free text. Fields may be empty
// until a human fills them in; validation decides which gaps matter.
type Record struct {
	PrimaryArtist string `json:"primary_artist"`
	Title         string `json:"title"`
	UPC           string `json:"upc"`
	ISRC          string `json:"isrc"`
	ReleaseDate   string `json:"release_date"`
	Label         string `json:"label"`
	Country       string `json:"country"`
	Genre         string `json:"genre"`
	Description   string `json:"description"`
	ReleaseType   Type   `json:"release_type"`
}

// Summary returns a short human-readable identifier for log lines and
// confirmation prompts, e.g. "Jane Doe - Midnight Drive".
func (r Record) Summary() string {
	switch {
	case r.PrimaryArtist != "" && r.Title != "":
		return r.PrimaryArtist + " - " + r.Title
	case r.Title != "":
		return r.Title
	case r.PrimaryArtist != "":
		return r.PrimaryArtist
	}
	return "untitled release"
}
