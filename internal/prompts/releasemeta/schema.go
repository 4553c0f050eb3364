package releasemeta

import (
	"github.com/jackzampolin/maestro/internal/release"
	"github.com/jackzampolin/maestro/internal/schema"
)

// ExtractionSchema is the JSON schema for release extraction output.
// Every field is nullable so the model can return null instead of guessing.
var ExtractionSchema = map[string]any{
	"type": "json_schema",
	"json_schema": map[string]any{
		"name":   "release_record",
		"strict": true,
		"schema": map[string]any{
			"type":                 "object",
			"properties":           schema.JSONProperties(),
			"required":             schema.Names(),
			"additionalProperties": false,
		},
	},
}

// Result represents the parsed result from release extraction.
// Pointer fields distinguish a null from the model from an empty string.
type Result struct {
	PrimaryArtist *string `json:"primary_artist"`
	Title         *string `json:"title"`
	UPC           *string `json:"upc"`
	ISRC          *string `json:"isrc"`
	ReleaseDate   *string `json:"release_date"`
	Label         *string `json:"label"`
	Country       *string `json:"country"`
	Genre         *string `json:"genre"`
	Description   *string `json:"description"`
	ReleaseType   *string `json:"release_type"`
}

// Record converts the result into a release.Record, mapping nulls to empty
// strings. No normalization or business rules are applied here.
func (r *Result) Record() release.Record {
	return release.Record{
		PrimaryArtist: deref(r.PrimaryArtist),
		Title:         deref(r.Title),
		UPC:           deref(r.UPC),
		ISRC:          deref(r.ISRC),
		ReleaseDate:   deref(r.ReleaseDate),
		Label:         deref(r.Label),
		Country:       deref(r.Country),
		Genre:         deref(r.Genre),
		Description:   deref(r.Description),
		ReleaseType:   release.Type(deref(r.ReleaseType)),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
