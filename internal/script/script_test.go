package script

import (
	"strings"
	"testing"

	"github.com/jackzampolin/maestro/internal/release"
)

func fullRecord() release.Record {
	return release.Record{
		PrimaryArtist: "Jane Doe",
		Title:         "Midnight Drive",
		UPC:           "884977968484",
		ISRC:          "USRC17607839",
		ReleaseDate:   "2026-09-18",
		Label:         "ONErpm",
		Country:       "CO",
		Genre:         "Regional Mexican",
		Description:   "Debut single from Jane Doe.",
		ReleaseType:   release.TypeNewSingle,
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	out, err := New().Generate(fullRecord())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	pairs := map[string]string{
		`input[name="Primary_Artist"]`: "Jane Doe",
		`input[name="Title"]`:          "Midnight Drive",
		`input[name="UPC"]`:            "884977968484",
		`input[name="ISRC"]`:           "USRC17607839",
		`input[name="Release_Date"]`:   "2026-09-18",
		`input[name="Label"]`:          "ONErpm",
		`input[name="Territory"]`:      "CO",
		`textarea[name="Description"]`: "Debut single from Jane Doe.",
	}

	for selector, value := range pairs {
		line := "setVal('" + selector + "', \"" + value + "\");"
		if !strings.Contains(out, line) {
			t.Errorf("script missing assignment %s", line)
		}
	}
}

func TestGenerateSkipsEmptyFields(t *testing.T) {
	rec := fullRecord()
	rec.UPC = ""
	rec.Description = ""

	out, err := New().Generate(rec)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if strings.Contains(out, `input[name="UPC"]`) {
		t.Error("script assigns the empty UPC field")
	}
	if strings.Contains(out, `textarea[name="Description"]`) {
		t.Error("script assigns the empty description field")
	}
	if !strings.Contains(out, `input[name="Title"]`) {
		t.Error("script dropped a populated field")
	}
}

func TestGenerateEscapesValues(t *testing.T) {
	rec := fullRecord()
	rec.Title = `She said "run"`
	rec.Description = "line one\nline two"

	out, err := New().Generate(rec)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if strings.Contains(out, `"She said "run""`) {
		t.Error("double quotes in the title escaped the string literal")
	}
	if strings.Contains(out, "line one\nline two") {
		t.Error("raw newline in a description broke the string literal")
	}
	if !strings.Contains(out, "She said") {
		t.Error("escaped title missing from script")
	}
}

func TestGenerateHeaderAndConfirm(t *testing.T) {
	out, err := New().Generate(fullRecord())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.Contains(out, "labelportal.amazonmusic.com") {
		t.Error("script header does not name the portal page")
	}
	if !strings.Contains(out, "Jane Doe - Midnight Drive") {
		t.Error("confirm prompt does not identify the release")
	}
	if !strings.Contains(out, "Latin audience: Yes") {
		t.Error("confirm prompt does not carry the Latin audience attribute")
	}
	if !strings.Contains(out, `button[type=\"submit\"], input[type=\"submit\"]`) &&
		!strings.Contains(out, `button[type="submit"], input[type="submit"]`) {
		t.Error("script does not target the submit control")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "})();") {
		t.Error("script is not a self-invoking function")
	}
}

func TestGenerateCustomPortalURL(t *testing.T) {
	g := &Generator{PortalURL: "https://staging.example.com/form"}
	out, err := g.Generate(fullRecord())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(out, "https://staging.example.com/form") {
		t.Error("script header ignores the configured portal URL")
	}
}

func TestGenerateDoesNotValidate(t *testing.T) {
	// Generation is dumb on purpose: a record with no ISRC still renders.
	// Callers gate on a verdict before asking for a script.
	out, err := New().Generate(release.Record{Title: "Untitled", ReleaseType: release.TypeNewSingle})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(out, `input[name="ISRC"]`) {
		t.Error("script assigns the missing ISRC")
	}
	if !strings.Contains(out, `input[name="Title"]`) {
		t.Error("script dropped the one populated field")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := New()
	a, err := g.Generate(fullRecord())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := g.Generate(fullRecord())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if a != b {
		t.Error("same record produced different scripts")
	}
}
