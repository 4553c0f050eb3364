package validate

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/maestro/internal/release"
)

// stripMarks removes diacritics so "Álbum" and "Electrónica" match their
// unaccented keywords.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var folder = cases.Fold()

// foldKey lowercases s and strips diacritics for keyword and vocabulary
// matching.
func foldKey(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return folder.String(out)
}

// epToken matches "ep" as a standalone token so words like "deep" or
// "keeper" do not classify a release as an EP.
var epToken = regexp.MustCompile(`(?:^|[^a-z0-9])ep(?:[^a-z0-9]|$)`)

// Classify derives the release type from free-text sources, consulted in
// order: the first source with a usable signal decides. A source that is
// already an exact release type is taken as-is; otherwise an "album"
// keyword wins over an EP token within the same source. Text with no
// signal in any source is a single.
func Classify(sources ...string) release.Type {
	for _, src := range sources {
		folded := strings.TrimSpace(foldKey(src))
		if folded == "" {
			continue
		}

		switch folded {
		case "new single", "single":
			return release.TypeNewSingle
		case "new album":
			return release.TypeNewAlbum
		case "new ep":
			return release.TypeNewEP
		}

		if strings.Contains(folded, "album") {
			return release.TypeNewAlbum
		}
		if epToken.MatchString(folded) {
			return release.TypeNewEP
		}
	}
	return release.TypeNewSingle
}
