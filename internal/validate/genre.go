package validate

// portalGenres maps genre names as they commonly appear in label copy to
// the portal's genre vocabulary. Keys are foldKey-normalized, so accented
// spellings like "Electrónica" match.
var portalGenres = map[string]string{
	"popular":     "Regional Mexican",
	"trapmambo":   "Urbano",
	"electronica": "Electronic",
	"cumbia":      "Tropical",
}

// portalVocabulary is the set of genre values the portal accepts directly.
var portalVocabulary = map[string]string{
	"regional mexican": "Regional Mexican",
	"urbano":           "Urbano",
	"electronic":       "Electronic",
	"tropical":         "Tropical",
	"latin":            "Latin",
	"pop":              "Pop",
	"rock":             "Rock",
	"salsa":            "Salsa",
	"banda":            "Banda",
	"reggaeton":        "Reggaeton",
}

// MapGenre resolves a genre as written in source text to the portal
// vocabulary. It returns the portal genre and true when the value maps or
// is already portal vocabulary, otherwise the empty string and false.
func MapGenre(genre string) (string, bool) {
	key := foldKey(genre)
	if mapped, ok := portalGenres[key]; ok {
		return mapped, true
	}
	if canonical, ok := portalVocabulary[key]; ok {
		return canonical, true
	}
	return "", false
}
