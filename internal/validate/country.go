package validate

import "fmt"

// territories is a small table of ISO 3166-1 alpha-2 codes for the markets
// this pipeline sees. Territory checks are advisory, so a miss only means
// the reviewer confirms by hand.
var territories = map[string]string{
	"AR": "Argentina",
	"BO": "Bolivia",
	"BR": "Brazil",
	"CA": "Canada",
	"CL": "Chile",
	"CO": "Colombia",
	"CR": "Costa Rica",
	"CU": "Cuba",
	"DE": "Germany",
	"DO": "Dominican Republic",
	"EC": "Ecuador",
	"ES": "Spain",
	"FR": "France",
	"GB": "United Kingdom",
	"GT": "Guatemala",
	"HN": "Honduras",
	"IT": "Italy",
	"JP": "Japan",
	"MX": "Mexico",
	"NI": "Nicaragua",
	"PA": "Panama",
	"PE": "Peru",
	"PR": "Puerto Rico",
	"PT": "Portugal",
	"PY": "Paraguay",
	"SV": "El Salvador",
	"US": "United States",
	"UY": "Uruguay",
	"VE": "Venezuela",
}

// territoryByName is the reverse index, keyed by foldKey-normalized name.
var territoryByName = func() map[string]string {
	m := make(map[string]string, len(territories))
	for code, name := range territories {
		m[foldKey(name)] = code
	}
	return m
}()

// TerritoryName resolves an alpha-2 code to its English name.
func TerritoryName(code string) (string, bool) {
	name, ok := territories[code]
	return name, ok
}

// TerritoryCode resolves a country name to its alpha-2 code, tolerating
// case and accents ("méxico" resolves to MX).
func TerritoryCode(name string) (string, bool) {
	code, ok := territoryByName[foldKey(name)]
	return code, ok
}

// territoryAdvisory builds the reviewer note for a non-empty country value.
func territoryAdvisory(country string) Advisory {
	if name, ok := TerritoryName(country); ok {
		return Advisory{Field: "country", Message: fmt.Sprintf("country %s is %s; confirm the portal territory", country, name)}
	}
	if code, ok := TerritoryCode(country); ok {
		return Advisory{Field: "country", Message: fmt.Sprintf("country %q matches territory code %s; confirm the portal territory", country, code)}
	}
	return Advisory{Field: "country", Message: fmt.Sprintf("country %q is not a recognized territory; confirm by hand", country)}
}
