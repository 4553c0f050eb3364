package validate

import "regexp"

// isrcShape is the blocking rule: exactly 12 characters, A-Z or 0-9, after
// normalization has upcased and stripped separators.
var isrcShape = regexp.MustCompile(`^[A-Z0-9]{12}$`)

// isrcLayout is the registrant layout most ISRCs follow: two-letter country
// prefix, three-character registrant code, two year digits, five designation
// digits. Some registrants deviate, so violations are advisory only.
var isrcLayout = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}[0-9]{7}$`)

// ValidISRC reports whether s passes the blocking shape rule.
func ValidISRC(s string) bool {
	return isrcShape.MatchString(s)
}

// StrictISRC reports whether s also follows the registrant layout.
func StrictISRC(s string) bool {
	return isrcLayout.MatchString(s)
}
