package geography

import "strings"

// RawValue is one field of a dataset row. Valid is false for missing values.
type RawValue struct {
	Text  string
	Valid bool
}

// Text wraps a present field value.
func Text(s string) RawValue {
	return RawValue{Text: s, Valid: true}
}

// Null is the missing field value.
var Null = RawValue{}

// CleanLocation turns a raw location field into a location key: lowercase
// ASCII letters separated by single spaces. Every other rune, including
// digits, punctuation and non-ASCII letters, acts as a separator. The second
// result is false when the value is missing or nothing is left after cleaning.
func CleanLocation(raw RawValue) (string, bool) {
	if !raw.Valid {
		return "", false
	}
	return CleanLocationString(raw.Text)
}

// CleanLocationString is CleanLocation for a value known to be present.
func CleanLocationString(s string) (string, bool) {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if isASCIILetter(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// whitespace and replaced runes both collapse into one separator
		pendingSpace = true
	}
	key := b.String()
	if key == "" {
		return "", false
	}
	return key, true
}

// isASCIILetter reports whether r survives cleaning. Input is lowercased
// first, but the upper range is kept so the check stands on its own.
func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
