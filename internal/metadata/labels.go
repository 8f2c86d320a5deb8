package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldLabel derives a column label from a field key, e.g.
// "collection_date" → "Collection Date". The sample identifier column is
// always "Sample ID".
func FieldLabel(field string) string {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return ""
	}
	if trimmed == SampleIDKey {
		return "Sample ID"
	}
	words := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
