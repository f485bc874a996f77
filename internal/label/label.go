// Package label converts Meta Box storage identifiers into GraphQL names and
// fingerprints untyped stored values.
package label

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToSchemaLabel converts a raw field id into a GraphQL field name.
//
// Each '-' or '_' becomes a word break, the first letter of every word is
// upper-cased (the rest of the word is left as is), the breaks are removed and
// the first character of the result is lower-cased:
//
//	first_name -> firstName
//	Some-Field -> someField
//
// Distinct ids may map to the same label; no attempt is made to deduplicate.
func ToSchemaLabel(raw string) string {
	words := strings.Split(strings.NewReplacer("-", " ", "_", " ").Replace(raw), " ")
	upper := cases.Upper(language.Und)
	var b strings.Builder
	b.Grow(len(raw))
	for _, w := range words {
		b.WriteString(mapFirst(upper, w))
	}
	return mapFirst(cases.Lower(language.Und), b.String())
}

// TypeName converts a raw id into a GraphQL type name: the label with an
// upper-cased first character.
func TypeName(raw string) string {
	return mapFirst(cases.Upper(language.Und), ToSchemaLabel(raw))
}

// mapFirst applies c to the first rune of s only.
func mapFirst(c cases.Caser, s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeRuneInString(s)
	return c.String(s[:n]) + s[n:]
}
