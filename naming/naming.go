// Package naming provides the name transforms shared by the parsers and
// the code generators. A given resource name must produce identical casing
// everywhere it appears in generated output, so all derivations go through
// this package.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rules is the shared inflection ruleset. It backs the regular suffix rules
// (s|x|z|ch|sh -> es, consonant+y -> ies, vowel+y -> s, default -> s) and
// their singular mirrors.
var rules = ruleset()

// irregulars maps singular to plural for words that do not follow
// the suffix rules. Lookups are case-insensitive.
var irregulars = map[string]string{
	"person":    "people",
	"child":     "children",
	"man":       "men",
	"woman":     "women",
	"tooth":     "teeth",
	"foot":      "feet",
	"mouse":     "mice",
	"goose":     "geese",
	"leaf":      "leaves",
	"life":      "lives",
	"analysis":  "analyses",
	"criterion": "criteria",
}

// inverseIrregulars is the plural-to-singular view of irregulars.
var inverseIrregulars = func() map[string]string {
	m := make(map[string]string, len(irregulars))
	for s, p := range irregulars {
		m[p] = s
	}
	return m
}()

// uncountables are fixed points of both Pluralize and Singularize.
var uncountables = map[string]bool{
	"sheep":   true,
	"fish":    true,
	"deer":    true,
	"series":  true,
	"species": true,
}

func ruleset() *inflect.Ruleset {
	rs := inflect.NewDefaultRuleset()
	for s, p := range irregulars {
		rs.AddIrregular(s, p)
	}
	for w := range uncountables {
		rs.AddUncountable(w)
	}
	return rs
}

// titleCaser upcases the leading rune without folding the rest,
// so "createdAt" keeps its inner capitalization.
var titleCaser = cases.Title(language.Und, cases.NoLower)

// Pluralize returns the plural form of word. Irregulars are looked up
// case-insensitively and the output matches the input's leading-rune case;
// uncountables are returned unchanged. The empty string maps to itself.
func Pluralize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	if uncountables[lower] {
		return word
	}
	if p, ok := irregulars[lower]; ok {
		return matchLeadingCase(p, word)
	}
	if _, ok := inverseIrregulars[lower]; ok {
		return word
	}
	return rules.Pluralize(word)
}

// Singularize returns the singular form of word, applying the mirror image
// of the Pluralize rules plus the inverse irregular/uncountable lookups.
func Singularize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	if uncountables[lower] {
		return word
	}
	if s, ok := inverseIrregulars[lower]; ok {
		return matchLeadingCase(s, word)
	}
	if _, ok := irregulars[lower]; ok {
		return word
	}
	return rules.Singularize(word)
}

// IsPlural reports whether word is already in plural form.
// Uncountables count as plural since both transforms leave them unchanged.
func IsPlural(word string) bool {
	if word == "" {
		return false
	}
	return Pluralize(Singularize(word)) == word
}

// matchLeadingCase transfers the leading-rune case of src onto word.
func matchLeadingCase(word, src string) string {
	if word == "" || src == "" {
		return word
	}
	if unicode.IsUpper([]rune(src)[0]) {
		return titleCaser.String(word)
	}
	return word
}

// Pascal converts name to PascalCase. Non-alphanumeric runes act as word
// separators and are stripped, so names with hyphens or underscores still
// produce valid identifiers ("my-special_app" -> "MySpecialApp").
func Pascal(name string) string {
	var b strings.Builder
	for _, w := range splitWords(name) {
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// Camel converts name to camelCase using the same word splitting as Pascal.
func Camel(name string) string {
	p := Pascal(name)
	if p == "" {
		return ""
	}
	r := []rune(p)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Snake converts name to snake_case.
func Snake(name string) string {
	return strings.Join(lowerWords(name), "_")
}

// Kebab converts name to kebab-case. This is also the slug form used for
// app names: lowercased with non-alphanumeric runs collapsed to single
// hyphens.
func Kebab(name string) string {
	return strings.Join(lowerWords(name), "-")
}

// Screaming converts name to SCREAMING_SNAKE_CASE, the form used for
// environment binding names.
func Screaming(name string) string {
	return strings.ToUpper(Snake(name))
}

// Ident derives a valid identifier from name by stripping separators and
// PascalCasing the remainder. A leading digit is prefixed with an underscore.
func Ident(name string) string {
	p := Pascal(name)
	if p == "" {
		return p
	}
	if r := []rune(p)[0]; unicode.IsDigit(r) {
		return "_" + p
	}
	return p
}

// upperFirst capitalizes the first rune of s, leaving the rest untouched.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// splitWords breaks name into word chunks at non-alphanumeric runes and at
// lower-to-upper camel boundaries.
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	return words
}

func lowerWords(name string) []string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}
