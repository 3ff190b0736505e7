// Package normalize turns raw ingredient text — ground truth or OCR output —
// into comparable token sets.
package normalize

import (
	"strings"
	"unicode"
)

// Rules controls token cleaning. The zero value keeps every token; use
// DefaultRules for the benchmark's standard pipeline.
type Rules struct {
	// Stopwords are dropped after lowercasing. Keys must be lowercase.
	Stopwords map[string]struct{}
	// MinTokenLen drops tokens shorter than this many runes.
	MinTokenLen int
	// DropNumeric drops tokens consisting only of digits, separators, and an
	// optional percent sign (quantities and E-numbers stay: "e322" survives).
	DropNumeric bool
}

// labelStopwords is the boilerplate vocabulary of ingredient panels in the
// dataset's dominant languages (English and French). Content words never
// appear here.
var labelStopwords = []string{
	"ingredients", "ingredient", "contains", "contain", "may",
	"and", "or", "of", "the", "with", "in", "from", "a", "an",
	"less", "than", "each", "following", "one", "more",
	"ingrédients", "ingrédient", "contient", "et", "ou", "de", "du",
	"des", "la", "le", "les", "en", "d", "l",
}

// DefaultRules returns the benchmark's standard cleaning rules.
func DefaultRules() Rules {
	stop := make(map[string]struct{}, len(labelStopwords))
	for _, w := range labelStopwords {
		stop[w] = struct{}{}
	}
	return Rules{
		Stopwords:   stop,
		MinTokenLen: 2,
		DropNumeric: true,
	}
}

// Tokens cleans text into a deduplicated, order-preserving token list:
// lowercase, punctuation to spaces, whitespace split, then the rule filters.
// Unicode letters are preserved as-is; accents are not folded.
func Tokens(text string, rules Rules) []string {
	lowered := strings.ToLower(text)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' {
			return r
		}
		return ' '
	}, lowered)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, tok := range fields {
		if len([]rune(tok)) < rules.MinTokenLen {
			continue
		}
		if rules.DropNumeric && isNumeric(tok) {
			continue
		}
		if _, ok := rules.Stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// isNumeric reports whether a token carries no letters at all.
func isNumeric(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
