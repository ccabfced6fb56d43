// Package tokenizer extracts normalized words from free text. A normalized
// word is a lowercase, letters-only token of length >= 2. No stemming, no
// locale awareness.
package tokenizer

import (
	"regexp"
	"strings"
)

var nonLetter = regexp.MustCompile(`[^a-z]+`)

// Tokenize lowercases the text, splits on whitespace runs, strips every
// character outside a-z from each token, and drops empty and single-letter
// tokens. Order of remaining tokens is preserved.
func Tokenize(text string) []string {
	var out []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := nonLetter.ReplaceAllString(field, "")
		if len(word) < 2 {
			continue
		}
		out = append(out, word)
	}
	return out
}

// Distinct returns the tokens with duplicates removed, keeping the position
// of each word's first occurrence.
func Distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
