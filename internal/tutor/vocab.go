package tutor

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// nonLetter matches runs of characters outside basic and accented Latin.
// Scripts like Japanese or Chinese are not tokenized by this.
var nonLetter = regexp.MustCompile(`[^A-Za-zÀ-ÖØ-öø-ÿ]+`)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "you": true, "are": true,
	"with": true, "that": true, "this": true, "have": true, "has": true,
	"your": true, "from": true, "will": true, "into": true, "then": true,
	"here": true, "there": true,
}

const minWordLen = 3

// ExtractVocabulary returns the distinct candidate words in text, sorted.
func ExtractVocabulary(text string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, tok := range nonLetter.Split(text, -1) {
		w := strings.ToLower(tok)
		if utf8.RuneCountInString(w) < minWordLen || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
