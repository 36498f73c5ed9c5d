package post

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize canonicalizes post text for hashing and comparison:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// Hash returns the SHA-256 hex digest of the normalized text.
// Two posts that differ only in case or spacing hash identically.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// Tokens returns the set of case-folded, whitespace-split words in text.
func Tokens(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(Normalize(text)) {
		set[w] = true
	}
	return set
}

// Similarity computes the Jaccard index |A∩B| / |A∪B| over the word sets
// of a and b. Result is in [0,1]; an empty union scores 0.
func Similarity(a, b string) float64 {
	setA := Tokens(a)
	setB := Tokens(b)

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
