package post

import (
	"regexp"
	"strings"
)

var (
	hashtagRegex = regexp.MustCompile(`(?i)#\w+`)
	mentionRegex = regexp.MustCompile(`(?i)@\w+`)
)

// shortenerDomains lists known URL-shortener domains that commonly trip
// platform spam filters.
var shortenerDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"t.co",
	"goo.gl",
	"ow.ly",
	"is.gd",
	"buff.ly",
	"rebrand.ly",
	"cutt.ly",
	"shorturl.at",
}

// CountHashtags returns the number of #tag tokens in text, without deduplication.
func CountHashtags(text string) int {
	return len(hashtagRegex.FindAllString(text, -1))
}

// CountMentions returns the number of @handle tokens in text, without deduplication.
func CountMentions(text string) int {
	return len(mentionRegex.FindAllString(text, -1))
}

// FindShortener returns the first known URL-shortener domain present in text,
// or empty string if none. Matching is case-insensitive.
func FindShortener(text string) string {
	lower := strings.ToLower(text)
	for _, domain := range shortenerDomains {
		if strings.Contains(lower, domain) {
			return domain
		}
	}
	return ""
}
