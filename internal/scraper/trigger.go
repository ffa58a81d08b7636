package scraper

import (
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

// ShouldScrape reports whether question text asks for web data: it mentions
// wikipedia.org, or contains "scrape" in any letter case.
func ShouldScrape(text string) bool {
	return strings.Contains(text, "wikipedia.org") ||
		strings.Contains(strings.ToLower(text), "scrape")
}

// ExtractURL returns the first http(s) URL-shaped token in text.
func ExtractURL(text string) (string, bool) {
	u := urlRe.FindString(text)
	return u, u != ""
}
