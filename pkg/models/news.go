package models

import "unicode/utf8"

// News item defaults applied during normalization.
const (
	DefaultPublisher     = "Yahoo Finance"
	DefaultFeedPublisher = "Google News"
	NoSummary            = "No summary available"
	PublishedUnknown     = "Recent"
	MaxSummaryRunes      = 300
)

// NewsItem is a single normalized news article. Title is the dedupe key
// within a collection.
type NewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
}

// TruncateSummary caps s at MaxSummaryRunes runes.
func TruncateSummary(s string) string {
	if utf8.RuneCountInString(s) <= MaxSummaryRunes {
		return s
	}
	r := []rune(s)
	return string(r[:MaxSummaryRunes])
}

// HasTitle reports whether items already contains an item with exactly this title.
func HasTitle(items []NewsItem, title string) bool {
	for _, n := range items {
		if n.Title == title {
			return true
		}
	}
	return false
}
