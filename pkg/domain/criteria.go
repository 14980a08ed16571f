package domain

import "strings"

// CategoryAll is the sentinel category matching every item.
const CategoryAll = "all"

// Tab identifies which feed list the management screen shows.
type Tab string

// feed management tabs
const (
	TabActive    Tab = "active"
	TabAvailable Tab = "available"
)

// ArticleCriteria defines the visible subset of the article list.
type ArticleCriteria struct {
	Category string
	Search   string
}

// FeedCriteria defines the visible subset of the feed lists. Each tab keeps
// its own search text; the category filter applies to the available tab.
type FeedCriteria struct {
	Tab             Tab
	Category        string
	SearchActive    string
	SearchAvailable string
}

// NormalizeSearch lowercases and trims raw search input the way the filter
// predicates expect it.
func NormalizeSearch(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
