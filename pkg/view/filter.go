package view

import (
	"sort"
	"strings"

	"github.com/leifheaney/intheloop/pkg/domain"
)

// FilterArticles returns the subset of articles matching the criteria.
// Relative order of the input is preserved; the input itself is never
// mutated. Category matches exactly (sentinel "all" passes everything),
// search matches case-insensitive substrings over title and summary.
func FilterArticles(articles []domain.Article, c domain.ArticleCriteria) []domain.Article {
	res := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if !categoryMatch(c.Category, a.Category) {
			continue
		}
		if !searchMatch(c.Search, a.Title, a.Summary) {
			continue
		}
		res = append(res, a)
	}
	return res
}

// FilterActiveFeeds filters subscribed feeds by search text over name, url
// and category, then stable-sorts visible feeds before hidden ones. Relative
// order within each group matches the input.
func FilterActiveFeeds(feeds []domain.Feed, search string) []domain.Feed {
	res := make([]domain.Feed, 0, len(feeds))
	for _, f := range feeds {
		if !searchMatch(search, f.Name, f.URL, f.Category) {
			continue
		}
		res = append(res, f)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return !res[i].Hidden && res[j].Hidden
	})
	return res
}

// FilterAvailableFeeds filters catalog feeds by exact category and search
// text over name and url, preserving input order.
func FilterAvailableFeeds(feeds []domain.Feed, category, search string) []domain.Feed {
	res := make([]domain.Feed, 0, len(feeds))
	for _, f := range feeds {
		if !categoryMatch(category, f.Category) {
			continue
		}
		if !searchMatch(search, f.Name, f.URL) {
			continue
		}
		res = append(res, f)
	}
	return res
}

// FlattenCatalog converts the category-to-feeds catalog mapping into a flat
// list with the category attached to each feed. Categories are ordered
// alphabetically, feeds keep their in-category order.
func FlattenCatalog(catalog map[string][]domain.Feed) []domain.Feed {
	categories := make([]string, 0, len(catalog))
	for c := range catalog {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var res []domain.Feed
	for _, c := range categories {
		for _, f := range catalog[c] {
			f.Category = c
			res = append(res, f)
		}
	}
	return res
}

// Subscribed reports whether the url belongs to one of the active feeds.
// Linear scan, O(n) per call; fine at the few-hundred-feed scale this
// UI operates on.
func Subscribed(active []domain.Feed, url string) bool {
	for _, f := range active {
		if f.URL == url {
			return true
		}
	}
	return false
}

func categoryMatch(criteria, category string) bool {
	return criteria == "" || criteria == domain.CategoryAll || criteria == category
}

// searchMatch checks a lowercased search term against any of the fields,
// empty term passes everything
func searchMatch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
