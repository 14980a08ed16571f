package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leifheaney/intheloop/pkg/domain"
)

func TestFilterArticles(t *testing.T) {
	articles := []domain.Article{
		{Title: "Go 1.25 released", Summary: "The Go team shipped a new version", Category: "Technology"},
		{Title: "Markets rally", Summary: "Stocks climbed on Friday", Category: "Finance"},
		{Title: "New telescope images", Summary: "Deep space photos with <b>golden</b> hues", Category: "Science"},
		{Title: "Quiet day", Summary: "Nothing much happened", Category: "Technology"},
	}

	t.Run("no criteria returns everything unchanged", func(t *testing.T) {
		got := FilterArticles(articles, domain.ArticleCriteria{Category: domain.CategoryAll})
		assert.Equal(t, articles, got)
	})

	t.Run("category filter is exact and case-sensitive", func(t *testing.T) {
		got := FilterArticles(articles, domain.ArticleCriteria{Category: "Technology"})
		require.Len(t, got, 2)
		assert.Equal(t, "Go 1.25 released", got[0].Title)
		assert.Equal(t, "Quiet day", got[1].Title)

		got = FilterArticles(articles, domain.ArticleCriteria{Category: "technology"})
		assert.Empty(t, got)
	})

	t.Run("search matches title or summary case-insensitively", func(t *testing.T) {
		upper := FilterArticles(articles, domain.ArticleCriteria{Category: domain.CategoryAll, Search: domain.NormalizeSearch("GOLDEN")})
		lower := FilterArticles(articles, domain.ArticleCriteria{Category: domain.CategoryAll, Search: "golden"})
		require.Len(t, lower, 1)
		assert.Equal(t, upper, lower)
		assert.Equal(t, "New telescope images", lower[0].Title)
	})

	t.Run("category and search combine with AND", func(t *testing.T) {
		got := FilterArticles(articles, domain.ArticleCriteria{Category: "Technology", Search: "version"})
		require.Len(t, got, 1)
		assert.Equal(t, "Go 1.25 released", got[0].Title)

		got = FilterArticles(articles, domain.ArticleCriteria{Category: "Finance", Search: "version"})
		assert.Empty(t, got)
	})

	t.Run("result preserves input order", func(t *testing.T) {
		got := FilterArticles(articles, domain.ArticleCriteria{Category: domain.CategoryAll, Search: "o"})
		for i := 1; i < len(got); i++ {
			prev, cur := -1, -1
			for j, a := range articles {
				if a.Title == got[i-1].Title {
					prev = j
				}
				if a.Title == got[i].Title {
					cur = j
				}
			}
			assert.Less(t, prev, cur)
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := make([]domain.Article, len(articles))
		copy(before, articles)
		FilterArticles(articles, domain.ArticleCriteria{Category: "Science", Search: "space"})
		assert.Equal(t, before, articles)
	})
}

func TestFilterActiveFeeds(t *testing.T) {
	feeds := []domain.Feed{
		{Name: "Old Tech", URL: "https://old.example.com/rss", Category: "Technology", Hidden: true},
		{Name: "BBC News", URL: "https://bbc.example.com/rss", Category: "General News"},
		{Name: "Dormant", URL: "https://dormant.example.com/rss", Category: "Science", Hidden: true},
		{Name: "HN", URL: "https://hn.example.com/rss", Category: "Technology"},
	}

	t.Run("visible feeds precede hidden, stable within groups", func(t *testing.T) {
		got := FilterActiveFeeds(feeds, "")
		require.Len(t, got, 4)
		assert.Equal(t, []string{"BBC News", "HN", "Old Tech", "Dormant"},
			[]string{got[0].Name, got[1].Name, got[2].Name, got[3].Name})
	})

	t.Run("search spans name url and category", func(t *testing.T) {
		byName := FilterActiveFeeds(feeds, "bbc")
		require.Len(t, byName, 1)
		assert.Equal(t, "BBC News", byName[0].Name)

		byCategory := FilterActiveFeeds(feeds, "science")
		require.Len(t, byCategory, 1)
		assert.Equal(t, "Dormant", byCategory[0].Name)

		byURL := FilterActiveFeeds(feeds, "dormant.example")
		require.Len(t, byURL, 1)
	})
}

func TestFilterAvailableFeeds(t *testing.T) {
	feeds := []domain.Feed{
		{Name: "Nature", URL: "https://nature.example.com/rss", Category: "Science"},
		{Name: "HN", URL: "https://hn.example.com/rss", Category: "Technology"},
		{Name: "Lobsters", URL: "https://lobste.rs/rss", Category: "Technology"},
	}

	t.Run("category all passes everything", func(t *testing.T) {
		got := FilterAvailableFeeds(feeds, domain.CategoryAll, "")
		assert.Equal(t, feeds, got)
	})

	t.Run("category narrows, search over name and url only", func(t *testing.T) {
		got := FilterAvailableFeeds(feeds, "Technology", "")
		require.Len(t, got, 2)

		got = FilterAvailableFeeds(feeds, "Technology", "lobste.rs")
		require.Len(t, got, 1)
		assert.Equal(t, "Lobsters", got[0].Name)

		// category text is not a search field for catalog feeds
		got = FilterAvailableFeeds(feeds, domain.CategoryAll, "technology")
		assert.Empty(t, got)
	})
}

func TestFlattenCatalog(t *testing.T) {
	catalog := map[string][]domain.Feed{
		"Technology": {
			{Name: "HN", URL: "https://hn.example.com/rss"},
			{Name: "Lobsters", URL: "https://lobste.rs/rss"},
		},
		"Finance": {
			{Name: "FT", URL: "https://ft.example.com/rss"},
		},
	}

	got := FlattenCatalog(catalog)
	require.Len(t, got, 3)

	// categories alphabetical, in-category order preserved, category attached
	assert.Equal(t, "FT", got[0].Name)
	assert.Equal(t, "Finance", got[0].Category)
	assert.Equal(t, "HN", got[1].Name)
	assert.Equal(t, "Technology", got[1].Category)
	assert.Equal(t, "Lobsters", got[2].Name)
}

func TestSubscribed(t *testing.T) {
	active := []domain.Feed{
		{Name: "BBC News", URL: "https://bbc.example.com/rss"},
		{Name: "HN", URL: "https://hn.example.com/rss", Hidden: true},
	}

	assert.True(t, Subscribed(active, "https://bbc.example.com/rss"))
	assert.True(t, Subscribed(active, "https://hn.example.com/rss"), "hidden feeds still count as subscribed")
	assert.False(t, Subscribed(active, "https://other.example.com/rss"))
	assert.False(t, Subscribed(nil, "https://bbc.example.com/rss"))
}
