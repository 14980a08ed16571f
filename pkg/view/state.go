package view

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leifheaney/intheloop/pkg/api"
	"github.com/leifheaney/intheloop/pkg/domain"
)

// ArticlesAPI is the backend surface the articles controller needs
type ArticlesAPI interface {
	Articles(ctx context.Context) (api.ArticlesResult, error)
	Refresh(ctx context.Context) error
}

// FeedsAPI is the backend surface the feeds controller needs
type FeedsAPI interface {
	ActiveFeeds(ctx context.Context) ([]domain.Feed, error)
	AvailableFeeds(ctx context.Context) (map[string][]domain.Feed, int, error)
	HideFeed(ctx context.Context, feedURL string) error
	UnhideFeed(ctx context.Context, feedURL string) error
	AddFeed(ctx context.Context, feedURL, category string) error
}

// Articles owns the article screen state: the full dataset as last fetched
// and the current filter criteria. The dataset is replaced wholesale on
// every load; filtering only derives views and never mutates it. Responses
// are sequenced with tickets so a slow stale fetch can not overwrite the
// result of a newer one.
type Articles struct {
	api ArticlesAPI

	mu       sync.Mutex
	seq      uint64 // last issued load ticket
	applied  uint64 // ticket of the response currently applied
	list     []domain.Article
	criteria domain.ArticleCriteria
	cachedAt time.Time
	loaded   bool
}

// NewArticles creates the articles controller
func NewArticles(client ArticlesAPI) *Articles {
	return &Articles{
		api:      client,
		criteria: domain.ArticleCriteria{Category: domain.CategoryAll},
	}
}

// Load replaces the dataset from the backend. A response older than the one
// already applied is dropped.
func (a *Articles) Load(ctx context.Context) error {
	ticket := a.nextTicket()

	res, err := a.api.Articles(ctx)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if ticket < a.applied { // a newer response already landed
		return nil
	}
	a.applied = ticket
	a.list = res.Articles
	a.cachedAt = res.CachedAt
	a.loaded = true
	return nil
}

// Refresh forces the backend to rebuild its cache, then re-fetches the
// canonical list. Always two round trips, the refresh response itself
// carries no articles.
func (a *Articles) Refresh(ctx context.Context) error {
	if err := a.api.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh articles: %w", err)
	}
	return a.Load(ctx)
}

// SetSearch updates the search criterion from raw user input
func (a *Articles) SetSearch(q string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.criteria.Search = domain.NormalizeSearch(q)
}

// SetCategory updates the category criterion
func (a *Articles) SetCategory(category string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if category == "" {
		category = domain.CategoryAll
	}
	a.criteria.Category = category
}

// Criteria returns the current filter criteria
func (a *Articles) Criteria() domain.ArticleCriteria {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.criteria
}

// Visible derives the currently visible subset from the full dataset
func (a *Articles) Visible() []domain.Article {
	a.mu.Lock()
	defer a.mu.Unlock()
	return FilterArticles(a.list, a.criteria)
}

// Categories returns the distinct categories present in the dataset, sorted
func (a *Articles) Categories() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	seen := make(map[string]bool)
	var res []string
	for _, art := range a.list {
		if art.Category == "" || seen[art.Category] {
			continue
		}
		seen[art.Category] = true
		res = append(res, art.Category)
	}
	sort.Strings(res)
	return res
}

// Loaded reports whether at least one load succeeded
func (a *Articles) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded
}

// CachedAt returns the backend cache timestamp of the current dataset, ok is
// false when the backend served a freshly built list
func (a *Articles) CachedAt() (ts time.Time, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cachedAt, !a.cachedAt.IsZero()
}

func (a *Articles) nextTicket() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	return a.seq
}

// CatalogEntry is a catalog feed decorated with its subscription state for
// rendering the add control.
type CatalogEntry struct {
	domain.Feed
	Added bool
}

// Feeds owns the feed management screen state: both datasets (subscribed and
// catalog), the active tab and per-tab filter criteria. Same wholesale
// replacement and response sequencing rules as Articles, per dataset.
type Feeds struct {
	api FeedsAPI

	mu             sync.Mutex
	seqActive      uint64
	appliedActive  uint64
	seqCatalog     uint64
	appliedCatalog uint64
	active         []domain.Feed
	catalog        []domain.Feed // flattened, category attached
	catalogTotal   int
	criteria       domain.FeedCriteria
}

// NewFeeds creates the feeds controller
func NewFeeds(client FeedsAPI) *Feeds {
	return &Feeds{
		api: client,
		criteria: domain.FeedCriteria{
			Tab:      domain.TabActive,
			Category: domain.CategoryAll,
		},
	}
}

// Load fetches both datasets concurrently
func (f *Feeds) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return f.LoadActive(ctx) })
	g.Go(func() error { return f.LoadCatalog(ctx) })
	return g.Wait()
}

// LoadActive replaces the subscribed feeds dataset
func (f *Feeds) LoadActive(ctx context.Context) error {
	f.mu.Lock()
	f.seqActive++
	ticket := f.seqActive
	f.mu.Unlock()

	feeds, err := f.api.ActiveFeeds(ctx)
	if err != nil {
		return fmt.Errorf("load active feeds: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket < f.appliedActive {
		return nil
	}
	f.appliedActive = ticket
	f.active = feeds
	return nil
}

// LoadCatalog replaces the available feeds dataset, flattening the
// category-keyed map into a display list
func (f *Feeds) LoadCatalog(ctx context.Context) error {
	f.mu.Lock()
	f.seqCatalog++
	ticket := f.seqCatalog
	f.mu.Unlock()

	catalog, total, err := f.api.AvailableFeeds(ctx)
	if err != nil {
		return fmt.Errorf("load available feeds: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket < f.appliedCatalog {
		return nil
	}
	f.appliedCatalog = ticket
	f.catalog = FlattenCatalog(catalog)
	f.catalogTotal = total
	return nil
}

// Hide suppresses a feed and reloads the subscribed list on success. On any
// failure the in-memory state is left untouched.
func (f *Feeds) Hide(ctx context.Context, feedURL string) error {
	if err := f.api.HideFeed(ctx, feedURL); err != nil {
		return fmt.Errorf("hide feed: %w", err)
	}
	return f.LoadActive(ctx)
}

// Unhide restores a hidden feed and reloads the subscribed list on success
func (f *Feeds) Unhide(ctx context.Context, feedURL string) error {
	if err := f.api.UnhideFeed(ctx, feedURL); err != nil {
		return fmt.Errorf("unhide feed: %w", err)
	}
	return f.LoadActive(ctx)
}

// Add subscribes a catalog feed and reloads both datasets on success, since
// the subscription changes the add-control state of catalog cards too
func (f *Feeds) Add(ctx context.Context, feedURL, category string) error {
	if err := f.api.AddFeed(ctx, feedURL, category); err != nil {
		return fmt.Errorf("add feed: %w", err)
	}
	return f.Load(ctx)
}

// SetTab switches between the active and available tabs
func (f *Feeds) SetTab(tab domain.Tab) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tab != domain.TabAvailable {
		tab = domain.TabActive
	}
	f.criteria.Tab = tab
}

// SetCategory updates the catalog category filter
func (f *Feeds) SetCategory(category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if category == "" {
		category = domain.CategoryAll
	}
	f.criteria.Category = category
}

// SetActiveSearch updates the search text of the active tab
func (f *Feeds) SetActiveSearch(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.criteria.SearchActive = domain.NormalizeSearch(q)
}

// SetCatalogSearch updates the search text of the available tab
func (f *Feeds) SetCatalogSearch(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.criteria.SearchAvailable = domain.NormalizeSearch(q)
}

// Criteria returns the current criteria
func (f *Feeds) Criteria() domain.FeedCriteria {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.criteria
}

// VisibleActive derives the visible subset of subscribed feeds, hidden ones
// sorted last
func (f *Feeds) VisibleActive() []domain.Feed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FilterActiveFeeds(f.active, f.criteria.SearchActive)
}

// VisibleCatalog derives the visible subset of catalog feeds, each entry
// carrying its subscription state
func (f *Feeds) VisibleCatalog() []CatalogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	filtered := FilterAvailableFeeds(f.catalog, f.criteria.Category, f.criteria.SearchAvailable)
	res := make([]CatalogEntry, len(filtered))
	for i, feed := range filtered {
		res[i] = CatalogEntry{Feed: feed, Added: Subscribed(f.active, feed.URL)}
	}
	return res
}

// CatalogCategories returns the catalog categories in display order
func (f *Feeds) CatalogCategories() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []string
	last := ""
	for _, feed := range f.catalog { // catalog is grouped by sorted category
		if feed.Category != last {
			res = append(res, feed.Category)
			last = feed.Category
		}
	}
	return res
}

// ActiveCount returns the number of subscribed feeds that are not hidden
func (f *Feeds) ActiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, feed := range f.active {
		if !feed.Hidden {
			n++
		}
	}
	return n
}

// CatalogTotal returns the backend-reported catalog size
func (f *Feeds) CatalogTotal() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.catalogTotal
}
