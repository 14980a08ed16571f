package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/leifheaney/intheloop/pkg/api"
	"github.com/leifheaney/intheloop/pkg/domain"
	"github.com/leifheaney/intheloop/pkg/view"
)

const (
	themeCookie = "theme"
	themeLight  = "light"
	themeDark   = "dark"

	// shown in the inline error block when the article list can not be loaded
	articlesLoadErrMsg = "Failed to load articles. Please try again."
)

// toast is a transient floating notification
type toast struct {
	Message string
	Type    string // success or error
}

// articlesPageHandler displays the main articles page. A full page load is
// the "initial load" of the screen: the dataset is replaced from the
// backend before rendering.
func (s *Server) articlesPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loadFailed := false
	if err := s.articles.Load(ctx); err != nil {
		log.Printf("[WARN] initial article load failed: %v", err)
		loadFailed = true
	}

	data := struct {
		ActivePage string
		Title      string
		Theme      string
		Version    string
		Toast      *toast
		Search     string
		Bar        categoryBarData
		Stats      articleStatsData
		Cards      articleCardsData
	}{
		ActivePage: "home",
		Title:      "Articles",
		Theme:      s.theme(r),
		Version:    s.version,
		Search:     s.articles.Criteria().Search,
		Bar:        s.categoryBarData(false),
		Stats:      s.articleStatsData(false),
		Cards:      s.articleCardsData(loadFailed),
	}

	if err := s.renderPage(w, "articles.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
	}
}

// articleCardsHandler rebuilds the article grid after a criteria change.
// Only parameters present in the request mutate criteria, so the search
// input and the category buttons update independently.
func (s *Server) articleCardsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("q") {
		s.articles.SetSearch(q.Get("q"))
	}
	if q.Has("category") {
		s.articles.SetCategory(q.Get("category"))
	}

	s.writeTemplate(w, "article-cards", s.articleCardsData(false))
	s.writeTemplate(w, "article-stats", s.articleStatsData(true))
	s.writeTemplate(w, "category-bar", s.categoryBarData(true))
}

// refreshArticlesHandler forces a backend refresh and rebuilds the grid
func (s *Server) refreshArticlesHandler(w http.ResponseWriter, r *http.Request) {
	failed := false
	if err := s.articles.Refresh(r.Context()); err != nil {
		log.Printf("[WARN] article refresh failed: %v", err)
		failed = true
	}

	s.writeTemplate(w, "article-cards", s.articleCardsData(failed))
	s.writeTemplate(w, "article-stats", s.articleStatsData(true))
	s.writeTemplate(w, "category-bar", s.categoryBarData(true))
}

// feedsPageHandler displays the feed management page, loading both datasets
// in parallel
func (s *Server) feedsPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var pageToast *toast
	if err := s.feeds.Load(ctx); err != nil {
		log.Printf("[WARN] feed load failed: %v", err)
		pageToast = &toast{Message: "Failed to load feeds", Type: "error"}
	}

	data := struct {
		ActivePage     string
		Title          string
		Theme          string
		Version        string
		Toast          *toast
		Tabs           feedTabsData
		Stats          feedStatsData
		ActivePanel    activePanelData
		AvailablePanel availablePanelData
	}{
		ActivePage:     "feeds",
		Title:          "Manage Feeds",
		Theme:          s.theme(r),
		Version:        s.version,
		Toast:          pageToast,
		Tabs:           s.feedTabsData(false),
		Stats:          s.feedStatsData(false),
		ActivePanel:    s.activePanelData(),
		AvailablePanel: s.availablePanelData(),
	}

	if err := s.renderPage(w, "feeds.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
	}
}

// feedTabHandler switches between the active and available tabs, returning
// the panel for the selected tab plus updated tab buttons
func (s *Server) feedTabHandler(w http.ResponseWriter, r *http.Request) {
	s.feeds.SetTab(domain.Tab(r.URL.Query().Get("tab")))

	if s.feeds.Criteria().Tab == domain.TabAvailable {
		s.writeTemplate(w, "available-panel", s.availablePanelData())
	} else {
		s.writeTemplate(w, "active-panel", s.activePanelData())
	}
	s.writeTemplate(w, "feed-tabs", s.feedTabsData(true))
}

// activeFeedCardsHandler rebuilds the subscribed feeds grid
func (s *Server) activeFeedCardsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("q") {
		s.feeds.SetActiveSearch(r.URL.Query().Get("q"))
	}

	s.writeTemplate(w, "active-feed-cards", s.activeGridData())
	s.writeTemplate(w, "feed-stats", s.feedStatsData(true))
}

// availableFeedCardsHandler rebuilds the catalog grid
func (s *Server) availableFeedCardsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("q") {
		s.feeds.SetCatalogSearch(q.Get("q"))
	}
	if q.Has("category") {
		s.feeds.SetCategory(q.Get("category"))
	}

	s.writeTemplate(w, "available-feed-cards", s.availableGridData())
	s.writeTemplate(w, "available-category-bar", s.availableBarData(true))
	s.writeTemplate(w, "feed-stats", s.feedStatsData(true))
}

// hideFeedHandler suppresses a feed from aggregation
func (s *Server) hideFeedHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateActiveFeed(w, r, s.feeds.Hide, "Feed hidden successfully", "Failed to hide feed")
}

// unhideFeedHandler restores a hidden feed
func (s *Server) unhideFeedHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateActiveFeed(w, r, s.feeds.Unhide, "Feed restored successfully", "Failed to restore feed")
}

// addFeedHandler subscribes a catalog feed and rebuilds the catalog grid so
// the added feed's control flips to its disabled state
func (s *Server) addFeedHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	feedURL := r.FormValue("url")
	category := r.FormValue("category")
	if feedURL == "" {
		s.respondWithError(w, http.StatusBadRequest, "Feed URL is required", nil)
		return
	}

	note := toast{Message: "Feed added to " + category, Type: "success"}
	if err := s.feeds.Add(r.Context(), feedURL, category); err != nil {
		log.Printf("[WARN] add feed failed: %v", err)
		note = toast{Message: addFeedToastMessage(err), Type: "error"}
	}

	s.writeTemplate(w, "available-feed-cards", s.availableGridData())
	s.writeTemplate(w, "feed-stats", s.feedStatsData(true))
	s.writeToast(w, note)
}

// mutateActiveFeed runs a hide/unhide mutation and rebuilds the active grid
// with a toast. Failures never escape: they become an error toast and the
// dataset stays as it was.
func (s *Server) mutateActiveFeed(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, feedURL string) error, successMsg, failureMsg string) {
	if err := r.ParseForm(); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	feedURL := r.FormValue("url")
	if feedURL == "" {
		s.respondWithError(w, http.StatusBadRequest, "Feed URL is required", nil)
		return
	}

	note := toast{Message: successMsg, Type: "success"}
	if err := op(r.Context(), feedURL); err != nil {
		log.Printf("[WARN] feed mutation failed: %v", err)
		note = toast{Message: failureMsg, Type: "error"}
	}

	s.writeTemplate(w, "active-feed-cards", s.activeGridData())
	s.writeTemplate(w, "feed-stats", s.feedStatsData(true))
	s.writeToast(w, note)
}

// themeToggleHandler flips the theme cookie and forces a full page refresh
func (s *Server) themeToggleHandler(w http.ResponseWriter, r *http.Request) {
	next := themeDark
	if s.theme(r) == themeDark {
		next = themeLight
	}

	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusOK)
}

// theme returns the theme preference from the request cookie, falling back
// to the configured default
func (s *Server) theme(r *http.Request) string {
	if c, err := r.Cookie(themeCookie); err == nil {
		if c.Value == themeLight || c.Value == themeDark {
			return c.Value
		}
	}
	defaultTheme, _ := s.config.GetUIConfig()
	return defaultTheme
}

// lastUpdatedLabel derives the header label from the backend cache
// timestamp, "Just updated" when the backend served a fresh list
func (s *Server) lastUpdatedLabel() string {
	if !s.articles.Loaded() {
		return ""
	}
	if ts, ok := s.articles.CachedAt(); ok {
		return "Updated " + view.TimeAgo(ts, time.Now())
	}
	return "Just updated"
}

// respondWithError logs the error and sends a plain error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	log.Printf("[ERROR] %s: %v", msg, err)
	http.Error(w, msg, code)
}

// addFeedToastMessage picks the toast text for a failed add: the backend
// message when it supplied one, a generic fallback otherwise
func addFeedToastMessage(err error) string {
	var backendErr *api.BackendError
	if errors.As(err, &backendErr) && backendErr.Message != "" {
		return backendErr.Message
	}
	return "Failed to add feed"
}
