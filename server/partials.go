package server

import (
	"log"
	"net/http"

	"github.com/leifheaney/intheloop/pkg/domain"
	"github.com/leifheaney/intheloop/pkg/view"
)

// template data for the components shared between full pages and the
// fragments swapped in by htmx. OOB marks a fragment rendered out-of-band
// alongside the main swap target.

type articleCardsData struct {
	Articles     []domain.Article
	LoadFailed   bool
	ErrorMessage string
}

type articleStatsData struct {
	Count       int
	LastUpdated string
	OOB         bool
}

type categoryBarData struct {
	Categories []string
	Selected   string
	OOB        bool
}

type feedTabsData struct {
	Tab domain.Tab
	OOB bool
}

type feedStatsData struct {
	ActiveCount  int
	CatalogTotal int
	OOB          bool
}

type activeGridData struct {
	Feeds []domain.Feed
}

type availableGridData struct {
	Feeds []view.CatalogEntry
}

type activePanelData struct {
	Search string
	Grid   activeGridData
}

type availablePanelData struct {
	Search string
	Bar    categoryBarData
	Grid   availableGridData
}

func (s *Server) articleCardsData(loadFailed bool) articleCardsData {
	return articleCardsData{
		Articles:     s.articles.Visible(),
		LoadFailed:   loadFailed,
		ErrorMessage: articlesLoadErrMsg,
	}
}

func (s *Server) articleStatsData(oob bool) articleStatsData {
	return articleStatsData{
		Count:       len(s.articles.Visible()),
		LastUpdated: s.lastUpdatedLabel(),
		OOB:         oob,
	}
}

func (s *Server) categoryBarData(oob bool) categoryBarData {
	return categoryBarData{
		Categories: s.articles.Categories(),
		Selected:   s.articles.Criteria().Category,
		OOB:        oob,
	}
}

func (s *Server) feedTabsData(oob bool) feedTabsData {
	return feedTabsData{Tab: s.feeds.Criteria().Tab, OOB: oob}
}

func (s *Server) feedStatsData(oob bool) feedStatsData {
	return feedStatsData{
		ActiveCount:  s.feeds.ActiveCount(),
		CatalogTotal: s.feeds.CatalogTotal(),
		OOB:          oob,
	}
}

func (s *Server) activeGridData() activeGridData {
	return activeGridData{Feeds: s.feeds.VisibleActive()}
}

func (s *Server) availableGridData() availableGridData {
	return availableGridData{Feeds: s.feeds.VisibleCatalog()}
}

func (s *Server) availableBarData(oob bool) categoryBarData {
	return categoryBarData{
		Categories: s.feeds.CatalogCategories(),
		Selected:   s.feeds.Criteria().Category,
		OOB:        oob,
	}
}

func (s *Server) activePanelData() activePanelData {
	return activePanelData{
		Search: s.feeds.Criteria().SearchActive,
		Grid:   s.activeGridData(),
	}
}

func (s *Server) availablePanelData() availablePanelData {
	return availablePanelData{
		Search: s.feeds.Criteria().SearchAvailable,
		Bar:    s.availableBarData(false),
		Grid:   s.availableGridData(),
	}
}

// writeTemplate renders a named component into the response
func (s *Server) writeTemplate(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[WARN] failed to render %s: %v", name, err)
	}
}

// writeToast appends a toast to the notification area out-of-band
func (s *Server) writeToast(w http.ResponseWriter, note toast) {
	s.writeTemplate(w, "toast-oob", note)
}
