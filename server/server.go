package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/leifheaney/intheloop/pkg/view"
)

//go:embed templates static
var assets embed.FS

// pages parsed against the base layout
var pageNames = []string{"articles.html", "feeds.html"}

// Server represents HTTP server instance serving the web UI
type Server struct {
	config   ConfigProvider
	articles *view.Articles
	feeds    *view.Feeds
	version  string
	debug    bool

	lock          sync.Mutex
	httpServer    *http.Server
	router        *routegroup.Bundle
	templates     *template.Template
	pageTemplates map[string]*template.Template
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetUIConfig() (defaultTheme string, excerptLength int)
}

// New initializes a new server instance
func New(cfg ConfigProvider, articles *view.Articles, feeds *view.Feeds, version string, debug bool) (*Server, error) {
	s := &Server{
		config:   cfg,
		articles: articles,
		feeds:    feeds,
		version:  version,
		debug:    debug,
		router:   routegroup.New(http.NewServeMux()),
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// loadTemplates parses components and page templates from the embedded FS
func (s *Server) loadTemplates() error {
	_, excerptLen := s.config.GetUIConfig()
	funcs := template.FuncMap{
		"timeago": func(t time.Time) string { return view.TimeAgo(t, time.Now()) },
		"excerpt": func(summary string) string { return view.Excerpt(summary, excerptLen) },
	}

	// components are shared by full pages and HTMX partial responses
	components, err := template.New("components").Funcs(funcs).ParseFS(assets, "templates/components/*.html")
	if err != nil {
		return fmt.Errorf("parse components: %w", err)
	}
	s.templates = components

	// each page is parsed together with the base layout and components
	s.pageTemplates = make(map[string]*template.Template)
	for _, page := range pageNames {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(assets,
			"templates/base.html", "templates/components/*.html", "templates/"+page)
		if err != nil {
			return fmt.Errorf("parse page %s: %w", page, err)
		}
		s.pageTemplates[page] = tmpl
	}
	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("intheloop", "leifheaney", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	// pages
	s.router.HandleFunc("GET /{$}", s.articlesPageHandler)
	s.router.HandleFunc("GET /feeds", s.feedsPageHandler)

	// HTMX partials and actions
	s.router.HandleFunc("GET /articles/cards", s.articleCardsHandler)
	s.router.HandleFunc("POST /articles/refresh", s.refreshArticlesHandler)
	s.router.HandleFunc("GET /feeds/tab", s.feedTabHandler)
	s.router.HandleFunc("GET /feeds/active/cards", s.activeFeedCardsHandler)
	s.router.HandleFunc("GET /feeds/available/cards", s.availableFeedCardsHandler)
	s.router.HandleFunc("POST /feeds/hide", s.hideFeedHandler)
	s.router.HandleFunc("POST /feeds/unhide", s.unhideFeedHandler)
	s.router.HandleFunc("POST /feeds/add", s.addFeedHandler)
	s.router.HandleFunc("POST /theme", s.themeToggleHandler)

	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})

	// static assets
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		log.Printf("[ERROR] can't mount static assets: %v", err)
		return
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderPage renders a pre-parsed page template
func (s *Server) renderPage(w http.ResponseWriter, templateName string, data interface{}) error {
	tmpl, ok := s.pageTemplates[templateName]
	if !ok {
		return fmt.Errorf("template %s not found", templateName)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}
