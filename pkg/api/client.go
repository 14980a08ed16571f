package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/leifheaney/intheloop/pkg/domain"
)

// Client talks to the aggregation backend REST API. Every operation issues
// exactly one HTTP request and decodes the JSON response before returning;
// the only retrying operation is WaitReady.
type Client struct {
	baseURL   string
	timeout   time.Duration
	client    *http.Client
	sanitizer *bluemonday.Policy
}

// NewClient creates a backend API client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		timeout:   timeout,
		client:    &http.Client{Timeout: timeout},
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// ArticlesResult is the decoded payload of GET /api/articles
type ArticlesResult struct {
	Articles []domain.Article
	CachedAt time.Time // zero when the backend served a freshly built list
}

// BackendError is an application-level failure flagged by the backend with
// success:false. Message may carry the server-supplied explanation.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return "backend rejected request"
	}
	return e.Message
}

type articlesResponse struct {
	Articles []domain.Article `json:"articles"`
	Cached   string           `json:"cached"`
	Total    int              `json:"total"`
}

type feedsResponse struct {
	Feeds []domain.Feed `json:"feeds"`
	Total int           `json:"total"`
}

type availableResponse struct {
	Feeds map[string][]domain.Feed `json:"feeds"`
	Total int                      `json:"total"`
}

type opResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Articles retrieves the current article list. Summary HTML is sanitized at
// this boundary so nothing unsafe is ever stored in view state.
func (c *Client) Articles(ctx context.Context) (ArticlesResult, error) {
	var resp articlesResponse
	if err := c.getJSON(ctx, "/api/articles", &resp); err != nil {
		return ArticlesResult{}, fmt.Errorf("get articles: %w", err)
	}

	res := ArticlesResult{Articles: resp.Articles}
	for i := range res.Articles {
		res.Articles[i].Summary = c.sanitizer.Sanitize(res.Articles[i].Summary)
	}

	// cached is optional and may be in any reasonable timestamp format,
	// an unparsable value is treated as absent
	if resp.Cached != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if ts, err := time.Parse(layout, resp.Cached); err == nil {
				res.CachedAt = ts
				break
			}
		}
	}

	return res, nil
}

// Refresh asks the backend to rebuild its article cache. The response body
// is drained and discarded; callers re-fetch the canonical list afterwards.
func (c *Client) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/refresh", http.NoBody)
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh articles: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with close error

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh articles: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ActiveFeeds retrieves the list of subscribed feeds, hidden ones included
func (c *Client) ActiveFeeds(ctx context.Context) ([]domain.Feed, error) {
	var resp feedsResponse
	if err := c.getJSON(ctx, "/api/feeds", &resp); err != nil {
		return nil, fmt.Errorf("get active feeds: %w", err)
	}
	return resp.Feeds, nil
}

// AvailableFeeds retrieves the feed catalog as a category to feeds mapping
// plus the backend-reported total
func (c *Client) AvailableFeeds(ctx context.Context) (map[string][]domain.Feed, int, error) {
	var resp availableResponse
	if err := c.getJSON(ctx, "/api/feeds/available", &resp); err != nil {
		return nil, 0, fmt.Errorf("get available feeds: %w", err)
	}
	return resp.Feeds, resp.Total, nil
}

// HideFeed suppresses an active feed from aggregation
func (c *Client) HideFeed(ctx context.Context, feedURL string) error {
	return c.mutate(ctx, "/api/feeds/hide", map[string]string{"url": feedURL})
}

// UnhideFeed restores a hidden feed
func (c *Client) UnhideFeed(ctx context.Context, feedURL string) error {
	return c.mutate(ctx, "/api/feeds/unhide", map[string]string{"url": feedURL})
}

// AddFeed subscribes a catalog feed under the given category
func (c *Client) AddFeed(ctx context.Context, feedURL, category string) error {
	return c.mutate(ctx, "/api/feeds/add", map[string]string{"url": feedURL, "category": category})
}

// WaitReady blocks until the backend answers the articles endpoint or the
// context is done. Used at startup so the UI never serves before its data
// source exists.
func (c *Client) WaitReady(ctx context.Context) error {
	retrier := repeater.NewBackoff(10, 100*time.Millisecond, repeater.WithMaxDelay(3*time.Second))
	return retrier.Do(ctx, func() error {
		var resp articlesResponse
		return c.getJSON(ctx, "/api/articles", &resp)
	})
}

// mutate POSTs a JSON body and interprets the {success, message} envelope
func (c *Client) mutate(ctx context.Context, path string, body map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with close error

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}

	var op opResponse
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if !op.Success {
		return &BackendError{Message: op.Message}
	}
	return nil
}

// getJSON issues a GET request and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with close error

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
