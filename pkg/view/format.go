package view

import (
	"fmt"
	"html"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// TimeAgo renders a relative time label for t against now: "Just now" under
// a minute, then minutes, hours and days, and an absolute short date once a
// week has passed. The year appears only when it differs from the current
// one. All unit counts truncate, a 90-minute difference is "1h ago".
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	mins := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}

	if t.Year() != now.Year() {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

// StripTags reduces an HTML fragment to its plain text content
func StripTags(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}

// Excerpt strips markup from an HTML fragment and truncates the plain text
// to max characters with a trailing ellipsis marker. The limit counts the
// stripped text, not the original markup, and is measured in runes.
func Excerpt(s string, max int) string {
	plain := StripTags(s)
	runes := []rune(plain)
	if len(runes) <= max {
		return plain
	}
	return string(runes[:max]) + "..."
}
