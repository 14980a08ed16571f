package view

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"30 seconds ago", now.Add(-30 * time.Second), "Just now"},
		{"59 seconds ago", now.Add(-59 * time.Second), "Just now"},
		{"exactly one minute", now.Add(-time.Minute), "1m ago"},
		{"45 minutes ago", now.Add(-45 * time.Minute), "45m ago"},
		{"90 minutes is one hour", now.Add(-90 * time.Minute), "1h ago"},
		{"23 hours ago", now.Add(-23 * time.Hour), "23h ago"},
		{"25 hours is one day", now.Add(-25 * time.Hour), "1d ago"},
		{"6 days ago", now.Add(-6 * 24 * time.Hour), "6d ago"},
		{"8 days ago same year", now.Add(-8 * 24 * time.Hour), "Aug 22"},
		{"previous year has year suffix", time.Date(2024, 12, 15, 8, 0, 0, 0, time.UTC), "Dec 15, 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(tt.t, now))
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "hello world", "hello world"},
		{"tags removed", "<p>hello <b>world</b></p>", "hello world"},
		{"script content dropped entirely", `before<script>alert("x")</script>after`, "beforeafter"},
		{"entities unescaped", "Tom &amp; Jerry", "Tom & Jerry"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("exactly 200 characters unchanged", func(t *testing.T) {
		in := strings.Repeat("a", 200)
		assert.Equal(t, in, Excerpt(in, 200))
	})

	t.Run("201 characters truncated with marker", func(t *testing.T) {
		in := strings.Repeat("a", 201)
		got := Excerpt(in, 200)
		assert.Equal(t, strings.Repeat("a", 200)+"...", got)
	})

	t.Run("markup does not count against the limit", func(t *testing.T) {
		in := "<div><p>" + strings.Repeat("b", 200) + "</p></div>"
		assert.Equal(t, strings.Repeat("b", 200), Excerpt(in, 200))
	})

	t.Run("multi-byte text truncates on rune boundary", func(t *testing.T) {
		in := strings.Repeat("ü", 10)
		got := Excerpt(in, 5)
		assert.Equal(t, strings.Repeat("ü", 5)+"...", got)
	})
}
