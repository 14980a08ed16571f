package domain

import "time"

// Article represents a single aggregated news article as served by the
// backend API. Articles are immutable once fetched; the whole list is
// replaced wholesale on every reload.
type Article struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"` // may contain HTML markup
	Category  string    `json:"category"`
	Site      string    `json:"site"`
	Published time.Time `json:"published"`
}
