package domain

// Feed represents a feed source. For subscribed (active) feeds all fields
// are populated and Hidden marks feeds suppressed from aggregation but still
// shown in the management UI. Catalog (available) feeds arrive from the
// backend without a category of their own; the category is attached when the
// catalog map is flattened. URL is the natural key for equality checks.
type Feed struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
}
