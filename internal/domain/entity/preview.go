package entity

// FeedPreview describes the feed discovered for a candidate source URL.
type FeedPreview struct {
	// URL is the page the user entered.
	URL string `json:"url"`
	// FeedURL is the RSS/Atom document actually parsed.
	FeedURL     string   `json:"feed_url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ItemCount   int      `json:"item_count"`
	LatestItems []string `json:"latest_items,omitempty"`
}
