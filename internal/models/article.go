package models

import "time"

// MaxTitleLength is the longest title the store will hold; anything longer
// is truncated before insertion.
const MaxTitleLength = 999

// Article is one deduplicated content item. The URL is globally unique and
// is the dedup key across all sources and cycles.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	PublishedDate time.Time `json:"publishedDate"` // calendar date, time part is always midnight
	Source        string    `json:"source"`
	SentInDigest  bool      `json:"sentInDigest"`
	CreatedAt     time.Time `json:"createdAt"`
}
