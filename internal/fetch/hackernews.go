package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const hackerNewsLabel = "Hacker News"

// HackerNewsSource queries the Algolia Hacker News search API for stories
// created at or after the lookback cutoff.
type HackerNewsSource struct {
	BaseURL string
	client  *http.Client
}

// NewHackerNewsSource creates a new HackerNewsSource.
func NewHackerNewsSource() *HackerNewsSource {
	return &HackerNewsSource{
		BaseURL: "https://hn.algolia.com/api/v1/search",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the source label.
func (s *HackerNewsSource) Name() string { return hackerNewsLabel }

type hnHit struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"created_at_i"`
}

type hnResponse struct {
	Hits []hnHit `json:"hits"`
}

// Fetch retrieves stories for the keyword created at or after since,
// filtered server-side on the creation timestamp in epoch seconds.
func (s *HackerNewsSource) Fetch(ctx context.Context, keyword string, since time.Time) ([]Item, error) {
	q := url.Values{}
	q.Set("query", keyword)
	q.Set("tags", "story")
	q.Set("numericFilters", fmt.Sprintf("created_at_i>=%d", since.Unix()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hacker news returned status %d", resp.StatusCode)
	}

	var body hnResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding hacker news response: %w", err)
	}

	items := make([]Item, 0, len(body.Hits))
	for _, hit := range body.Hits {
		var published time.Time
		if hit.CreatedAt != 0 {
			published = dateOf(time.Unix(hit.CreatedAt, 0))
		}
		items = append(items, Item{
			Title:     hit.Title,
			URL:       hit.URL,
			Published: published,
			Source:    hackerNewsLabel,
		})
	}
	return items, nil
}
