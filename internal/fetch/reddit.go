package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const redditLabel = "Reddit"

// redditUserAgent identifies this client to the Reddit API, which rejects
// anonymous default agents.
const redditUserAgent = "go-aggregator:techdigest:v1.0 (by /u/techdigestbot)"

// RedditSource queries the Reddit search API. Reddit offers no reliable
// server-side date filter, so the lookback cutoff is ignored and old posts
// are only stopped by URL dedup at the store.
type RedditSource struct {
	BaseURL string
	client  *http.Client
}

// NewRedditSource creates a new RedditSource.
func NewRedditSource() *RedditSource {
	return &RedditSource{
		BaseURL: "https://www.reddit.com/search.json",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the source label.
func (s *RedditSource) Name() string { return redditLabel }

type redditPostData struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	CreatedUTC float64 `json:"created_utc"`
}

type redditPost struct {
	Data redditPostData `json:"data"`
}

type redditResponse struct {
	Data struct {
		Children []redditPost `json:"children"`
	} `json:"data"`
}

// Fetch retrieves search results for the keyword.
func (s *RedditSource) Fetch(ctx context.Context, keyword string, _ time.Time) ([]Item, error) {
	q := url.Values{}
	q.Set("q", keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	var body redditResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding reddit response: %w", err)
	}

	items := make([]Item, 0, len(body.Data.Children))
	for _, post := range body.Data.Children {
		var published time.Time
		if post.Data.CreatedUTC != 0 {
			published = dateOf(time.Unix(int64(post.Data.CreatedUTC), 0))
		}
		items = append(items, Item{
			Title:     post.Data.Title,
			URL:       post.Data.URL,
			Published: published,
			Source:    redditLabel,
		})
	}
	return items, nil
}
