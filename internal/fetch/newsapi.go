package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const newsAPILabel = "NewsAPI"

// NewsAPISource queries newsapi.org's "everything" endpoint with a
// from-date lower bound.
type NewsAPISource struct {
	BaseURL string
	apiKey  string
	client  *http.Client
}

// NewNewsAPISource creates a new NewsAPISource with the given API key.
func NewNewsAPISource(apiKey string) *NewsAPISource {
	return &NewsAPISource{
		BaseURL: "https://newsapi.org/v2/everything",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the source label.
func (s *NewsAPISource) Name() string { return newsAPILabel }

type newsAPIArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

type newsAPIResponse struct {
	Articles []newsAPIArticle `json:"articles"`
}

// Fetch retrieves articles for the keyword published on or after since.
// The API occasionally returns items just outside the requested window, so
// parsed dates are re-checked against the cutoff before being accepted.
func (s *NewsAPISource) Fetch(ctx context.Context, keyword string, since time.Time) ([]Item, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("apiKey", s.apiKey)
	q.Set("from", since.Format(time.DateOnly))

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
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}

	cutoff := dateOf(since)
	items := make([]Item, 0, len(body.Articles))
	for _, article := range body.Articles {
		published, ok := parseNewsAPIDate(article.PublishedAt)
		if !ok {
			continue
		}
		if published.Before(cutoff) {
			log.Debug().Str("title", article.Title).Msg("Skipping newsapi article outside lookback window")
			continue
		}
		items = append(items, Item{
			Title:     article.Title,
			URL:       article.URL,
			ImageURL:  article.URLToImage,
			Published: published,
			Source:    newsAPILabel,
		})
	}
	return items, nil
}

// parseNewsAPIDate parses the publishedAt field, first as an offset
// date-time, then falling back to the fractional-seconds instant form.
// Unparseable dates drop the item with a warning rather than failing the
// whole call.
func parseNewsAPIDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return dateOf(t), true
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999Z07:00", value); err == nil {
		return dateOf(t), true
	}
	log.Warn().Str("publishedAt", value).Msg("Could not parse newsapi date")
	return time.Time{}, false
}
