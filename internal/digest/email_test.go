package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/srushti1125/techdigest/internal/models"
)

func TestRenderDigest(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local)
	articles := []models.Article{
		{Title: "Rust 2.0 released", URL: "https://example.com/rust", Source: "Hacker News", PublishedDate: date},
		{Title: "AI in healthcare", URL: "https://example.com/ai", ImageURL: "https://example.com/ai.png", Source: "NewsAPI", PublishedDate: date},
	}

	body, err := renderDigest(articles, 7)
	if err != nil {
		t.Fatalf("renderDigest returned error: %v", err)
	}

	for _, want := range []string{
		"Rust 2.0 released",
		"https://example.com/rust",
		"AI in healthcare",
		"https://example.com/ai.png",
		"Source: Hacker News",
		"Source: NewsAPI",
		"Your Tech Digest",
		"Last 7 Days",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body is missing %q", want)
		}
	}

	// Only one article has an image.
	if got := strings.Count(body, "article-img"); got != 2 { // class attr in CSS + one img tag
		t.Errorf("expected one image tag, found %d occurrences of article-img", got)
	}
}

func TestRenderDigestEscapesHTML(t *testing.T) {
	articles := []models.Article{
		{Title: `<script>alert("x")</script>`, URL: "https://example.com/x"},
	}
	body, err := renderDigest(articles, 7)
	if err != nil {
		t.Fatalf("renderDigest returned error: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("title must be HTML-escaped")
	}
}
