package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGoogleNewsSourceLabels(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"timesofindia.indiatimes.com", "Times of India"},
		{"medium.com", "Medium"},
		{"example.org", "Google News"},
	}
	for _, tt := range tests {
		if got := NewGoogleNewsSource(tt.domain).Name(); got != tt.want {
			t.Errorf("NewGoogleNewsSource(%q).Name() = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestGoogleNewsFetch(t *testing.T) {
	var gotQ string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Search results</title>
<item>
<title>Kubernetes on Medium</title>
<link>https://example.com/k8s</link>
<pubDate>Fri, 10 May 2024 09:00:00 GMT</pubDate>
</item>
<item>
<title>Undated entry</title>
<link>https://example.com/undated</link>
</item>
</channel>
</rss>`)
	}))
	defer server.Close()

	src := NewGoogleNewsSource("medium.com")
	src.BaseURL = server.URL

	items, err := src.Fetch(context.Background(), "kubernetes", time.Now())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if want := "kubernetes site:medium.com"; gotQ != want {
		t.Errorf("q param = %q, want %q", gotQ, want)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "Kubernetes on Medium" || items[0].URL != "https://example.com/k8s" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[0].Source != "Medium" {
		t.Errorf("source label = %q, want Medium", items[0].Source)
	}
	if items[0].Published.IsZero() {
		t.Error("dated entry should have a published date")
	}
	if items[0].Published.Hour() != 0 {
		t.Errorf("published date should be truncated to midnight, got %v", items[0].Published)
	}
	if !items[1].Published.IsZero() {
		t.Errorf("undated entry should have zero published date, got %v", items[1].Published)
	}
}

func TestGoogleNewsFetchMalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `this is not xml`)
	}))
	defer server.Close()

	src := NewGoogleNewsSource("medium.com")
	src.BaseURL = server.URL

	if _, err := src.Fetch(context.Background(), "kubernetes", time.Now()); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}
