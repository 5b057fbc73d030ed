package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewsAPIFetch(t *testing.T) {
	var gotQ, gotKey, gotFrom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("apiKey")
		gotFrom = r.URL.Query().Get("from")
		fmt.Fprint(w, `{"articles":[
			{"title":"AI news","url":"https://example.com/ai","urlToImage":"https://example.com/ai.png","publishedAt":"2024-05-10T08:00:00Z"},
			{"title":"Too old","url":"https://example.com/stale","publishedAt":"2024-04-01T08:00:00Z"},
			{"title":"Bad date","url":"https://example.com/bad","publishedAt":"yesterday-ish"},
			{"title":"No date","url":"https://example.com/none"}
		]}`)
	}))
	defer server.Close()

	src := NewNewsAPISource("test-key")
	src.BaseURL = server.URL

	since := time.Date(2024, 5, 3, 0, 0, 0, 0, time.Local)
	items, err := src.Fetch(context.Background(), "ai", since)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if gotQ != "ai" || gotKey != "test-key" || gotFrom != "2024-05-03" {
		t.Errorf("query params = (%q, %q, %q), want (ai, test-key, 2024-05-03)", gotQ, gotKey, gotFrom)
	}

	// Stale, unparseable, and dateless articles are all dropped.
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}
	if items[0].Title != "AI news" {
		t.Errorf("item title = %q, want %q", items[0].Title, "AI news")
	}
	if items[0].ImageURL != "https://example.com/ai.png" {
		t.Errorf("image url = %q", items[0].ImageURL)
	}
	if items[0].Source != "NewsAPI" {
		t.Errorf("source label = %q, want NewsAPI", items[0].Source)
	}
}

func TestParseNewsAPIDate(t *testing.T) {
	valid := []string{
		"2024-05-10T08:00:00Z",
		"2024-05-10T23:59:59+05:30",
		"2024-05-10T08:00:00.123456789Z",
	}
	for _, value := range valid {
		got, ok := parseNewsAPIDate(value)
		if !ok {
			t.Errorf("parseNewsAPIDate(%q) ok = false, want true", value)
			continue
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
			t.Errorf("parseNewsAPIDate(%q) = %v, want a bare calendar date", value, got)
		}
		parsed, err := time.Parse("2006-01-02T15:04:05.999999999Z07:00", value)
		if err != nil {
			t.Fatalf("test input %q does not parse: %v", value, err)
		}
		if want := parsed.Local().Format(time.DateOnly); got.Format(time.DateOnly) != want {
			t.Errorf("parseNewsAPIDate(%q) = %v, want local date %s", value, got, want)
		}
	}

	for _, value := range []string{"not a date", "", "yesterday-ish"} {
		if _, ok := parseNewsAPIDate(value); ok {
			t.Errorf("parseNewsAPIDate(%q) ok = true, want false", value)
		}
	}
}
