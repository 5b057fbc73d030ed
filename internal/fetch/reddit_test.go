package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRedditFetch(t *testing.T) {
	created := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	var gotUserAgent, gotQ string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotQ = r.URL.Query().Get("q")
		fmt.Fprintf(w, `{"data":{"children":[
			{"data":{"title":"Rust discussion","url":"https://example.com/rust","created_utc":%d.0}},
			{"data":{"title":"No timestamp","url":"https://example.com/untimed"}}
		]}}`, created.Unix())
	}))
	defer server.Close()

	src := NewRedditSource()
	src.BaseURL = server.URL

	items, err := src.Fetch(context.Background(), "rust", time.Now())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if gotQ != "rust" {
		t.Errorf("q param = %q, want %q", gotQ, "rust")
	}
	if !strings.Contains(gotUserAgent, "techdigest") {
		t.Errorf("request should carry an identifying User-Agent, got %q", gotUserAgent)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Source != "Reddit" {
		t.Errorf("source label = %q, want Reddit", items[0].Source)
	}
	wantDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local)
	if !items[0].Published.Equal(wantDate) {
		t.Errorf("published = %v, want %v", items[0].Published, wantDate)
	}
	if !items[1].Published.IsZero() {
		t.Errorf("post without created_utc should have zero published date, got %v", items[1].Published)
	}
}

func TestRedditFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":`)
	}))
	defer server.Close()

	src := NewRedditSource()
	src.BaseURL = server.URL

	if _, err := src.Fetch(context.Background(), "rust", time.Now()); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}
