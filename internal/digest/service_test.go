package digest

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/srushti1125/techdigest/internal/models"
)

type fakeUsers struct {
	users []models.User
}

func (f *fakeUsers) GetAllUsers() ([]models.User, error) { return f.users, nil }
func (f *fakeUsers) GetUserByEmail(string) (models.User, error) {
	return models.User{}, errors.New("not implemented")
}
func (f *fakeUsers) CreateUser(string, string) (models.User, error) {
	return models.User{}, errors.New("not implemented")
}
func (f *fakeUsers) UpdateKeywords(string, []string) (models.User, error) {
	return models.User{}, errors.New("not implemented")
}
func (f *fakeUsers) AuthenticateUser(string, string) (models.User, error) {
	return models.User{}, errors.New("not implemented")
}

type fakeArticles struct {
	unsent []models.Article
	marked []string
}

func (f *fakeArticles) FindUnsentSince(time.Time) ([]models.Article, error) { return f.unsent, nil }
func (f *fakeArticles) MarkSentInDigest(ids []string) error {
	f.marked = append(f.marked, ids...)
	return nil
}
func (f *fakeArticles) ExistsByURL(string) (bool, error) { return false, nil }
func (f *fakeArticles) CreateArticle(a models.Article) (models.Article, error) {
	return a, nil
}
func (f *fakeArticles) RecentArticles(time.Time, int) ([]models.Article, error) { return nil, nil }

type fakeEvents struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeEvents) CreateEvent(eventType, level, message string, source *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, eventType)
	return nil
}
func (f *fakeEvents) GetRecentEvents(int) ([]models.Event, error) { return nil, nil }

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	failFor map[string]bool
	sent    []sentMail
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.failFor[to] {
		return errors.New("smtp connection refused")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func daysAgo(n int) time.Time {
	y, m, d := time.Now().AddDate(0, 0, -n).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestRunSendsMatchingArticlesAndMarksThem(t *testing.T) {
	rustArticle := models.Article{ID: "a1", Title: "Rust 2.0 released", URL: "https://example.com/rust", PublishedDate: daysAgo(2)}
	pythonArticle := models.Article{ID: "a2", Title: "Python news", URL: "https://example.com/python", PublishedDate: daysAgo(1)}

	store := &fakeArticles{unsent: []models.Article{rustArticle, pythonArticle}}
	m := &fakeMailer{}
	svc := NewService(
		&fakeUsers{users: []models.User{{ID: "u1", Email: "a@example.com", Keywords: []string{"rust"}}}},
		store, &fakeEvents{}, m, 7)

	svc.Run()

	if len(m.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(m.sent))
	}
	if m.sent[0].to != "a@example.com" {
		t.Errorf("email went to %q", m.sent[0].to)
	}
	if m.sent[0].subject != "Your Tech Digest" {
		t.Errorf("subject = %q", m.sent[0].subject)
	}
	if !strings.Contains(m.sent[0].body, "Rust 2.0 released") {
		t.Error("body should contain the matching article title")
	}
	if strings.Contains(m.sent[0].body, "Python news") {
		t.Error("body should not contain non-matching articles")
	}

	if len(store.marked) != 1 || store.marked[0] != "a1" {
		t.Errorf("marked = %v, want [a1]", store.marked)
	}
}

func TestRunAllSendsFailingMarksNothing(t *testing.T) {
	store := &fakeArticles{unsent: []models.Article{
		{ID: "a1", Title: "Rust 2.0 released", PublishedDate: daysAgo(2)},
		{ID: "a2", Title: "Python news", PublishedDate: daysAgo(1)},
	}}
	m := &fakeMailer{failFor: map[string]bool{"a@example.com": true}}
	events := &fakeEvents{}
	svc := NewService(
		&fakeUsers{users: []models.User{{ID: "u1", Email: "a@example.com", Keywords: []string{"rust", "python"}}}},
		store, events, m, 7)

	svc.Run()

	if len(store.marked) != 0 {
		t.Errorf("no article may be marked after a failed send, got %v", store.marked)
	}
	var sawFailure bool
	for _, et := range events.types {
		if et == "digest.send.fail" {
			sawFailure = true
		}
	}
	if !sawFailure {
		t.Errorf("expected a digest.send.fail event, got %v", events.types)
	}
}

func TestRunPartialFailureExcludesOnlyFailedRecipients(t *testing.T) {
	shared := models.Article{ID: "a1", Title: "Go generics deep dive", PublishedDate: daysAgo(3)}
	only4B := models.Article{ID: "a2", Title: "Kubernetes at scale", PublishedDate: daysAgo(2)}

	store := &fakeArticles{unsent: []models.Article{shared, only4B}}
	m := &fakeMailer{failFor: map[string]bool{"b@example.com": true}}
	svc := NewService(&fakeUsers{users: []models.User{
		{ID: "u1", Email: "a@example.com", Keywords: []string{"go"}},
		{ID: "u2", Email: "b@example.com", Keywords: []string{"go", "kubernetes"}},
	}}, store, &fakeEvents{}, m, 7)

	svc.Run()

	// The shared article went out in A's email; B's failure must not
	// unmark it, and B's exclusive match stays unsent.
	sort.Strings(store.marked)
	if len(store.marked) != 1 || store.marked[0] != "a1" {
		t.Errorf("marked = %v, want [a1]", store.marked)
	}
	if len(m.sent) != 1 || m.sent[0].to != "a@example.com" {
		t.Errorf("sent = %+v, want one email to a@example.com", m.sent)
	}
}

func TestRunNoUsersMarksNothing(t *testing.T) {
	store := &fakeArticles{unsent: []models.Article{
		{ID: "a1", Title: "Orphan article", PublishedDate: daysAgo(1)},
	}}
	m := &fakeMailer{}
	svc := NewService(&fakeUsers{}, store, &fakeEvents{}, m, 7)

	svc.Run()

	if len(m.sent) != 0 {
		t.Errorf("expected no emails, got %d", len(m.sent))
	}
	if len(store.marked) != 0 {
		t.Errorf("expected no articles marked, got %v", store.marked)
	}
}

func TestRunSkipsUsersWithoutKeywords(t *testing.T) {
	store := &fakeArticles{unsent: []models.Article{
		{ID: "a1", Title: "Anything at all", PublishedDate: daysAgo(1)},
	}}
	m := &fakeMailer{}
	svc := NewService(&fakeUsers{users: []models.User{
		{ID: "u1", Email: "quiet@example.com"},
		{ID: "u2", Email: "blank@example.com", Keywords: []string{"  "}},
	}}, store, &fakeEvents{}, m, 7)

	svc.Run()

	if len(m.sent) != 0 {
		t.Errorf("users without keywords must not receive email, got %+v", m.sent)
	}
	if len(store.marked) != 0 {
		t.Errorf("expected no articles marked, got %v", store.marked)
	}
}

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		title    string
		keywords []string
		want     bool
	}{
		{"AI Breakthrough announced", []string{"ai"}, true},
		{"ai on the edge", []string{"AI"}, true},
		{"Rust 2.0 released", []string{"rust"}, true},
		{"Python news", []string{"rust"}, false},
		{"Contains pain points", []string{"ai"}, true}, // "pain" contains "ai"
		{"Anything", nil, false},
		{"Anything", []string{"", "  "}, false},
		{"", []string{"ai"}, false},
		{"Go 1.23", []string{"java", "go"}, true},
	}
	for _, tt := range tests {
		if got := MatchesKeywords(tt.title, tt.keywords); got != tt.want {
			t.Errorf("MatchesKeywords(%q, %v) = %v, want %v", tt.title, tt.keywords, got, tt.want)
		}
	}
}
