package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/srushti1125/techdigest/internal/fetch"
	"github.com/srushti1125/techdigest/internal/models"
	"github.com/srushti1125/techdigest/internal/services"
)

// Broadcaster pushes newly stored articles to connected dashboard clients.
type Broadcaster interface {
	BroadcastArticle(article models.Article)
}

// Service runs one aggregation cycle: union all users' keywords, fetch
// every source per keyword, and persist deduplicated articles.
type Service struct {
	users        services.UserServiceProvider
	articles     services.ArticleServiceProvider
	events       services.EventServiceProvider
	sources      []fetch.Source
	broadcaster  Broadcaster
	lookbackDays int
}

// NewService creates a new aggregation Service. broadcaster may be nil.
func NewService(users services.UserServiceProvider, articles services.ArticleServiceProvider, events services.EventServiceProvider, sources []fetch.Source, broadcaster Broadcaster, lookbackDays int) *Service {
	return &Service{
		users:        users,
		articles:     articles,
		events:       events,
		sources:      sources,
		broadcaster:  broadcaster,
		lookbackDays: lookbackDays,
	}
}

// RunCycle executes one full fetch cycle. Every per-source and per-item
// failure is logged and contained; the cycle itself never fails.
func (s *Service) RunCycle(ctx context.Context) {
	log.Info().Msg("Aggregation cycle started")

	keywords, err := s.collectKeywords()
	if err != nil {
		log.Error().Err(err).Msg("Aggregation cycle aborted: could not load users")
		return
	}
	if len(keywords) == 0 {
		log.Info().Msg("No keywords across users; skipping fetch cycle")
		return
	}

	// One cutoff per cycle, as a local calendar date. The sources that
	// support filtering derive their own representation from it.
	now := time.Now()
	y, m, d := now.AddDate(0, 0, -s.lookbackDays).Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	var saved int
	for _, keyword := range keywords {
		for _, item := range s.fetchKeyword(ctx, keyword, cutoff) {
			if s.ingest(item) {
				saved++
			}
		}
	}

	log.Info().Int("keywords", len(keywords)).Int("new_articles", saved).Msg("Aggregation cycle finished")
	if err := s.events.CreateEvent("aggregate.cycle", "info",
		fmt.Sprintf("Fetch cycle finished: %d keywords, %d new articles", len(keywords), saved), nil); err != nil {
		log.Error().Err(err).Msg("Failed to record aggregation cycle event")
	}
}

// collectKeywords unions all users' keyword sets into one deduplicated,
// trimmed, sorted list.
func (s *Service) collectKeywords() ([]string, error) {
	users, err := s.users.GetAllUsers()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	for _, user := range users {
		for _, kw := range user.Keywords {
			kw = strings.TrimSpace(kw)
			if kw != "" {
				set[kw] = true
			}
		}
	}
	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords, nil
}

// fetchKeyword queries every source for one keyword concurrently. A
// failing source contributes zero items and never affects its siblings.
func (s *Service) fetchKeyword(ctx context.Context, keyword string, cutoff time.Time) []fetch.Item {
	var (
		mu    sync.Mutex
		items []fetch.Item
		wg    sync.WaitGroup
	)

	for _, source := range s.sources {
		wg.Add(1)
		go func(src fetch.Source) {
			defer wg.Done()
			fetched, err := src.Fetch(ctx, keyword, cutoff)
			if err != nil {
				name := src.Name()
				log.Warn().Err(err).Str("source", name).Str("keyword", keyword).Msg("Source fetch failed")
				if evErr := s.events.CreateEvent("aggregate.fetch.fail", "warn",
					fmt.Sprintf("Fetch failed for keyword %q: %v", keyword, err), &name); evErr != nil {
					log.Error().Err(evErr).Msg("Failed to record fetch failure event")
				}
				return
			}
			log.Debug().Str("source", src.Name()).Str("keyword", keyword).Int("items", len(fetched)).Msg("Source fetch succeeded")
			mu.Lock()
			items = append(items, fetched...)
			mu.Unlock()
		}(source)
	}
	wg.Wait()
	return items
}

// ingest persists one candidate item, reporting whether a new article was
// stored. Items with missing fields, known URLs, or racing duplicates are
// skipped.
func (s *Service) ingest(item fetch.Item) bool {
	if item.URL == "" || item.Title == "" || item.Published.IsZero() {
		log.Debug().Str("title", item.Title).Str("source", item.Source).Msg("Skipping item with missing url, title, or date")
		return false
	}

	exists, err := s.articles.ExistsByURL(item.URL)
	if err != nil {
		log.Error().Err(err).Str("url", item.URL).Msg("Existence check failed")
		return false
	}
	if exists {
		return false
	}

	article, err := s.articles.CreateArticle(models.Article{
		Title:         item.Title,
		URL:           item.URL,
		ImageURL:      item.ImageURL,
		PublishedDate: item.Published,
		Source:        item.Source,
	})
	if err != nil {
		// Most often a concurrent insert of the same URL; the unique
		// constraint is the authoritative dedup, so losing the race is fine.
		log.Warn().Err(err).Str("url", item.URL).Msg("Article insert skipped")
		return false
	}

	log.Info().Str("source", article.Source).Str("title", article.Title).Msg("Saved new article")
	if s.broadcaster != nil {
		s.broadcaster.BroadcastArticle(article)
	}
	return true
}
