package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/srushti1125/techdigest/internal/mailer"
	"github.com/srushti1125/techdigest/internal/models"
	"github.com/srushti1125/techdigest/internal/services"
)

const subject = "Your Tech Digest"

// Service prepares and delivers daily digest emails, then marks exactly
// the successfully delivered articles as sent.
type Service struct {
	users        services.UserServiceProvider
	articles     services.ArticleServiceProvider
	events       services.EventServiceProvider
	mailer       mailer.Mailer
	lookbackDays int
}

// NewService creates a new digest Service.
func NewService(users services.UserServiceProvider, articles services.ArticleServiceProvider, events services.EventServiceProvider, m mailer.Mailer, lookbackDays int) *Service {
	return &Service{
		users:        users,
		articles:     articles,
		events:       events,
		mailer:       m,
		lookbackDays: lookbackDays,
	}
}

// Run executes one digest run. Send failures are per-user: they are
// logged, exclude that user's articles from the sent set, and never stop
// the run. The sent flag is updated in one batch at the end, only for
// articles that went out in at least one successful email.
func (s *Service) Run() {
	log.Info().Int("lookback_days", s.lookbackDays).Msg("Preparing daily digests")

	y, m, d := time.Now().AddDate(0, 0, -s.lookbackDays).Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	candidates, err := s.articles.FindUnsentSince(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Digest run aborted: could not query unsent articles")
		return
	}
	if len(candidates) == 0 {
		log.Info().Msg("No unsent articles in the lookback window")
		return
	}

	users, err := s.users.GetAllUsers()
	if err != nil {
		log.Error().Err(err).Msg("Digest run aborted: could not load users")
		return
	}
	if len(users) == 0 {
		// Candidates stay unsent so a future run can pick them up, though
		// they will age out of the lookback window if nobody registers.
		log.Warn().Int("candidates", len(candidates)).Msg("No users registered; leaving candidate articles unsent")
		return
	}

	sent := make(map[string]bool)
	var emailsSent int

	for _, user := range users {
		matched := MatchArticles(candidates, user.Keywords)
		if len(matched) == 0 {
			log.Debug().Str("email", user.Email).Msg("No matching articles for user")
			continue
		}

		body, err := renderDigest(matched, s.lookbackDays)
		if err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("Failed to render digest body")
			continue
		}

		if err := s.mailer.Send(user.Email, subject, body); err != nil {
			log.Error().Err(err).Str("email", user.Email).Msg("Failed to send digest email")
			if evErr := s.events.CreateEvent("digest.send.fail", "error",
				fmt.Sprintf("Digest email to %s failed: %v", user.Email, err), nil); evErr != nil {
				log.Error().Err(evErr).Msg("Failed to record send failure event")
			}
			continue
		}

		emailsSent++
		for _, article := range matched {
			sent[article.ID] = true
		}
		log.Info().Str("email", user.Email).Int("articles", len(matched)).Msg("Sent digest email")
	}

	if len(sent) > 0 {
		ids := make([]string, 0, len(sent))
		for id := range sent {
			ids = append(ids, id)
		}
		if err := s.articles.MarkSentInDigest(ids); err != nil {
			// Flags stay false; the next run will retry these articles.
			log.Error().Err(err).Msg("Failed to mark articles as sent")
		} else {
			log.Info().Int("articles", len(ids)).Msg("Marked articles as sent")
		}
	}

	log.Info().Int("emails_sent", emailsSent).Msg("Digest run finished")
	if err := s.events.CreateEvent("digest.run", "info",
		fmt.Sprintf("Digest run finished: %d emails sent, %d articles delivered", emailsSent, len(sent)), nil); err != nil {
		log.Error().Err(err).Msg("Failed to record digest run event")
	}
}

// MatchesKeywords reports whether any non-empty trimmed keyword appears as
// a case-insensitive substring of the title.
func MatchesKeywords(title string, keywords []string) bool {
	if title == "" {
		return false
	}
	titleLower := strings.ToLower(title)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" && strings.Contains(titleLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// MatchArticles filters articles down to those matching at least one of
// the user's keywords.
func MatchArticles(articles []models.Article, keywords []string) []models.Article {
	var matched []models.Article
	for _, article := range articles {
		if MatchesKeywords(article.Title, keywords) {
			matched = append(matched, article)
		}
	}
	return matched
}
