package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srushti1125/techdigest/internal/models"
)

// ArticleServiceProvider defines the interface for the article store.
type ArticleServiceProvider interface {
	ExistsByURL(url string) (bool, error)
	CreateArticle(article models.Article) (models.Article, error)
	FindUnsentSince(cutoff time.Time) ([]models.Article, error)
	MarkSentInDigest(ids []string) error
	RecentArticles(since time.Time, limit int) ([]models.Article, error)
}

// ArticleService provides persistence for deduplicated articles.
type ArticleService struct {
	db *sql.DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *sql.DB) *ArticleService {
	return &ArticleService{db: db}
}

// ExistsByURL reports whether an article with the given URL is stored.
func (s *ArticleService) ExistsByURL(url string) (bool, error) {
	var n int
	row := s.db.QueryRow("SELECT COUNT(1) FROM articles WHERE url = ?", url)
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateArticle inserts a new article with the sent flag cleared. Titles
// longer than the storage maximum are truncated. A unique-constraint
// failure on the URL (a concurrent duplicate) comes back as an error for
// the caller to log and skip.
func (s *ArticleService) CreateArticle(article models.Article) (models.Article, error) {
	if article.URL == "" || article.Title == "" || article.PublishedDate.IsZero() {
		return models.Article{}, fmt.Errorf("article is missing url, title, or published date")
	}
	if runes := []rune(article.Title); len(runes) > models.MaxTitleLength {
		article.Title = string(runes[:models.MaxTitleLength])
	}
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	article.SentInDigest = false

	stmt, err := s.db.Prepare(`
		INSERT INTO articles (id, title, url, image_url, published_date, source, sent_in_digest)
		VALUES (?, ?, ?, ?, ?, ?, FALSE)
	`)
	if err != nil {
		return models.Article{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(article.ID, article.Title, article.URL, article.ImageURL,
		article.PublishedDate.Format(time.DateOnly), article.Source)
	if err != nil {
		return models.Article{}, fmt.Errorf("failed to save article %q: %w", article.Title, err)
	}
	return article, nil
}

// FindUnsentSince retrieves articles that have not been included in a
// digest and were published on or after the cutoff date.
func (s *ArticleService) FindUnsentSince(cutoff time.Time) ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT id, title, url, image_url, published_date, source, sent_in_digest, created_at
		FROM articles
		WHERE sent_in_digest = FALSE AND published_date >= ?
		ORDER BY published_date DESC`, cutoff.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanArticles(rows)
}

// MarkSentInDigest flags the given articles as delivered, in one batch.
func (s *ArticleService) MarkSentInDigest(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.Exec("UPDATE articles SET sent_in_digest = TRUE WHERE id IN ("+placeholders+")", args...)
	return err
}

// RecentArticles lists articles published on or after the given date,
// newest first, for the dashboard.
func (s *ArticleService) RecentArticles(since time.Time, limit int) ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT id, title, url, image_url, published_date, source, sent_in_digest, created_at
		FROM articles
		WHERE published_date >= ?
		ORDER BY published_date DESC, created_at DESC
		LIMIT ?`, since.Format(time.DateOnly), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanArticles(rows)
}

// scanArticles is a helper to scan rows into a slice of Articles.
func (s *ArticleService) scanArticles(rows *sql.Rows) ([]models.Article, error) {
	var articles []models.Article
	for rows.Next() {
		var article models.Article
		var imageURL sql.NullString
		var published string
		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.URL,
			&imageURL,
			&published,
			&article.Source,
			&article.SentInDigest,
			&article.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if imageURL.Valid {
			article.ImageURL = imageURL.String
		}
		date, err := time.ParseInLocation(time.DateOnly, published, time.Local)
		if err != nil {
			return nil, fmt.Errorf("bad published_date for article %s: %w", article.ID, err)
		}
		article.PublishedDate = date
		articles = append(articles, article)
	}
	return articles, rows.Err()
}
