package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/srushti1125/techdigest/internal/models"
	"github.com/srushti1125/techdigest/internal/services"
)

// ArticleHandler handles HTTP requests for browsing stored articles.
type ArticleHandler struct {
	service services.ArticleServiceProvider
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(service services.ArticleServiceProvider) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// GetRecent lists recent articles, newest first. Query params: days
// (lookback window, default 7) and limit (default 50).
func (h *ArticleHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		days = 7
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	since := time.Now().AddDate(0, 0, -days)
	articles, err := h.service.RecentArticles(since, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve articles")
		http.Error(w, "Failed to retrieve articles", http.StatusInternalServerError)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(articles)
}
