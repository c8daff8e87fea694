package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oncofeed/oncofeed/app/cfg"
	"github.com/oncofeed/oncofeed/app/database"
	"github.com/oncofeed/oncofeed/app/ingest"
	"github.com/oncofeed/oncofeed/app/tasks"
)

const defaultArticleLimit = 50

func NewHandler(service *ingest.Service, feedRepo database.FeedRepository,
	articleRepo database.ArticleRepository, categoryRepo database.CategoryRepository,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		service:      service,
		feedRepo:     feedRepo,
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		scheduler:    scheduler,
	}
}

func (h *Handler) AddFeed(c *gin.Context) {
	var req addFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Request body must include a url field",
		})
		return
	}

	result, err := h.service.AddFeed(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	if len(result.Remaining) > 0 {
		task := tasks.NewProcessItemsTask(h.service, result.Feed.ID, result.Remaining)
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue deferred item processing", "feed_id", result.Feed.ID, "items", len(result.Remaining), "error", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"feed":    toFeedResponse(*result.Feed),
		"message": result.Message,
	})
}

func (h *Handler) RefreshFeed(c *gin.Context) {
	id := c.Param("id")

	processed, err := h.service.RefreshFeed(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"processed_count": processed,
		"message":         "Feed refreshed",
	})
}

func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.ListFeeds(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list feeds"})
		return
	}

	out := make([]feedResponse, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, toFeedResponse(f))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "feeds": out})
}

func (h *Handler) ListFeedArticles(c *gin.Context) {
	id := c.Param("id")

	feed, err := h.feedRepo.GetFeed(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load feed"})
		return
	}
	if feed == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Feed not found"})
		return
	}

	limit := defaultArticleLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	articles, err := h.articleRepo.ListArticlesByFeed(c.Request.Context(), id, limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "feed_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list articles"})
		return
	}

	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "feed": toFeedResponse(*feed), "articles": out})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categoryRepo.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list categories"})
		return
	}

	out := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		out = append(out, gin.H{"id": cat.ID, "name": cat.Name})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "categories": out})
}

func (h *Handler) ExtractMetadata(c *gin.Context) {
	var req extractMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Request body must include a url field",
		})
		return
	}

	meta, err := h.service.ExtractMetadata(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "metadata": gin.H{
		"title":        meta.Title,
		"summary":      meta.Summary,
		"author":       meta.Author,
		"published_at": meta.PublishedAt,
		"keywords":     meta.Keywords,
	}})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(c.Request.Context()); err == nil {
		health["feeds"] = feedCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := gin.H{
		"version":   cfg.Get().Version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(c.Request.Context()); err == nil {
		stats["feed_count"] = feedCount
	}
	if articleCount, err := h.articleRepo.GetArticleCount(c.Request.Context()); err == nil {
		stats["article_count"] = articleCount
	}

	c.JSON(http.StatusOK, stats)
}

// respondError maps ingestion failures onto their contractual HTTP
// statuses; anything uncategorized is a 500.
func respondError(c *gin.Context, err error) {
	var ingestErr *ingest.Error
	if errors.As(err, &ingestErr) {
		c.JSON(ingestErr.HTTPStatus, gin.H{
			"success": false,
			"error":   ingestErr.Message,
			"details": string(ingestErr.Code),
		})
		return
	}

	slog.Error("Unhandled ingestion error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal server error",
	})
}
