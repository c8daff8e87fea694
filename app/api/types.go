package api

import (
	"time"

	"github.com/oncofeed/oncofeed/app/database"
	"github.com/oncofeed/oncofeed/app/ingest"
	"github.com/oncofeed/oncofeed/app/tasks"
)

type Handler struct {
	service      *ingest.Service
	feedRepo     database.FeedRepository
	articleRepo  database.ArticleRepository
	categoryRepo database.CategoryRepository
	scheduler    tasks.TaskSchedulerInterface
}

type addFeedRequest struct {
	URL string `json:"url" binding:"required"`
}

type extractMetadataRequest struct {
	URL string `json:"url" binding:"required"`
}

type feedResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Description   string     `json:"description,omitempty"`
	CategoryID    string     `json:"category_id"`
	Status        string     `json:"status"`
	ArticleCount  int        `json:"article_count"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type articleResponse struct {
	ID             string     `json:"id"`
	FeedID         string     `json:"feed_id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary,omitempty"`
	URL            string     `json:"url"`
	Author         string     `json:"author,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	RelevanceScore float64    `json:"relevance_score"`
	Keywords       []string   `json:"keywords"`
	KeyPoints      []string   `json:"key_points"`
}

func toFeedResponse(f database.Feed) feedResponse {
	return feedResponse{
		ID:            f.ID,
		Title:         f.Title,
		URL:           f.URL,
		Description:   f.Description,
		CategoryID:    f.CategoryID,
		Status:        f.Status,
		ArticleCount:  f.ArticleCount,
		LastFetchedAt: f.LastFetchedAt,
		CreatedAt:     f.CreatedAt,
	}
}

func toArticleResponse(a database.Article) articleResponse {
	return articleResponse{
		ID:             a.ID,
		FeedID:         a.FeedID,
		Title:          a.Title,
		Summary:        a.Summary,
		URL:            a.URL,
		Author:         a.Author,
		PublishedAt:    a.PublishedAt,
		RelevanceScore: a.RelevanceScore,
		Keywords:       a.Keywords,
		KeyPoints:      a.KeyPoints,
	}
}
