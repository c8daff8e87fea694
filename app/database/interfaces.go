package database

import (
	"context"
	"time"
)

type FeedRepository interface {
	GetFeed(ctx context.Context, id string) (*Feed, error)
	GetFeedByURL(ctx context.Context, url string) (*Feed, error)
	ListFeeds(ctx context.Context) ([]Feed, error)
	ListFeedsDueForRefresh(ctx context.Context, olderThan time.Time) ([]Feed, error)
	GetFeedCount(ctx context.Context) (int, error)

	InsertFeed(ctx context.Context, feed Feed) error
	UpdateFeedRefresh(ctx context.Context, id string, fetchedAt time.Time, addedArticles int) error
}

type ArticleRepository interface {
	ArticleExists(ctx context.Context, feedID, url string) (bool, error)
	InsertArticle(ctx context.Context, article Article) error
	ListArticlesByFeed(ctx context.Context, feedID string, limit int) ([]Article, error)
	GetArticleCount(ctx context.Context) (int, error)
}

type CategoryRepository interface {
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
