package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type articleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) ArticleRepository {
	return &articleRepository{db: db}
}

// ArticleExists reports whether an article with this URL has already been
// ingested for the feed. The (feed_id, url) pair is the dedupe key.
func (r *articleRepository) ArticleExists(ctx context.Context, feedID, url string) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM articles WHERE feed_id = ? AND url = ? LIMIT 1
	`, feedID, url).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}

	return true, nil
}

func (r *articleRepository) InsertArticle(ctx context.Context, article Article) error {
	keywords, err := json.Marshal(emptyIfNil(article.Keywords))
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	keyPoints, err := json.Marshal(emptyIfNil(article.KeyPoints))
	if err != nil {
		return fmt.Errorf("failed to encode key points: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO articles (id, feed_id, title, summary, content, url, author,
			published_at, relevance_score, keywords, key_points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.ID, article.FeedID, article.Title, article.Summary, article.Content,
		article.URL, article.Author, article.PublishedAt, article.RelevanceScore,
		string(keywords), string(keyPoints), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

func (r *articleRepository) ListArticlesByFeed(ctx context.Context, feedID string, limit int) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, feed_id, title, summary, content, url, author,
		       published_at, relevance_score, keywords, key_points, created_at
		FROM articles
		WHERE feed_id = ?
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT ?
	`, feedID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		var publishedAt sql.NullTime
		var keywords, keyPoints string

		err := rows.Scan(&article.ID, &article.FeedID, &article.Title,
			&article.Summary, &article.Content, &article.URL, &article.Author,
			&publishedAt, &article.RelevanceScore, &keywords, &keyPoints,
			&article.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		if publishedAt.Valid {
			article.PublishedAt = &publishedAt.Time
		}
		if err := json.Unmarshal([]byte(keywords), &article.Keywords); err != nil {
			article.Keywords = nil
		}
		if err := json.Unmarshal([]byte(keyPoints), &article.KeyPoints); err != nil {
			article.KeyPoints = nil
		}

		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

func (r *articleRepository) GetArticleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure,
// the expected outcome when two ingestion runs race past the existence
// check for the same (feed_id, url).
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
