package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type feedRepository struct {
	db *DB
}

func NewFeedRepository(db *DB) FeedRepository {
	return &feedRepository{db: db}
}

const feedColumns = `id, title, url, description, category_id, status, article_count, last_fetched_at, created_at, updated_at`

func (r *feedRepository) GetFeed(ctx context.Context, id string) (*Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		WHERE id = ?
	`, id)

	return scanFeed(row)
}

func (r *feedRepository) GetFeedByURL(ctx context.Context, url string) (*Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		WHERE url = ?
	`, url)

	return scanFeed(row)
}

func (r *feedRepository) ListFeeds(ctx context.Context) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	return scanFeeds(rows)
}

func (r *feedRepository) ListFeedsDueForRefresh(ctx context.Context, olderThan time.Time) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedColumns+`
		FROM feeds
		WHERE status = ?
		  AND (last_fetched_at IS NULL OR last_fetched_at < ?)
		ORDER BY last_fetched_at ASC
	`, FeedStatusActive, olderThan.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds due for refresh: %w", err)
	}
	defer rows.Close()

	return scanFeeds(rows)
}

func (r *feedRepository) GetFeedCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feeds`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

func (r *feedRepository) InsertFeed(ctx context.Context, feed Feed) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (id, title, url, description, category_id, status, article_count, last_fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, feed.ID, feed.Title, feed.URL, feed.Description, feed.CategoryID,
		feed.Status, feed.ArticleCount, feed.LastFetchedAt, now, now)

	if err != nil {
		return fmt.Errorf("failed to insert feed: %w", err)
	}

	return nil
}

// UpdateFeedRefresh bumps last_fetched_at and increments the article
// counter. The increment is additive: refresh accumulates over time, it
// never resets.
func (r *feedRepository) UpdateFeedRefresh(ctx context.Context, id string, fetchedAt time.Time, addedArticles int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE feeds
		SET last_fetched_at = ?, article_count = article_count + ?, updated_at = ?
		WHERE id = ?
	`, fetchedAt.UTC(), addedArticles, time.Now().UTC(), id)

	if err != nil {
		return fmt.Errorf("failed to update feed refresh state: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var feed Feed
	var lastFetched sql.NullTime

	err := row.Scan(&feed.ID, &feed.Title, &feed.URL, &feed.Description,
		&feed.CategoryID, &feed.Status, &feed.ArticleCount, &lastFetched,
		&feed.CreatedAt, &feed.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan feed: %w", err)
	}

	if lastFetched.Valid {
		feed.LastFetchedAt = &lastFetched.Time
	}

	return &feed, nil
}

func scanFeeds(rows *sql.Rows) ([]Feed, error) {
	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, *feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feeds: %w", err)
	}
	return feeds, nil
}
