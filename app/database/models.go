package database

import (
	"time"
)

const (
	FeedStatusActive = "active"
	FeedStatusError  = "error"
)

type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Feed struct {
	ID            string // UUID
	Title         string
	URL           string // unique per feed
	Description   string
	CategoryID    string
	Status        string
	ArticleCount  int
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Article struct {
	ID             string // UUID
	FeedID         string
	Title          string // truncated to 255 chars before insert
	Summary        string
	Content        string
	URL            string // dedupe key within a feed
	Author         string // truncated to 100 chars, optional
	PublishedAt    *time.Time
	RelevanceScore float64 // 0..1
	Keywords       []string
	KeyPoints      []string
	CreatedAt      time.Time
}
