package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/oncofeed/oncofeed/app/database"
	"github.com/oncofeed/oncofeed/app/enrichment"
	"github.com/oncofeed/oncofeed/app/feed"
)

const (
	// SyncItemLimit caps how many items AddFeed processes before
	// responding; the remainder is handed to a background task.
	SyncItemLimit = 10

	maxTitleLength  = 255
	maxAuthorLength = 100
)

type Service struct {
	fetcher       *feed.Fetcher
	parser        *feed.Parser
	classifier    *feed.Classifier
	pageExtractor *feed.PageExtractor
	enricher      *enrichment.Enricher

	feedRepo     database.FeedRepository
	articleRepo  database.ArticleRepository
	categoryRepo database.CategoryRepository

	locksMu sync.Mutex
	locks   map[string]*feedLock
}

// feedLock is a reference-counted mutex: the map entry is dropped when the
// last holder releases, so the lock table stays bounded by the number of
// feeds refreshing at any moment rather than every feed ever touched.
type feedLock struct {
	sync.Mutex
	refs int
}

func NewService(
	fetcher *feed.Fetcher,
	parser *feed.Parser,
	classifier *feed.Classifier,
	pageExtractor *feed.PageExtractor,
	enricher *enrichment.Enricher,
	feedRepo database.FeedRepository,
	articleRepo database.ArticleRepository,
	categoryRepo database.CategoryRepository,
) *Service {
	return &Service{
		fetcher:       fetcher,
		parser:        parser,
		classifier:    classifier,
		pageExtractor: pageExtractor,
		enricher:      enricher,
		feedRepo:      feedRepo,
		articleRepo:   articleRepo,
		categoryRepo:  categoryRepo,
		locks:         map[string]*feedLock{},
	}
}

// AddFeedResult reports what a successful subscription produced.
// Remaining holds items past SyncItemLimit; the caller is expected to
// enqueue them for background processing.
type AddFeedResult struct {
	Feed           *database.Feed
	ParsedCount    int
	ProcessedCount int
	Remaining      []feed.Item
	Message        string
}

func (s *Service) AddFeed(ctx context.Context, rawURL string) (*AddFeedResult, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	data, err := s.fetcher.Run(ctx, rawURL)
	if err != nil {
		return nil, mapFetchError(err)
	}

	parsed, err := s.parser.Run(data)
	if err != nil {
		return nil, &Error{Code: CodeParseError, Message: "Feed document could not be parsed", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	if parsed.HasPlaceholderTitle() {
		return nil, newError(CodeUnextractableTitle, http.StatusBadRequest, "Could not extract a feed title from this document")
	}

	categoryName := s.classifier.Run(parsed.Title, parsed.Description)
	category, err := s.categoryRepo.GetCategoryByName(ctx, categoryName)
	if err != nil {
		return nil, internalError("failed to look up category", err)
	}
	if category == nil {
		return nil, newError(CodeCategoryNotFound, http.StatusInternalServerError,
			fmt.Sprintf("Category %q is not provisioned", categoryName))
	}

	existing, err := s.feedRepo.GetFeedByURL(ctx, rawURL)
	if err != nil {
		return nil, internalError("failed to check for existing feed", err)
	}
	if existing != nil {
		return nil, newError(CodeDuplicateFeed, http.StatusConflict, "This feed is already subscribed")
	}

	now := time.Now().UTC()
	feedRecord := database.Feed{
		ID:            uuid.NewString(),
		Title:         truncate(parsed.Title, maxTitleLength),
		URL:           rawURL,
		Description:   parsed.Description,
		CategoryID:    category.ID,
		Status:        database.FeedStatusActive,
		ArticleCount:  len(parsed.Items),
		LastFetchedAt: &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.feedRepo.InsertFeed(ctx, feedRecord); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, newError(CodeDuplicateFeed, http.StatusConflict, "This feed is already subscribed")
		}
		return nil, internalError("failed to persist feed", err)
	}

	syncItems := parsed.Items
	var remaining []feed.Item
	if len(syncItems) > SyncItemLimit {
		remaining = syncItems[SyncItemLimit:]
		syncItems = syncItems[:SyncItemLimit]
	}
	processed := s.ProcessItems(ctx, feedRecord.ID, syncItems)

	slog.Info("feed added", "feed_id", feedRecord.ID, "title", feedRecord.Title,
		"category", categoryName, "items", len(parsed.Items), "processed", processed)

	return &AddFeedResult{
		Feed:           &feedRecord,
		ParsedCount:    len(parsed.Items),
		ProcessedCount: processed,
		Remaining:      remaining,
		Message:        fmt.Sprintf("Feed added with %d articles", len(parsed.Items)),
	}, nil
}

// RefreshFeed re-fetches a subscribed feed and ingests whatever items are
// new. Refreshes of the same feed are serialized; distinct feeds proceed
// concurrently.
func (s *Service) RefreshFeed(ctx context.Context, feedID string) (int, error) {
	unlock := s.lockFeed(feedID)
	defer unlock()

	feedRecord, err := s.feedRepo.GetFeed(ctx, feedID)
	if err != nil {
		return 0, internalError("failed to load feed", err)
	}
	if feedRecord == nil {
		return 0, newError(CodeFeedNotFound, http.StatusNotFound, "Feed not found")
	}

	data, err := s.fetcher.Run(ctx, feedRecord.URL)
	if err != nil {
		return 0, mapFetchError(err)
	}

	parsed, err := s.parser.Run(data)
	if err != nil {
		return 0, &Error{Code: CodeParseError, Message: "Feed document could not be parsed", HTTPStatus: http.StatusBadRequest, Err: err}
	}

	processed := s.ProcessItems(ctx, feedID, parsed.Items)

	if err := s.feedRepo.UpdateFeedRefresh(ctx, feedID, time.Now().UTC(), processed); err != nil {
		return processed, internalError("failed to record refresh", err)
	}

	slog.Info("feed refreshed", "feed_id", feedID, "items", len(parsed.Items), "processed", processed)
	return processed, nil
}

// ProcessItems ingests a batch of parsed items for a feed and returns how
// many new articles were stored. Item-level failures are logged and
// skipped; they never abort the batch.
func (s *Service) ProcessItems(ctx context.Context, feedID string, items []feed.Item) int {
	processed := 0
	for _, item := range items {
		if s.processItem(ctx, feedID, item) {
			processed++
		}
	}
	return processed
}

func (s *Service) processItem(ctx context.Context, feedID string, item feed.Item) bool {
	if item.Link == "" {
		return false
	}

	exists, err := s.articleRepo.ArticleExists(ctx, feedID, item.Link)
	if err != nil {
		slog.Error("failed to check for existing article", "feed_id", feedID, "url", item.Link, "error", err)
		return false
	}
	if exists {
		return false
	}

	result := s.enricher.Run(ctx, item.Title, item.Description)

	article := database.Article{
		ID:             uuid.NewString(),
		FeedID:         feedID,
		Title:          truncate(item.Title, maxTitleLength),
		Summary:        result.Summary,
		Content:        item.Description,
		URL:            item.Link,
		Author:         truncate(item.Author, maxAuthorLength),
		PublishedAt:    parsePublishedAt(item.PublishedAtRaw),
		RelevanceScore: result.Score,
		Keywords:       result.Keywords,
		KeyPoints:      result.KeyPoints,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.articleRepo.InsertArticle(ctx, article); err != nil {
		if database.IsUniqueViolation(err) {
			slog.Debug("article already stored", "feed_id", feedID, "url", item.Link)
		} else {
			slog.Error("failed to store article", "feed_id", feedID, "url", item.Link, "error", err)
		}
		return false
	}
	return true
}

// ExtractMetadata fetches an arbitrary web page and pulls out its
// dashboard-facing metadata. It shares the fetcher with feed ingestion,
// so the same timeout and status classification apply.
func (s *Service) ExtractMetadata(ctx context.Context, rawURL string) (*feed.PageMetadata, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	data, err := s.fetcher.Run(ctx, rawURL)
	if err != nil {
		return nil, mapFetchError(err)
	}

	meta, err := s.pageExtractor.Run(data, mustParseURL(rawURL))
	if err != nil {
		return nil, &Error{Code: CodeParseError, Message: "Page content could not be processed", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	return meta, nil
}

func (s *Service) lockFeed(feedID string) func() {
	s.locksMu.Lock()
	lock, ok := s.locks[feedID]
	if !ok {
		lock = &feedLock{}
		s.locks[feedID] = lock
	}
	lock.refs++
	s.locksMu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()

		s.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, feedID)
		}
		s.locksMu.Unlock()
	}
}

func validateURL(rawURL string) *Error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return newError(CodeInvalidURL, http.StatusBadRequest, "URL is not valid")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return newError(CodeUnsupportedScheme, http.StatusBadRequest, "Only http and https URLs are supported")
	}
	return nil
}

func mustParseURL(rawURL string) *url.URL {
	parsed, _ := url.Parse(rawURL)
	return parsed
}

func parsePublishedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		slog.Debug("unparseable publication date", "value", raw)
		return nil
	}
	utc := parsed.UTC()
	return &utc
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
