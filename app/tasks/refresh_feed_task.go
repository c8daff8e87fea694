package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oncofeed/oncofeed/app/ingest"
)

// RefreshFeedTask re-fetches a subscribed feed and ingests any items not
// yet stored. Enqueued periodically by the scheduler for feeds past their
// refresh interval, and on demand via the API.
type RefreshFeedTask struct {
	Task
	service *ingest.Service
}

func NewRefreshFeedTask(service *ingest.Service, feedID string) *RefreshFeedTask {
	return &RefreshFeedTask{
		Task:    NewTask(TaskTypeRefreshFeed, feedID),
		service: service,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	processed, err := t.service.RefreshFeed(ctx, t.FeedID)
	if err != nil {
		return fmt.Errorf("failed to refresh feed: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshFeed",
		"feed_id", t.FeedID,
		"duration", t.GetDuration(),
		"new", processed)

	return nil
}
