package tasks

import (
	"context"
	"log/slog"

	"github.com/oncofeed/oncofeed/app/feed"
	"github.com/oncofeed/oncofeed/app/ingest"
)

// ProcessItemsTask ingests the items a subscription request did not
// process synchronously. The API responds as soon as the first batch is
// stored; this task catches the tail up in the background.
type ProcessItemsTask struct {
	Task
	service *ingest.Service
	items   []feed.Item
}

func NewProcessItemsTask(service *ingest.Service, feedID string, items []feed.Item) *ProcessItemsTask {
	return &ProcessItemsTask{
		Task:    NewTask(TaskTypeProcessItems, feedID),
		service: service,
		items:   items,
	}
}

func (t *ProcessItemsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	processed := t.service.ProcessItems(ctx, t.FeedID, t.items)

	slog.Info("Task completed",
		"type", "ProcessItems",
		"feed_id", t.FeedID,
		"duration", t.GetDuration(),
		"total", len(t.items),
		"new", processed)

	return nil
}
