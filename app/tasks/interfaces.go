package tasks

// TaskSchedulerInterface is what the application wires against: a worker
// pool with a bounded queue and periodic refresh scheduling.
// Example usage:
//
//	scheduler := NewScheduler(ingestService, feedRepo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRefreshFeedTask(ingestService, feedID))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
