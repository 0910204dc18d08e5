package queue

import (
	"context"
	"log"
	"sync"
	"time"
)

// Topics
const (
	TopicCampaignRuns   = "campaign_runs"
	TopicCampaignEvents = "campaign_events"
)

// RunJob asks the worker to start or stop a campaign run.
type RunJob struct {
	CampaignID int64  `json:"campaign_id"`
	Op         string `json:"op"` // "start" or "stop"
}

// LocalRunQueue runs jobs in-process, for single-binary deployments and
// local development without a broker. Production uses the AMQP publisher
// with a separate worker process.
type LocalRunQueue struct {
	mu       sync.Mutex
	handlers []func(ctx context.Context, job RunJob) error

	maxRetries int
	backoff    time.Duration

	// retryable gates redelivery. A run that reached the engine already
	// mutated state and must not re-execute; only failures the caller
	// marks safe (job never started) are tried again. nil retries nothing.
	retryable func(error) bool
}

func NewLocalRunQueue(retryable func(error) bool) *LocalRunQueue {
	return &LocalRunQueue{
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		retryable:  retryable,
	}
}

// PublishRun hands the job to every subscriber on its own goroutine.
func (q *LocalRunQueue) PublishRun(job RunJob) error {
	q.mu.Lock()
	handlers := q.handlers
	q.mu.Unlock()

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}
	return nil
}

// processJob retries redeliverable failures with backoff, then drops
// the job.
func (q *LocalRunQueue) processJob(handler func(ctx context.Context, job RunJob) error, job RunJob) {
	for attempt := 1; ; attempt++ {
		err := handler(context.Background(), job)
		if err == nil {
			return
		}

		log.Printf("Run job failed (attempt %d/%d): %+v, error: %v\n", attempt, q.maxRetries, job, err)
		if q.retryable == nil || !q.retryable(err) {
			log.Printf("Run job not redeliverable, dropping: %+v\n", job)
			return
		}
		if attempt >= q.maxRetries {
			log.Printf("Run job permanently failed after %d attempts: %+v\n", q.maxRetries, job)
			return
		}

		time.Sleep(time.Duration(attempt) * q.backoff)
	}
}

// Subscribe adds a handler for run jobs.
func (q *LocalRunQueue) Subscribe(handler func(ctx context.Context, job RunJob) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}
