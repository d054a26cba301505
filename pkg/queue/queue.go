package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// QueueCopies is the Redis list key for copy regeneration jobs.
	QueueCopies = "worker:copies"
	// QueueDLQ is the dead-letter queue for failed jobs after retries.
	QueueDLQ = "worker:dlq"
	// DefaultMaxRetries is the number of attempts before a job is moved to the DLQ.
	DefaultMaxRetries = 3
	// RetryBackoff is the delay between retries.
	RetryBackoff = 5 * time.Second
	// pollTimeout bounds each blocking pop so cancellation is noticed.
	pollTimeout = 2 * time.Second
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypeCopyRegenerate JobType = "copy_regenerate"
)

// CopyRegeneratePayload asks the worker to run the copy pipeline again for a stored poster.
type CopyRegeneratePayload struct {
	PosterID uuid.UUID `json:"poster_id"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues jobs via Redis.
type Queue struct {
	client     *redis.Client
	maxRetries int
	logger     *zap.Logger
}

// NewQueue creates a new Redis-backed job queue. maxRetries <= 0 uses DefaultMaxRetries.
func NewQueue(client *redis.Client, maxRetries int, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Queue{client: client, maxRetries: maxRetries, logger: logger}
}

// EnqueueCopyRegenerate enqueues a copy regeneration job and returns its ID.
func (q *Queue) EnqueueCopyRegenerate(ctx context.Context, payload CopyRegeneratePayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	job := Job{
		ID:        uuid.New().String(),
		Type:      JobTypeCopyRegenerate,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, QueueCopies, raw).Err(); err != nil {
		return "", fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued copy job", zap.String("job_id", job.ID), zap.String("poster_id", payload.PosterID.String()))
	return job.ID, nil
}

// Dequeue waits up to the poll timeout for a job. It returns (nil, nil) when nothing arrived or the entry was unreadable.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.client.BLPop(ctx, pollTimeout, QueueCopies).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid job payload", zap.String("raw", result[1]), zap.Error(err))
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues a job with incremented attempt. If attempt >= max retries, pushes to DLQ instead.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if job.Attempt >= q.maxRetries {
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			q.logger.Error("dlq push failed", zap.Error(err), zap.String("job_id", job.ID))
			return err
		}
		q.logger.Warn("job moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return nil
	}
	if err := q.client.RPush(ctx, QueueCopies, raw).Err(); err != nil {
		return err
	}
	q.logger.Info("job retried", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	return nil
}
