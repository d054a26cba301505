package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-poster/backend/internal/copygen"
	"github.com/campus-poster/backend/internal/models"
	"github.com/campus-poster/backend/pkg/queue"
)

// PosterStore is the subset of the poster repository the worker needs.
type PosterStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Poster, error)
	UpdateCopies(ctx context.Context, id uuid.UUID, copies copygen.CopyResult, source copygen.Source) error
}

// Generator produces copy for an event.
type Generator interface {
	GenerateWithSource(ctx context.Context, ev copygen.EventData) (copygen.CopyResult, copygen.Source)
}

// JobSource hands out jobs and takes back failed ones.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// CopyProcessor regenerates stored poster copy: load poster, run the pipeline, save the result.
type CopyProcessor struct {
	store     PosterStore
	generator Generator
	jobs      JobSource
	backoff   time.Duration
	logger    *zap.Logger
}

// NewCopyProcessor creates a copy regeneration processor.
func NewCopyProcessor(store PosterStore, generator Generator, jobs JobSource, logger *zap.Logger) *CopyProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CopyProcessor{store: store, generator: generator, jobs: jobs, backoff: queue.RetryBackoff, logger: logger}
}

// Process executes one copy regeneration job.
func (p *CopyProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeCopyRegenerate {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.CopyRegeneratePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	poster, err := p.store.GetByID(ctx, payload.PosterID)
	if err != nil {
		return fmt.Errorf("load poster %s: %w", payload.PosterID, err)
	}

	copies, source := p.generator.GenerateWithSource(ctx, poster.Event())
	if err := p.store.UpdateCopies(ctx, poster.ID, copies, source); err != nil {
		return fmt.Errorf("update copies: %w", err)
	}

	p.logger.Info("poster copy regenerated", zap.String("poster_id", poster.ID.String()), zap.String("source", string(source)))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *CopyProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("copy worker stopping")
			return
		default:
		}

		job, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.jobs.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *CopyProcessor) sleep(ctx context.Context) {
	select {
	case <-time.After(p.backoff):
	case <-ctx.Done():
	}
}
