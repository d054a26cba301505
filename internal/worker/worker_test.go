package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-poster/backend/internal/copygen"
	"github.com/campus-poster/backend/internal/models"
	"github.com/campus-poster/backend/pkg/queue"
)

type fakeStore struct {
	mu      sync.Mutex
	posters map[uuid.UUID]*models.Poster
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Poster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posters[id]
	if !ok {
		return nil, errors.New("poster not found")
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) UpdateCopies(_ context.Context, id uuid.UUID, copies copygen.CopyResult, source copygen.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posters[id].Copies = &copies
	s.posters[id].CopySource = string(source)
	return nil
}

func (s *fakeStore) copies(id uuid.UUID) *copygen.CopyResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posters[id].Copies
}

type fakeJobs struct {
	mu      sync.Mutex
	pending []*queue.Job
	retried []*queue.Job
}

func (f *fakeJobs) Dequeue(ctx context.Context) (*queue.Job, error) {
	f.mu.Lock()
	if len(f.pending) > 0 {
		job := f.pending[0]
		f.pending = f.pending[1:]
		f.mu.Unlock()
		return job, nil
	}
	f.mu.Unlock()
	select {
	case <-time.After(5 * time.Millisecond):
	case <-ctx.Done():
	}
	return nil, nil
}

func (f *fakeJobs) Retry(_ context.Context, job *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.Attempt++
	f.retried = append(f.retried, job)
	return nil
}

func (f *fakeJobs) retriedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.retried)
}

func copyJob(t *testing.T, id uuid.UUID) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(queue.CopyRegeneratePayload{PosterID: id})
	require.NoError(t, err)
	return &queue.Job{ID: uuid.NewString(), Type: queue.JobTypeCopyRegenerate, Payload: raw}
}

func newFixture() (*fakeStore, *models.Poster, *copygen.Pipeline) {
	p := &models.Poster{ID: uuid.New(), Title: "夜跑", Time: "2024-03-15T20:00", Location: "操场", Organizer: "跑团"}
	store := &fakeStore{posters: map[uuid.UUID]*models.Poster{p.ID: p}}
	pipeline := copygen.NewPipeline(nil, copygen.Settings{Location: time.UTC})
	return store, p, pipeline
}

func TestProcess(t *testing.T) {
	store, poster, pipeline := newFixture()
	proc := NewCopyProcessor(store, pipeline, &fakeJobs{}, nil)

	require.NoError(t, proc.Process(context.Background(), copyJob(t, poster.ID)))
	got := store.copies(poster.ID)
	require.NotNil(t, got)
	assert.Equal(t, copygen.Template(poster.Event(), pipeline.Settings()), *got)
	assert.Equal(t, string(copygen.SourceTemplate), store.posters[poster.ID].CopySource)
}

func TestProcessErrors(t *testing.T) {
	store, _, pipeline := newFixture()
	proc := NewCopyProcessor(store, pipeline, &fakeJobs{}, nil)
	ctx := context.Background()

	assert.Error(t, proc.Process(ctx, &queue.Job{Type: "other"}))
	assert.Error(t, proc.Process(ctx, &queue.Job{Type: queue.JobTypeCopyRegenerate, Payload: json.RawMessage(`"x"`)}))
	assert.Error(t, proc.Process(ctx, copyJob(t, uuid.New())))
}

func TestRunProcessesAndRetries(t *testing.T) {
	store, poster, pipeline := newFixture()
	jobs := &fakeJobs{pending: []*queue.Job{copyJob(t, uuid.New()), copyJob(t, poster.ID)}}
	proc := NewCopyProcessor(store, pipeline, jobs, nil)
	proc.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		proc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return store.copies(poster.ID) != nil && jobs.retriedCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
