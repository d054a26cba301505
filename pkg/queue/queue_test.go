package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T, maxRetries int) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewQueue(client, maxRetries, nil), mr
}

func TestEnqueueDequeue(t *testing.T) {
	q, _ := newTestQueue(t, 0)
	ctx := context.Background()
	posterID := uuid.New()

	id, err := q.EnqueueCopyRegenerate(ctx, CopyRegeneratePayload{PosterID: posterID})
	require.NoError(t, err)

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, JobTypeCopyRegenerate, job.Type)

	var payload CopyRegeneratePayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, posterID, payload.PosterID)
}

func TestDequeueSkipsGarbage(t *testing.T) {
	q, mr := newTestQueue(t, 0)
	_, err := mr.Lpush(QueueCopies, "not json")
	require.NoError(t, err)

	job, err := q.Dequeue(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestRetryMovesToDLQ(t *testing.T) {
	q, mr := newTestQueue(t, 2)
	ctx := context.Background()
	job := &Job{ID: "j1", Type: JobTypeCopyRegenerate, Payload: json.RawMessage(`{}`)}

	require.NoError(t, q.Retry(ctx, job))
	assert.Equal(t, 1, job.Attempt)
	copies, err := mr.List(QueueCopies)
	require.NoError(t, err)
	assert.Len(t, copies, 1)

	require.NoError(t, q.Retry(ctx, job))
	dlq, err := mr.List(QueueDLQ)
	require.NoError(t, err)
	assert.Len(t, dlq, 1)
}
