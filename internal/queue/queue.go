package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/olamidek/coursehub/internal/jobs"
)

// ListKey is the redis list carrying pending jobs. Producers LPUSH, the worker
// BRPOPs, so jobs come off in enqueue order.
const ListKey = "coursehub:jobs"

var ErrEmpty = errors.New("queue is empty")

type Queue struct {
	redisdb *redis.Client
}

func New(redisdb *redis.Client) *Queue {
	return &Queue{redisdb: redisdb}
}

// Enqueue validates, encodes and pushes a job.
func (q *Queue) Enqueue(ctx context.Context, t jobs.JobType, payload any) (jobs.Job, error) {
	if err := jobs.ValidatePayload(t, payload); err != nil {
		return jobs.Job{}, err
	}

	raw, err := jobs.EncodePayload(t, payload)

	if err != nil {
		return jobs.Job{}, err
	}

	j, err := jobs.NewJob(t, raw)

	if err != nil {
		return jobs.Job{}, err
	}

	b, err := json.Marshal(j)

	if err != nil {
		return jobs.Job{}, fmt.Errorf("marshal job: %w", err)
	}

	if err := q.redisdb.LPush(ctx, ListKey, b).Err(); err != nil {
		return jobs.Job{}, fmt.Errorf("enqueue job: %w", err)
	}

	return j, nil
}

// Dequeue blocks up to timeout for the next job. Returns ErrEmpty when the
// wait expires with nothing to do.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (jobs.Job, error) {
	res, err := q.redisdb.BRPop(ctx, timeout, ListKey).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return jobs.Job{}, ErrEmpty
		}
		return jobs.Job{}, fmt.Errorf("dequeue job: %w", err)
	}

	// BRPop returns [key, value]
	if len(res) != 2 {
		return jobs.Job{}, fmt.Errorf("dequeue job: unexpected reply length %d", len(res))
	}

	var j jobs.Job

	if err := json.Unmarshal([]byte(res[1]), &j); err != nil {
		return jobs.Job{}, fmt.Errorf("%w: %v", jobs.ErrInvalidJobPayload, err)
	}

	return j, nil
}

// Requeue pushes a failed job back with its attempt count bumped.
func (q *Queue) Requeue(ctx context.Context, j jobs.Job) error {
	j.Attempts++

	b, err := json.Marshal(j)

	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	return q.redisdb.LPush(ctx, ListKey, b).Err()
}

// Depth reports the number of pending jobs.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.redisdb.LLen(ctx, ListKey).Result()
}
