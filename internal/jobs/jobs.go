package jobs

import (
	"time"

	"github.com/google/uuid"
)

// a Job is the core representation of a unit of asynchronous work carried on
// the queue.

type Job struct {
	ID        string    `json:"id"`
	Type      JobType   `json:"type"`
	Payload   []byte    `json:"payload"` // raw json
	Attempts  int       `json:"attempts"`
	MaxTries  int       `json:"maxTries"`
	CreatedAt time.Time `json:"createdAt"`
}

// creation of a new job with defaults

func NewJob(t JobType, payloadJSON []byte) (Job, error) {
	if !t.IsValid() {
		return Job{}, ErrInvalidJobType
	}

	j := Job{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payloadJSON,
		Attempts:  0,
		MaxTries:  5,
		CreatedAt: time.Now().UTC(),
	}

	return j, nil
}
