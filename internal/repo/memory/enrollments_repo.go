package memory

import (
	"context"
	"sync"
)

type EnrollmentsRepo struct {
	mu    sync.RWMutex
	items map[string][]string // user id -> product ids
}

func NewEnrollmentsRepo() *EnrollmentsRepo {
	return &EnrollmentsRepo{
		items: make(map[string][]string),
	}
}

func (r *EnrollmentsRepo) ListProductIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.items[userID]
	out := make([]string, len(ids))
	copy(out, ids)

	return out, nil
}

func (r *EnrollmentsRepo) Create(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.items[userID] {
		if id == productID {
			return nil
		}
	}

	r.items[userID] = append(r.items[userID], productID)
	return nil
}

func (r *EnrollmentsRepo) Exists(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.items[userID] {
		if id == productID {
			return true, nil
		}
	}

	return false, nil
}
