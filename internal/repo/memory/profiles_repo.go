package memory

import (
	"context"
	"sync"
	"time"

	"github.com/olamidek/coursehub/internal/domain/profile"
)

type ProfilesRepo struct {
	mu    sync.RWMutex
	items map[string]profile.Profile
}

func NewProfilesRepo() *ProfilesRepo {
	return &ProfilesRepo{
		items: make(map[string]profile.Profile),
	}
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}

	return p, nil
}

func (r *ProfilesRepo) Create(ctx context.Context, id, fullName, phone string) error {
	now := time.Now().UTC()

	r.mu.Lock()
	r.items[id] = profile.Profile{
		ID:        id,
		FullName:  fullName,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.mu.Unlock()

	return nil
}

func (r *ProfilesRepo) Update(ctx context.Context, id, fullName, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return profile.ErrNotFound
	}

	p.FullName = fullName
	p.Phone = phone
	p.UpdatedAt = time.Now().UTC()
	r.items[id] = p

	return nil
}

// SetAdmin flips the persisted admin flag. Test helper.
func (r *ProfilesRepo) SetAdmin(id string, isAdmin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		p = profile.Profile{ID: id}
	}
	p.IsAdmin = isAdmin
	r.items[id] = p
}
