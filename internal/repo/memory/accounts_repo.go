package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/olamidek/coursehub/internal/domain/account"
)

type AccountsRepo struct {
	mu      sync.RWMutex
	byEmail map[string]account.Account
}

func NewAccountsRepo() *AccountsRepo {
	return &AccountsRepo{
		byEmail: make(map[string]account.Account),
	}
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	r.mu.RLock()
	a, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return account.Account{}, account.ErrNotFound
	}

	return a, nil
}

func (r *AccountsRepo) Create(ctx context.Context, email, passwordHash string) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return account.Account{}, account.ErrEmailAlreadyUsed
	}

	now := time.Now().UTC()
	a := account.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byEmail[email] = a

	return a, nil
}
