package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olamidek/coursehub/internal/domain/account"
	"github.com/olamidek/coursehub/internal/observability"
)

type AccountsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAccountsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AccountsRepo {
	return &AccountsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *AccountsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	var a account.Account

	err := r.observe("accounts.get_by_email", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, email, password_hash, created_at, updated_at
			FROM accounts WHERE email = $1`, email,
		).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}

		return account.Account{}, err
	}

	return a, nil
}

func (r *AccountsRepo) Create(ctx context.Context, email, passwordHash string) (account.Account, error) {
	now := time.Now().UTC()

	a := account.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := r.observe("accounts.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO accounts(id, email, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return account.Account{}, account.ErrEmailAlreadyUsed
		}

		return account.Account{}, err
	}

	return a, nil
}
