package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olamidek/coursehub/internal/domain/profile"
	"github.com/olamidek/coursehub/internal/observability"
)

type ProfilesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProfilesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProfilesRepo {
	return &ProfilesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProfilesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// GetByID returns profile.ErrNotFound when no row exists. Callers resolving a
// session treat that as "no profile yet", not a failure.
func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	var p profile.Profile

	err := r.observe("profiles.get", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, full_name, phone, is_admin, created_at, updated_at
			FROM profiles WHERE id = $1`, id,
		).Scan(&p.ID, &p.FullName, &p.Phone, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}

		return profile.Profile{}, err
	}

	return p, nil
}

// Create inserts the profile row at sign-up, carrying the attached metadata.
func (r *ProfilesRepo) Create(ctx context.Context, id, fullName, phone string) error {
	return r.observe("profiles.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO profiles(id, full_name, phone, is_admin, created_at, updated_at)
			VALUES ($1, $2, $3, FALSE, NOW(), NOW())`,
			id, fullName, phone,
		)
		return err
	})
}

func (r *ProfilesRepo) Update(ctx context.Context, id, fullName, phone string) error {
	return r.observe("profiles.update", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE profiles
			SET full_name = $2,
					phone = $3,
					updated_at = NOW()
			WHERE id = $1`,
			id, fullName, phone,
		)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return profile.ErrNotFound
		}

		return nil
	})
}
