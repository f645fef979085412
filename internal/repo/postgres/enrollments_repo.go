package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olamidek/coursehub/internal/observability"
)

type EnrollmentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEnrollmentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EnrollmentsRepo {
	return &EnrollmentsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EnrollmentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// ListProductIDs returns every product the identity has purchased. Order is
// not guaranteed to match the catalog.
func (r *EnrollmentsRepo) ListProductIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string

	err := r.observe("enrollments.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT product_id FROM enrollments WHERE user_id = $1`, userID)

		if err != nil {
			return err
		}

		defer rows.Close()

		ids = make([]string, 0, 8)

		for rows.Next() {
			var id string

			if err = rows.Scan(&id); err != nil {
				return err
			}

			ids = append(ids, id)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Create records a purchase grant. Duplicate grants are idempotent.
func (r *EnrollmentsRepo) Create(ctx context.Context, userID, productID string) error {
	return r.observe("enrollments.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO enrollments(user_id, product_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, product_id) DO NOTHING`,
			userID, productID,
		)
		return err
	})
}

// Exists is used by the reconcile worker to verify an optimistic grant landed.
func (r *EnrollmentsRepo) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool

	err := r.observe("enrollments.exists", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT EXISTS(
				SELECT 1 FROM enrollments WHERE user_id = $1 AND product_id = $2
			)`, userID, productID,
		).Scan(&exists)
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}
