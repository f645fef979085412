package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/observability"
)

type ProductsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProductsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProductsRepo {
	return &ProductsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProductsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// ListNewestFirst returns the whole catalog ordered by creation time,
// descending. An empty table yields an empty, non-nil slice.
func (r *ProductsRepo) ListNewestFirst(ctx context.Context) ([]product.Product, error) {
	var out []product.Product

	err := r.observe("products.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, price, image, description, badge, created_at
			FROM products
			ORDER BY created_at DESC, id DESC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]product.Product, 0, 16)

		for rows.Next() {
			var p product.Product

			err = rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Description, &p.Badge, &p.CreatedAt)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (product.Product, error) {
	var p product.Product

	err := r.observe("products.get", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, price, image, description, badge, created_at
			FROM products WHERE id = $1`, id,
		).Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Description, &p.Badge, &p.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}

		return product.Product{}, err
	}

	return p, nil
}

// Create inserts a new product and returns the persisted record, including the
// store-assigned identifier. The add flow requires the returned record.
func (r *ProductsRepo) Create(ctx context.Context, req product.CreateProductRequest) (product.Product, error) {
	var p product.Product

	err := r.observe("products.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO products(name, price, image, description, badge)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, name, price, image, description, badge, created_at`,
			req.Name, req.Price, req.Image, req.Description, req.BadgeOrNil(),
		).Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Description, &p.Badge, &p.CreatedAt)
	})

	if err != nil {
		return product.Product{}, err
	}

	return p, nil
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	return r.observe("products.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return product.ErrNotFound
		}

		return nil
	})
}

// BulkInsert inserts a batch of products, letting the store assign
// identifiers. Used by restore-defaults with the id-stripped seed set.
func (r *ProductsRepo) BulkInsert(ctx context.Context, products []product.Product) error {
	return r.observe("products.bulk_insert", func() error {
		batch := &pgx.Batch{}

		for _, p := range products {
			batch.Queue(
				`INSERT INTO products(name, price, image, description, badge)
				VALUES ($1, $2, $3, $4, $5)`,
				p.Name, p.Price, p.Image, p.Description, p.Badge,
			)
		}

		results := r.pool.SendBatch(ctx, batch)
		defer results.Close()

		for range products {
			if _, err := results.Exec(); err != nil {
				return err
			}
		}

		return nil
	})
}
