package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olamidek/coursehub/internal/config"
	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/repo/postgres"
)

// EnsureSeedCatalog populates an empty products table with the built-in seed
// set so a fresh deployment has something on the shelf. A non-empty table is
// left alone.
func EnsureSeedCatalog(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, repo *postgres.ProductsRepo) error {
	if !cfg.SeedCatalog {
		return nil
	}

	var count int

	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)

	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	return repo.BulkInsert(ctx, product.SeedForInsert())
}
