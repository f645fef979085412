package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/olamidek/coursehub/internal/domain/product"
)

// ProductsRepo is an in-memory stand-in for the remote products table.
type ProductsRepo struct {
	mu    sync.RWMutex
	items map[string]product.Product
}

func NewProductsRepo() *ProductsRepo {
	return &ProductsRepo{
		items: make(map[string]product.Product),
	}
}

func (r *ProductsRepo) ListNewestFirst(ctx context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Product, 0, len(r.items))

	for _, p := range r.items {
		out = append(out, p)
	}

	// newest first, id as tiebreak for stable output
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) ||
				(out[j].CreatedAt.Equal(out[i].CreatedAt) && out[j].ID > out[i].ID) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}

	return out, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (product.Product, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return product.Product{}, product.ErrNotFound
	}

	return p, nil
}

func (r *ProductsRepo) Create(ctx context.Context, req product.CreateProductRequest) (product.Product, error) {
	p := product.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Badge:       req.BadgeOrNil(),
		CreatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()

	return p, nil
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return product.ErrNotFound
	}

	delete(r.items, id)
	return nil
}

func (r *ProductsRepo) BulkInsert(ctx context.Context, products []product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		r.items[p.ID] = p
	}

	return nil
}
