package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/cache"
	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/storefront"
)

const catalogCacheKey = "catalog:list"

type CatalogHandler struct {
	hub   *storefront.Hub
	cache *cache.Cache
}

func NewCatalogHandler(hub *storefront.Hub, c *cache.Cache) *CatalogHandler {
	return &CatalogHandler{hub: hub, cache: c}
}

// List serves the storefront catalog. Reads go through a short TTL cache so
// anonymous browsing does not hammer the store; the response always succeeds
// because load failures fall back to the seed set inside the controller.
func (h *CatalogHandler) List(ctx *gin.Context) {
	if h.cache != nil {
		if v, ok := h.cache.Get(catalogCacheKey); ok {
			if list, ok := v.([]product.Product); ok {
				RespondJSONWithETag(ctx, http.StatusOK, gin.H{"products": list})
				return
			}
		}
	}

	ctrl := controllerFor(ctx, h.hub)
	ctrl.LoadCatalog(ctx.Request.Context())

	list := ctrl.Catalog()

	if h.cache != nil {
		h.cache.Set(catalogCacheKey, list)
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"products": list})
}

// GetByID resolves one product from the already-loaded catalog.
func (h *CatalogHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	ctrl := controllerFor(ctx, h.hub)

	for _, p := range ctrl.Catalog() {
		if p.ID == id {
			RespondJSONWithETag(ctx, http.StatusOK, gin.H{"product": p})
			return
		}
	}

	RespondNotFound(ctx, "Product not found")
}
