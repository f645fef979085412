package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/cache"
	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/storefront"
)

type AdminHandler struct {
	hub   *storefront.Hub
	cache *cache.Cache
}

func NewAdminHandler(hub *storefront.Hub, c *cache.Cache) *AdminHandler {
	return &AdminHandler{hub: hub, cache: c}
}

// CreateProduct inserts a catalog entry and returns the persisted record with
// its store-assigned id.
func (h *AdminHandler) CreateProduct(ctx *gin.Context) {
	var req product.CreateProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	ctrl := controllerFor(ctx, h.hub)

	resolveIdentity(ctx, ctrl)

	created, err := ctrl.AddProduct(ctx.Request.Context(), req)

	if err != nil {
		h.respondMutationError(ctx, err, "Could not add product")
		return
	}

	h.invalidateCatalog()

	ctx.JSON(http.StatusCreated, gin.H{"product": created})
}

// DeleteProduct removes a catalog entry. Destructive, so it insists on
// confirm=true; the response reports when the delete only touched the local
// session view.
func (h *AdminHandler) DeleteProduct(ctx *gin.Context) {
	id := ctx.Param("id")
	confirmed := ctx.Query("confirm") == "true"

	ctrl := controllerFor(ctx, h.hub)

	resolveIdentity(ctx, ctrl)

	localOnly, err := ctrl.DeleteProduct(ctx.Request.Context(), id, confirmed)

	if err != nil {
		h.respondMutationError(ctx, err, "Could not delete product")
		return
	}

	h.invalidateCatalog()

	ctx.JSON(http.StatusOK, gin.H{"deleted": id, "localOnly": localOnly})
}

// RestoreDefaults re-inserts the built-in seed set.
func (h *AdminHandler) RestoreDefaults(ctx *gin.Context) {
	confirmed := ctx.Query("confirm") == "true"

	ctrl := controllerFor(ctx, h.hub)

	resolveIdentity(ctx, ctrl)

	if err := ctrl.RestoreDefaults(ctx.Request.Context(), confirmed); err != nil {
		h.respondMutationError(ctx, err, "Could not restore default products")
		return
	}

	h.invalidateCatalog()

	ctx.JSON(http.StatusOK, gin.H{"products": ctrl.Catalog()})
}

func (h *AdminHandler) respondMutationError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, storefront.ErrAdminRequired):
		RespondForbidden(ctx, "Admin role required")
	case errors.Is(err, storefront.ErrConfirmationRequired):
		RespondBadRequest(ctx, "Confirmation required", gin.H{"hint": "retry with confirm=true"})
	case errors.Is(err, product.ErrNotFound):
		RespondNotFound(ctx, "Product not found")
	default:
		RespondInternal(ctx, fallback)
	}
}

func (h *AdminHandler) invalidateCatalog() {
	if h.cache != nil {
		h.cache.Delete(catalogCacheKey)
	}
}
