package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/storefront"
)

type StateHandler struct {
	hub *storefront.Hub
}

func NewStateHandler(hub *storefront.Hub) *StateHandler {
	return &StateHandler{hub: hub}
}

// State returns the full session snapshot: resolved user, catalog, active
// overlay. Anonymous callers get the shared controller's view.
func (h *StateHandler) State(ctx *gin.Context) {
	ctrl := controllerFor(ctx, h.hub)

	resolveIdentity(ctx, ctrl)

	ctx.JSON(http.StatusOK, ctrl.Snapshot())
}

type OpenOverlayRequest struct {
	Kind      string `json:"kind" binding:"required"`
	ProductID string `json:"productId" binding:"omitempty"`
}

// OpenOverlay activates a modal surface; at most one is ever active.
func (h *StateHandler) OpenOverlay(ctx *gin.Context) {
	var req OpenOverlayRequest

	if !BindJSON(ctx, &req) {
		return
	}

	ctrl := controllerFor(ctx, h.hub)

	err := ctrl.OpenOverlay(storefront.OverlayKind(req.Kind), req.ProductID)

	if err != nil {
		if errors.Is(err, storefront.ErrUnknownOverlay) {
			RespondBadRequest(ctx, "Unknown overlay kind", gin.H{"kind": req.Kind})
			return
		}

		RespondInternal(ctx, "Could not open overlay")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"overlay": ctrl.ActiveOverlay()})
}

// CloseOverlay resets the view state to no overlay.
func (h *StateHandler) CloseOverlay(ctx *gin.Context) {
	ctrl := controllerFor(ctx, h.hub)

	ctrl.CloseOverlay()

	ctx.Status(http.StatusNoContent)
}
