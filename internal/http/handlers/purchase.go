package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/domain/product"
	"github.com/olamidek/coursehub/internal/http/middlewares"
	"github.com/olamidek/coursehub/internal/jobs"
	"github.com/olamidek/coursehub/internal/storefront"
	"github.com/olamidek/coursehub/internal/whatsapp"
)

// NoticeEnqueuer pushes the checkout notice onto the job queue. Nil-able so
// the storefront still sells when redis is down.
type NoticeEnqueuer interface {
	Enqueue(ctx context.Context, t jobs.JobType, payload any) (jobs.Job, error)
}

type PurchaseHandler struct {
	hub     *storefront.Hub
	notices NoticeEnqueuer
	links   whatsapp.Builder
	log     *slog.Logger
}

func NewPurchaseHandler(hub *storefront.Hub, notices NoticeEnqueuer, links whatsapp.Builder, log *slog.Logger) *PurchaseHandler {
	return &PurchaseHandler{hub: hub, notices: notices, links: links, log: log}
}

type ConfirmPurchaseRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// Confirm grants the enrollment optimistically and hands back the chat deep
// link that completes payment out of band. A signed-out caller gets the auth
// overlay opened on their view instead.
func (h *PurchaseHandler) Confirm(ctx *gin.Context) {
	var req ConfirmPurchaseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	ctrl := controllerFor(ctx, h.hub)

	resolveIdentity(ctx, ctrl)

	var bought *product.Product

	for _, p := range ctrl.Catalog() {
		if p.ID == req.ProductID {
			cp := p
			bought = &cp
			break
		}
	}

	if bought == nil {
		RespondNotFound(ctx, "Product not found")
		return
	}

	updated, outcome, err := ctrl.ConfirmPurchase(ctx.Request.Context(), req.ProductID)

	if err != nil {
		if errors.Is(err, storefront.ErrAuthRequired) {
			_ = ctrl.OpenOverlay(storefront.OverlayAuth, "")
			RespondUnAuthorized(ctx, "auth_required", "Sign in to purchase this course.")
			return
		}

		RespondInternal(ctx, "Could not confirm purchase")
		return
	}

	link := h.links.PaymentLink(bought.Name, bought.Price, updated.Email)

	h.enqueueNotice(ctx, updated.ID, updated.Name, updated.Email, *bought)

	if outcome == storefront.PurchaseInsertFailed {
		h.enqueueReconcile(ctx, updated.ID, bought.ID)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":         updated,
		"whatsappLink": link,
	})
}

func (h *PurchaseHandler) enqueueNotice(ctx *gin.Context, userID, userName, userEmail string, p product.Product) {
	if h.notices == nil {
		return
	}

	reqID, _ := ctx.Get(middlewares.CtxRequestID)
	reqIDStr, _ := reqID.(string)

	_, err := h.notices.Enqueue(ctx.Request.Context(), jobs.JobSendCheckoutNotice, jobs.CheckoutNoticePayload{
		UserID:      userID,
		UserName:    userName,
		UserEmail:   userEmail,
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		RequestedAt: time.Now().UTC(),
		RequestID:   reqIDStr,
	})

	if err != nil {
		// the purchase already went through; the notice is best-effort
		h.log.Warn("checkout notice enqueue failed", "product_id", p.ID, "err", err)
	}
}

// enqueueReconcile queues a retry for an enrollment insert that failed behind
// an already-granted purchase.
func (h *PurchaseHandler) enqueueReconcile(ctx *gin.Context, userID, productID string) {
	if h.notices == nil {
		return
	}

	_, err := h.notices.Enqueue(ctx.Request.Context(), jobs.JobReconcileEnrollment, jobs.ReconcileEnrollmentPayload{
		UserID:    userID,
		ProductID: productID,
	})

	if err != nil {
		h.log.Warn("enrollment reconcile enqueue failed", "user_id", userID, "product_id", productID, "err", err)
	}
}
