package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/domain/session"
	"github.com/olamidek/coursehub/internal/http/middlewares"
	"github.com/olamidek/coursehub/internal/storefront"
)

// controllerFor picks the session's controller, or the shared anonymous one
// when no identity made it onto the context.
func controllerFor(ctx *gin.Context, hub *storefront.Hub) *storefront.Controller {
	if userID, ok := middlewares.UserIDFromContext(ctx); ok && userID != "" {
		return hub.Get(ctx.Request.Context(), userID)
	}

	return hub.Anonymous(ctx.Request.Context())
}

// resolveIdentity lazily builds the user on the first authenticated touch of
// a fresh controller.
func resolveIdentity(ctx *gin.Context, ctrl *storefront.Controller) {
	if ctrl.User() != nil {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok || userID == "" {
		return
	}

	email, _ := middlewares.EmailFromContext(ctx)

	if userID == session.DegradedAdminID {
		ctrl.UseDegradedAdmin(email)
		return
	}

	ctrl.ResolveSession(ctx.Request.Context(), userID, email)
}
