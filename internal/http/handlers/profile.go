package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/storefront"
)

type ProfileHandler struct {
	hub *storefront.Hub
}

func NewProfileHandler(hub *storefront.Hub) *ProfileHandler {
	return &ProfileHandler{hub: hub}
}

// Me returns the resolved user for the caller's session.
func (h *ProfileHandler) Me(ctx *gin.Context) {
	ctrl := controllerFor(ctx, h.hub)

	resolveIdentity(ctx, ctrl)

	u := ctrl.User()

	if u == nil {
		RespondUnAuthorized(ctx, "no_session", "No active session")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u})
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"required,min=2,max=120"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

// Update persists the edit and returns the republished user.
func (h *ProfileHandler) Update(ctx *gin.Context) {
	var req UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	ctrl := controllerFor(ctx, h.hub)

	resolveIdentity(ctx, ctrl)

	updated, err := ctrl.UpdateProfile(ctx.Request.Context(), req.FullName, req.Phone)

	if err != nil {
		if err == storefront.ErrAuthRequired {
			RespondUnAuthorized(ctx, "no_session", "No active session")
			return
		}

		RespondInternal(ctx, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": updated})
}
