package handler

import (
	"github.com/gdugdh24/sitter-presence-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// MeResponse is the identity resolved from the bearer token.
type MeResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Me handles GET /auth/me
// @Summary Current identity
// @Description Returns the user id and role carried by the access token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := currentUserID(c)
	if !exists {
		return
	}
	ok(c, MeResponse{
		UserID: userID,
		Role:   c.GetString(middleware.ContextUserRole),
	})
}
