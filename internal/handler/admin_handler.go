package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pokerun/leaderboard/internal/service"
	"github.com/pokerun/leaderboard/pkg/logger"
	"go.uber.org/zap"
)

// AdminHandler exposes the role-gated user management surface.
type AdminHandler struct {
	authService *service.AuthService
}

func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.GetAllUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]gin.H, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"role":       user.Role,
			"created_at": user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": summaries, "count": len(summaries)})
}

// DeleteUser hard-deletes a user; their runs and reset tokens go with them.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	admin, _ := currentUser(c)

	if err := h.authService.DeleteUser(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	if admin != nil {
		logger.Log.Info("User deleted by admin",
			zap.Uint64("user_id", id),
			zap.Uint("admin_id", admin.ID),
		)
	}

	c.Status(http.StatusNoContent)
}
