package handlers

import (
	"net/http"
	"time"

	"vidgate/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.logger.Error("Failed to compute dashboard stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers is the admin account overview.
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at asc").Find(&users).Error; err != nil {
		h.logger.Error("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	type userSummary struct {
		ID        uint      `json:"id"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
		Links     int64     `json:"links"`
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		var linkCount int64
		h.db.Model(&models.Link{}).Where("user_id = ?", u.ID).Count(&linkCount)
		out = append(out, userSummary{
			ID:        u.ID,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
			Links:     linkCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// RunCleanup triggers the stale-data purge on demand. Guarded by the cleanup
// bearer secret, not the session.
func (h *Handler) RunCleanup(c *gin.Context) {
	if err := h.cleanupService.Purge(c.Request.Context()); err != nil {
		h.logger.Error("Cleanup run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cleanup completed"})
}

func (h *Handler) Health(c *gin.Context) {
	status := gin.H{"status": "ok"}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
		return
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			status["redis"] = "down"
		}
	}

	c.JSON(http.StatusOK, status)
}
