package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"vidgate/internal/models"
	"vidgate/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}

// AuthRequired accepts either a logged-in session or an X-API-Key header and
// places the resolved user in the request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User

		if key := c.GetHeader("X-API-Key"); key != "" {
			if err := h.db.Where("api_key = ?", key).First(&user).Error; err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
				return
			}
			c.Set(userContextKey, &user)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID, ok := session.Get("user_id").(uint)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if err := h.db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

func (h *Handler) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// CleanupAuthRequired guards the maintenance endpoint with a static bearer
// secret, meant for the external scheduler.
func (h *Handler) CleanupAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if h.cfg.CleanupSecret == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.CleanupSecret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (h *Handler) RateLimitMiddleware(limiter *services.IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}
