package handlers

import (
	"errors"
	"net/http"
	"strings"

	"vidgate/internal/models"
	"vidgate/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	user := models.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         models.RoleUser,
		APIKey:       utils.GenerateAPIKey(),
	}

	// First account becomes the admin
	var count int64
	h.db.Model(&models.User{}).Count(&count)
	if count == 0 {
		user.Role = models.RoleAdmin
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	h.auditService.LogAction(&user.ID, "REGISTER", user.Email, nil, c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email, "api_key": user.APIKey})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPasswordHash(req.Password, user.PasswordHash)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		h.logger.Error("Login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	h.auditService.LogAction(&user.ID, "LOGIN", user.Email, nil, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1})
	if err := session.Save(); err != nil {
		h.logger.Warn("Failed to clear session", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// RotateAPIKey replaces the caller's API key. The old key stops working
// immediately.
func (h *Handler) RotateAPIKey(c *gin.Context) {
	user := currentUser(c)

	newKey := utils.GenerateAPIKey()
	if err := h.db.Model(user).Update("api_key", newKey).Error; err != nil {
		h.logger.Error("Failed to rotate API key", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate key"})
		return
	}

	h.auditService.LogAction(&user.ID, "ROTATE_API_KEY", user.Email, nil, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"api_key": newKey})
}

func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}
