package handlers

import (
	"net/http"

	"vidgate/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetGlobalSettings(currentUser(c).ID)
	if err != nil {
		h.logger.Error("Failed to load settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	if settings == nil {
		// Never saved: report the defaults
		settings = &models.GlobalSettings{
			UserID:             currentUser(c).ID,
			LuckyMode:          models.LuckyModeRandom,
			TimedRedirectDelay: 5,
		}
	}
	c.JSON(http.StatusOK, settings)
}

type saveButtonsRequest struct {
	TelegramURL string `json:"telegram_url" binding:"omitempty,url"`
	WebURL      string `json:"web_url" binding:"omitempty,url"`
}

func (h *Handler) SaveButtons(c *gin.Context) {
	var req saveButtonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if err := h.settingsService.SaveButtons(user.ID, req.TelegramURL, req.WebURL); err != nil {
		h.logger.Error("Failed to save buttons", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	h.auditService.LogAction(&user.ID, "SAVE_BUTTONS", "", nil, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Saved"})
}

type saveLuckyRequest struct {
	Enabled    *bool  `json:"enabled" binding:"required"`
	Percentage *int   `json:"percentage" binding:"required,min=0,max=100"`
	Mode       string `json:"mode" binding:"required,oneof=random daily"`
}

func (h *Handler) SaveLuckySettings(c *gin.Context) {
	var req saveLuckyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if err := h.settingsService.SaveLucky(user.ID, *req.Enabled, *req.Percentage, req.Mode); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.auditService.LogAction(&user.ID, "SAVE_LUCKY", "", map[string]interface{}{
		"enabled":    *req.Enabled,
		"percentage": *req.Percentage,
		"mode":       req.Mode,
	}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Saved"})
}

type saveTimedRequest struct {
	Enabled      *bool `json:"enabled" binding:"required"`
	DelaySeconds *int  `json:"delay_seconds" binding:"required,min=0"`
}

func (h *Handler) SaveTimedSettings(c *gin.Context) {
	var req saveTimedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if err := h.settingsService.SaveTimed(user.ID, *req.Enabled, *req.DelaySeconds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.auditService.LogAction(&user.ID, "SAVE_TIMED", "", map[string]interface{}{
		"enabled": *req.Enabled,
		"delay":   *req.DelaySeconds,
	}, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "Saved"})
}
