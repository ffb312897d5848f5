package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"vidgate/internal/models"
	"vidgate/internal/services"

	"github.com/gin-gonic/gin"
)

type createLinkRequest struct {
	VideoURL        string `json:"video_url" binding:"required,url"`
	DestinationURL  string `json:"destination_url" binding:"omitempty,url"`
	RedirectEnabled bool   `json:"redirect_enabled"`
	TelegramURL     string `json:"telegram_url" binding:"omitempty,url"`
	WebURL          string `json:"web_url" binding:"omitempty,url"`
	LuckyEnabled    bool   `json:"lucky_enabled"`
	LuckyPercentage int    `json:"lucky_percentage" binding:"min=0,max=100"`
	LuckyMode       string `json:"lucky_mode" binding:"omitempty,oneof=random daily"`
}

func (h *Handler) CreateLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.linkService.CreateLink(services.CreateLinkDTO{
		UserID:          currentUser(c).ID,
		VideoURL:        req.VideoURL,
		DestinationURL:  req.DestinationURL,
		RedirectEnabled: req.RedirectEnabled,
		TelegramURL:     req.TelegramURL,
		WebURL:          req.WebURL,
		LuckyEnabled:    req.LuckyEnabled,
		LuckyPercentage: req.LuckyPercentage,
		LuckyMode:       req.LuckyMode,
		IPAddress:       c.ClientIP(),
	})
	if err != nil {
		h.logger.Error("Failed to create link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (h *Handler) ListLinks(c *gin.Context) {
	links, err := h.linkService.ListLinks(currentUser(c).ID)
	if err != nil {
		h.logger.Error("Failed to list links", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list links"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

func (h *Handler) GetLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	link, err := h.linkService.GetOwned(currentUser(c).ID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	c.JSON(http.StatusOK, link)
}

type updateLinkRequest struct {
	VideoURL        *string `json:"video_url" binding:"omitempty,url"`
	DestinationURL  *string `json:"destination_url"`
	RedirectEnabled *bool   `json:"redirect_enabled"`
	TelegramURL     *string `json:"telegram_url"`
	WebURL          *string `json:"web_url"`
	LuckyEnabled    *bool   `json:"lucky_enabled"`
	LuckyPercentage *int    `json:"lucky_percentage" binding:"omitempty,min=0,max=100"`
	LuckyMode       *string `json:"lucky_mode" binding:"omitempty,oneof=random daily"`
}

func (h *Handler) UpdateLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.linkService.UpdateLink(c.Request.Context(), currentUser(c).ID, id, services.UpdateLinkDTO{
		VideoURL:        req.VideoURL,
		DestinationURL:  req.DestinationURL,
		RedirectEnabled: req.RedirectEnabled,
		TelegramURL:     req.TelegramURL,
		WebURL:          req.WebURL,
		LuckyEnabled:    req.LuckyEnabled,
		LuckyPercentage: req.LuckyPercentage,
		LuckyMode:       req.LuckyMode,
	})
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		h.logger.Error("Failed to update link", "link_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *Handler) DeleteLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.linkService.DeleteLink(c.Request.Context(), currentUser(c).ID, id); err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		h.logger.Error("Failed to delete link", "link_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}

// LinkHistory returns the daily view series for one owned link.
func (h *Handler) LinkHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.linkService.GetOwned(currentUser(c).ID, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		days = 30
	}

	history, err := h.dashboardService.DailyHistory(id, days)
	if err != nil {
		h.logger.Error("Failed to load link history", "link_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	if history == nil {
		history = []models.DailyStat{}
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
