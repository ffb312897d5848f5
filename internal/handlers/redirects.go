package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *Handler) ListRedirectURLs(c *gin.Context) {
	rows, err := h.settingsService.ListRedirectURLs(currentUser(c).ID)
	if err != nil {
		h.logger.Error("Failed to list redirect urls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list redirect URLs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect_urls": rows})
}

func (h *Handler) CreateRedirectURL(c *gin.Context) {
	var req createURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.settingsService.CreateRedirectURL(currentUser(c).ID, req.URL)
	if err != nil {
		h.logger.Error("Failed to create redirect url", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create redirect URL"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) ToggleRedirectURL(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsService.ToggleRedirectURL(currentUser(c).ID, id, *req.Enabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Redirect URL not found"})
			return
		}
		h.logger.Error("Failed to toggle redirect url", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update redirect URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

func (h *Handler) DeleteRedirectURL(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.settingsService.DeleteRedirectURL(currentUser(c).ID, id); err != nil {
		h.logger.Error("Failed to delete redirect url", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete redirect URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (h *Handler) ListTimedRedirectURLs(c *gin.Context) {
	rows, err := h.settingsService.ListTimedRedirectURLs(currentUser(c).ID)
	if err != nil {
		h.logger.Error("Failed to list timed redirect urls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list timed redirect URLs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"timed_redirect_urls": rows})
}

func (h *Handler) CreateTimedRedirectURL(c *gin.Context) {
	var req createURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.settingsService.CreateTimedRedirectURL(currentUser(c).ID, req.URL)
	if err != nil {
		h.logger.Error("Failed to create timed redirect url", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create timed redirect URL"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) ToggleTimedRedirectURL(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsService.ToggleTimedRedirectURL(currentUser(c).ID, id, *req.Enabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Timed redirect URL not found"})
			return
		}
		h.logger.Error("Failed to toggle timed redirect url", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update timed redirect URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

func (h *Handler) DeleteTimedRedirectURL(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.settingsService.DeleteTimedRedirectURL(currentUser(c).ID, id); err != nil {
		h.logger.Error("Failed to delete timed redirect url", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete timed redirect URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
