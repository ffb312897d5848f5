package handlers

import (
	"errors"
	"net/http"

	"vidgate/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) ListScripts(c *gin.Context) {
	scripts, err := h.scriptService.ListScripts(currentUser(c).ID)
	if err != nil {
		h.logger.Error("Failed to list scripts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list scripts"})
		return
	}
	if scripts == nil {
		scripts = []models.Script{}
	}
	c.JSON(http.StatusOK, gin.H{"scripts": scripts})
}

type createScriptRequest struct {
	Location string `json:"location" binding:"required,oneof=head body"`
	Content  string `json:"content" binding:"required"`
}

func (h *Handler) CreateScript(c *gin.Context) {
	var req createScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	script, err := h.scriptService.CreateScript(user.ID, req.Location, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.auditService.LogAction(&user.ID, "CREATE_SCRIPT", req.Location, nil, c.ClientIP())
	c.JSON(http.StatusCreated, script)
}

func (h *Handler) ToggleScript(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.scriptService.ToggleScript(currentUser(c).ID, id, *req.Enabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Script not found"})
			return
		}
		h.logger.Error("Failed to toggle script", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update script"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated"})
}

func (h *Handler) DeleteScript(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.scriptService.DeleteScript(currentUser(c).ID, id); err != nil {
		h.logger.Error("Failed to delete script", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete script"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
