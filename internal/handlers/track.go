package handlers

import (
	"net/http"

	"vidgate/internal/services"

	"github.com/gin-gonic/gin"
)

type trackRequest struct {
	Slug      string `json:"slug" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

// TrackVisit records a single heartbeat from the landing page. Responses are
// always 200 for known slugs; tracking problems stay server-side.
func (h *Handler) TrackVisit(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if services.IsBot(c.Request.UserAgent()) {
		c.JSON(http.StatusOK, gin.H{"tracked": false})
		return
	}

	link, err := h.linkService.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	h.visitService.RecordVisitAsync(services.VisitEvent{
		LinkID:    link.ID,
		SessionID: req.SessionID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	})

	c.JSON(http.StatusOK, gin.H{"tracked": true})
}

type batchTrackRequest struct {
	Events []trackRequest `json:"events" binding:"required"`
}

// TrackBatch accepts a page's buffered heartbeats in one request. Unknown
// slugs within the batch are skipped, not failed.
func (h *Handler) TrackBatch(c *gin.Context) {
	var req batchTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if services.IsBot(c.Request.UserAgent()) {
		c.JSON(http.StatusOK, gin.H{"processed": 0})
		return
	}

	events := make([]services.VisitEvent, 0, len(req.Events))
	for _, ev := range req.Events {
		link, err := h.linkService.GetBySlug(c.Request.Context(), ev.Slug)
		if err != nil {
			continue
		}
		events = append(events, services.VisitEvent{
			LinkID:    link.ID,
			SessionID: ev.SessionID,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
	}

	processed := h.visitService.RecordBatch(events)
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

type buttonClickRequest struct {
	Slug     string `json:"slug" binding:"required"`
	Telegram int64  `json:"telegram"`
	Web      int64  `json:"web"`
}

// TrackButtonClicks bumps the outbound button counters for a link.
func (h *Handler) TrackButtonClicks(c *gin.Context) {
	var req buttonClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Telegram < 0 || req.Web < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "counts must be non-negative"})
		return
	}

	link, err := h.linkService.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	if err := h.visitService.RecordButtonClicks(link.ID, req.Telegram, req.Web); err != nil {
		h.logger.Error("Failed to record button clicks", "link_id", link.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record clicks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true})
}
