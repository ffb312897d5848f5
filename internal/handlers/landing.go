package handlers

import (
	"errors"
	"net/http"
	"time"

	"vidgate/internal/models"
	"vidgate/internal/services"
	"vidgate/pkg/utils"

	"github.com/gin-gonic/gin"
)

type landingButtons struct {
	TelegramURL string `json:"telegram_url,omitempty"`
	WebURL      string `json:"web_url,omitempty"`
}

type landingResponse struct {
	LinkID    uint               `json:"link_id"`
	Slug      string             `json:"slug"`
	VideoURL  string             `json:"video_url"`
	Buttons   landingButtons     `json:"buttons"`
	Scripts   []models.Script    `json:"scripts,omitempty"`
	SessionID string             `json:"session_id"`
	Redirect  *services.Decision `json:"redirect,omitempty"`
	Timed     services.TimedPlan `json:"timed"`
}

// ShowLanding serves the public video page payload. Bots get the page without
// any tracking or redirect evaluation, and without an error signal.
func (h *Handler) ShowLanding(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	link, err := h.linkService.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, services.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		h.logger.Error("Link lookup failed", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	global, err := h.settingsService.GetGlobalSettings(link.UserID)
	if err != nil {
		h.logger.Warn("Failed to load global settings", "user_id", link.UserID, "error", err)
	}

	scripts, err := h.scriptService.EnabledScripts(link.UserID)
	if err != nil {
		h.logger.Warn("Failed to load scripts", "user_id", link.UserID, "error", err)
	}

	resp := landingResponse{
		LinkID:    link.ID,
		Slug:      link.Slug,
		VideoURL:  link.VideoURL,
		Buttons:   effectiveButtons(link, global),
		Scripts:   scripts,
		SessionID: utils.GenerateSessionID(),
	}

	// Non-humans see the page but never count and never redirect
	if services.IsBot(c.Request.UserAgent()) {
		c.JSON(http.StatusOK, resp)
		return
	}

	h.visitService.RecordVisitAsync(services.VisitEvent{
		LinkID:    link.ID,
		SessionID: resp.SessionID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	})

	primaryURLs, err := h.settingsService.EnabledRedirectURLs(link.UserID)
	if err != nil {
		h.logger.Warn("Failed to load redirect urls", "user_id", link.UserID, "error", err)
	}
	timedURLs, err := h.settingsService.EnabledTimedRedirectURLs(link.UserID)
	if err != nil {
		h.logger.Warn("Failed to load timed redirect urls", "user_id", link.UserID, "error", err)
	}

	outcome := h.pipeline.Evaluate(ctx, services.VisitContext{
		Link:        link,
		Global:      global,
		VisitorID:   c.ClientIP(),
		PrimaryURLs: primaryURLs,
		TimedURLs:   timedURLs,
		Now:         time.Now(),
	})

	if outcome.Decision.Redirect {
		resp.Redirect = &outcome.Decision
	}
	resp.Timed = outcome.Timed

	c.JSON(http.StatusOK, resp)
}

// SmartRedirect evaluates the per-address capped redirect on demand, for
// clients that defer the check past initial page load.
func (h *Handler) SmartRedirect(c *gin.Context) {
	var req struct {
		Slug string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	noRedirect := services.Decision{}

	if services.IsBot(c.Request.UserAgent()) {
		c.JSON(http.StatusOK, noRedirect)
		return
	}

	link, err := h.linkService.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil || !link.RedirectEnabled {
		c.JSON(http.StatusOK, noRedirect)
		return
	}

	urls, err := h.settingsService.EnabledRedirectURLs(link.UserID)
	if err != nil {
		h.logger.Warn("Failed to load redirect urls", "error", err)
		c.JSON(http.StatusOK, noRedirect)
		return
	}

	c.JSON(http.StatusOK, h.smart.Evaluate(c.Request.Context(), c.ClientIP(), urls))
}

// FinalRedirect is the end-of-playback fallback: called by the client when
// the video completes and no earlier mechanism fired.
func (h *Handler) FinalRedirect(c *gin.Context) {
	slug := c.Param("slug")

	link, err := h.linkService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		c.JSON(http.StatusOK, services.Decision{})
		return
	}

	urls, err := h.settingsService.EnabledRedirectURLs(link.UserID)
	if err != nil {
		h.logger.Warn("Failed to load redirect urls", "error", err)
		c.JSON(http.StatusOK, services.Decision{})
		return
	}

	c.JSON(http.StatusOK, services.EvaluateFinalRedirect(link, urls))
}

// RandomLink hands out another slug for rotation, excluding the current one.
func (h *Handler) RandomLink(c *gin.Context) {
	current := c.Query("current")

	slug, err := h.linkService.RandomSlug(c.Request.Context(), current)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No other links available"})
		return
	}

	c.Header("Cache-Control", "public, s-maxage=60, stale-while-revalidate=120")
	c.JSON(http.StatusOK, gin.H{"slug": slug})
}

// LinkQR renders a QR code PNG pointing at the short link.
func (h *Handler) LinkQR(c *gin.Context) {
	slug := c.Param("slug")

	if _, err := h.linkService.GetBySlug(c.Request.Context(), slug); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	png, err := services.GenerateQRPNG(services.QROptions{
		Content: "https://" + c.Request.Host + "/" + slug,
		FgColor: c.Query("fg"),
		BgColor: c.Query("bg"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func effectiveButtons(link *models.Link, global *models.GlobalSettings) landingButtons {
	buttons := landingButtons{
		TelegramURL: link.TelegramURL,
		WebURL:      link.WebURL,
	}
	if global != nil {
		if buttons.TelegramURL == "" {
			buttons.TelegramURL = global.TelegramURL
		}
		if buttons.WebURL == "" {
			buttons.WebURL = global.WebURL
		}
	}
	return buttons
}
