package handlers

import (
	"vidgate/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("vidgate_session", store))

	r.GET("/health", h.Health)

	// Public auth
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	r.POST("/api/v1/auth/logout", h.Logout)

	// Public visitor API
	r.POST("/api/v1/track", h.TrackVisit)
	r.POST("/api/v1/track/batch", h.TrackBatch)
	r.POST("/api/v1/track/button", h.TrackButtonClicks)
	r.POST("/api/v1/redirect/smart", h.SmartRedirect)
	r.GET("/api/v1/links/:slug/final-redirect", h.FinalRedirect)
	r.GET("/api/v1/links/:slug/qr", h.LinkQR)
	r.GET("/api/v1/random-link", h.RandomLink)

	// Housekeeping, guarded by the bearer secret
	r.POST("/api/v1/cleanup", h.CleanupAuthRequired(), h.RunCleanup)

	// Account API
	authorized := r.Group("/api/v1")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/auth/me", h.Me)
		authorized.POST("/auth/apikey", h.RotateAPIKey)

		authorized.POST("/links", h.CreateLink)
		authorized.GET("/links", h.ListLinks)
		authorized.GET("/links/id/:id", h.GetLink)
		authorized.PATCH("/links/id/:id", h.UpdateLink)
		authorized.DELETE("/links/id/:id", h.DeleteLink)
		authorized.GET("/links/id/:id/history", h.LinkHistory)

		authorized.GET("/redirect-urls", h.ListRedirectURLs)
		authorized.POST("/redirect-urls", h.CreateRedirectURL)
		authorized.PATCH("/redirect-urls/:id", h.ToggleRedirectURL)
		authorized.DELETE("/redirect-urls/:id", h.DeleteRedirectURL)

		authorized.GET("/timed-redirect-urls", h.ListTimedRedirectURLs)
		authorized.POST("/timed-redirect-urls", h.CreateTimedRedirectURL)
		authorized.PATCH("/timed-redirect-urls/:id", h.ToggleTimedRedirectURL)
		authorized.DELETE("/timed-redirect-urls/:id", h.DeleteTimedRedirectURL)

		authorized.GET("/settings", h.GetSettings)
		authorized.PUT("/settings/buttons", h.SaveButtons)
		authorized.PUT("/settings/lucky", h.SaveLuckySettings)
		authorized.PUT("/settings/timed", h.SaveTimedSettings)

		authorized.GET("/scripts", h.ListScripts)
		authorized.POST("/scripts", h.CreateScript)
		authorized.PATCH("/scripts/:id", h.ToggleScript)
		authorized.DELETE("/scripts/:id", h.DeleteScript)

		authorized.GET("/dashboard/stats", h.DashboardStats)

		admin := authorized.Group("/admin")
		admin.Use(h.AdminRequired())
		{
			admin.GET("/users", h.ListUsers)
		}
	}

	// Catch-all landing page
	r.GET("/:slug", h.ShowLanding)

	return r
}
