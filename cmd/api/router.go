package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/auth/delivery"
	"fitai-backend/pkg/metrics"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	auth := delivery.AuthMiddleware(h.authUsecase)
	admin := delivery.APIKeyMiddleware(h.config.AdminAPIKeyHash)
	hs := h.handlers

	r.GET("/metrics", gin.WrapH(metrics.PromHandler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		if hs.User != nil {
			users := api.Group("/users")
			users.Use(auth)
			{
				users.GET("/me", hs.User.Me)
				users.PUT("/me/settings", hs.User.UpdateSettings)
			}
		}

		if hs.Notification != nil {
			notifications := api.Group("/notifications")
			notifications.Use(auth)
			{
				notifications.POST("/token", hs.Notification.RegisterToken)
				notifications.DELETE("/token/:token", hs.Notification.UnregisterToken)
				notifications.POST("/test", hs.Notification.SendTest)
				notifications.GET("/stream", hs.Notification.Stream)
			}
		}

		if hs.Coach != nil {
			coach := api.Group("/coach")
			coach.Use(auth)
			{
				coach.POST("/invites", hs.Coach.CreateInvite)
				coach.POST("/invites/:code/redeem", hs.Coach.RedeemInvite)
				coach.GET("/students", hs.Coach.ListStudents)
				coach.GET("/coaches", hs.Coach.ListCoaches)
				coach.DELETE("/links/:coachId/:studentId", hs.Coach.Unlink)
			}
		}

		if hs.Privacy != nil {
			privacy := api.Group("/privacy")
			privacy.Use(auth)
			{
				privacy.GET("/export", hs.Privacy.Export)
				privacy.DELETE("/account", hs.Privacy.DeleteAccount)
			}
		}

		if hs.Exercise != nil {
			exercises := api.Group("/exercises")
			exercises.Use(auth)
			{
				exercises.GET("", hs.Exercise.List)
				exercises.GET("/match", hs.Exercise.Match)
			}
		}

		if hs.Voice != nil {
			api.POST("/voice/cue", auth, hs.Voice.Cue)
		}

		// Stripe signs the request itself
		if hs.Billing != nil {
			api.POST("/billing/stripe/webhook", hs.Billing.StripeWebhook)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(admin)
		{
			if hs.User != nil {
				adminGroup.POST("/premium", hs.User.SetPremium)
			}
			adminGroup.GET("/settings/ai", GetAISettings)
			adminGroup.PUT("/settings/ai", UpdateAISettings)
			adminGroup.POST("/settings/ai/test", h.TestAIProvider)
		}
	}
}
