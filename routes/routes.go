package routes

import (
	"net/http"
	"time"

	"campusconnect/handlers"
	"campusconnect/middleware"
	"campusconnect/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": http.StatusText(code), "services": status.Services, "checkedAt": status.CheckedAt})
	})
}

// RegisterCampaignRoutes registers the campaign feed endpoints.
func RegisterCampaignRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/campaigns")
	{
		api.Use(middleware.FirebaseAuthMiddleware(hb.Verifier))
		api.GET("", hb.ListCampaignsHandler)
		api.GET("/:id", hb.GetCampaignHandler)
		api.GET("/:id/donations", hb.ListDonationsHandler)
		api.POST("", hb.CreateCampaignHandler)
		api.POST("/:id/like", hb.ToggleLikeHandler)
		api.POST("/:id/image", hb.UploadCampaignImageHandler)
	}
}

// RegisterDonationRoutes registers the donation dialog lifecycle.
func RegisterDonationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	sessions := r.Group("/api/donations/sessions")
	{
		sessions.Use(middleware.FirebaseAuthMiddleware(hb.Verifier))
		sessions.POST("", hb.OpenSessionHandler)
		sessions.GET("/:id", hb.GetSessionHandler)
		sessions.POST("/:id/donate", hb.DonateHandler)
		sessions.POST("/:id/confirm", hb.ConfirmHandler)
		sessions.POST("/:id/fail", hb.FailHandler)
		sessions.POST("/:id/retry", hb.RetryHandler)
		sessions.POST("/:id/reset", hb.ResetHandler)
		sessions.DELETE("/:id", hb.CloseSessionHandler)
	}
}

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/me", middleware.FirebaseAuthMiddleware(hb.Verifier), hb.MeHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r)
	RegisterCampaignRoutes(r, hb)
	RegisterDonationRoutes(r, hb)
	RegisterUserRoutes(r, hb)
}
