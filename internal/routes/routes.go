package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/zawajapp/zawaj-backend/internal/handler"
	"github.com/zawajapp/zawaj-backend/internal/middleware"
	"github.com/zawajapp/zawaj-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	profileHandler *handler.ProfileHandler,
	requestHandler *handler.RequestHandler,
	chatHandler *handler.ChatHandler,
	reportHandler *handler.ReportHandler,
	adminHandler *handler.AdminHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1", middleware.JWTAuth(jwtManager))

	// Profiles and guarded visibility
	profiles := api.Group("/profiles")
	{
		profiles.POST("", profileHandler.Create)
		profiles.GET("", profileHandler.Search)
		profiles.GET("/me", profileHandler.GetMe)
		profiles.GET("/:id", profileHandler.Get)
		profiles.PUT("/:id", profileHandler.Update)
		profiles.DELETE("/:id", profileHandler.Delete)
		profiles.PUT("/:id/privacy", profileHandler.UpdatePrivacy)
		profiles.POST("/:id/approvals", profileHandler.GrantApproval)
		profiles.DELETE("/:id/approvals/:counterpartID", profileHandler.RevokeApproval)
	}

	// Marriage request lifecycle
	requests := api.Group("/requests")
	{
		requests.POST("", requestHandler.Submit)
		requests.GET("", requestHandler.List)
		requests.POST("/:id/respond", requestHandler.Respond)
	}

	// Chat channels and moderated messaging
	channels := api.Group("/channels")
	{
		channels.GET("", chatHandler.List)
		channels.GET("/:id", chatHandler.Get)
		channels.POST("/:id/messages", chatHandler.SendMessage)
		channels.GET("/:id/messages", chatHandler.History)
		channels.POST("/:id/extend", chatHandler.Extend)
		channels.POST("/:id/close", chatHandler.Close)
	}

	// Report filing (any authenticated user)
	api.POST("/reports", reportHandler.File)

	// Admin adjudication and moderation settings
	admin := api.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/reports", adminHandler.ListReports)
		admin.POST("/reports/:id/assign", adminHandler.AssignReport)
		admin.POST("/reports/:id/resolve", adminHandler.ResolveReport)
		admin.POST("/reports/:id/dismiss", adminHandler.DismissReport)

		admin.GET("/flagged", adminHandler.ListFlagged)
		admin.POST("/flagged/:id/assign", adminHandler.AssignFlagged)
		admin.POST("/flagged/:id/review", adminHandler.ReviewFlagged)
		admin.POST("/flagged/:id/dismiss", adminHandler.DismissFlagged)

		admin.GET("/settings", adminHandler.ListSettings)
		admin.PUT("/settings/:key", adminHandler.UpdateSetting)
	}
}
