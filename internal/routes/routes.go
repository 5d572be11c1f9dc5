package routes

import (
	"symptom-triage-server/internal/config"
	"symptom-triage-server/internal/handlers"
	"symptom-triage-server/internal/middleware"
	"symptom-triage-server/internal/session"
	"symptom-triage-server/internal/triage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, store session.Store, classifier triage.Classifier, logger *zap.Logger) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, store, cfg, logger)
	triageHandler := handlers.NewTriageHandler(db, classifier, logger)
	vitalsHandler := handlers.NewVitalsHandler(db, logger)
	consultationHandler := handlers.NewConsultationHandler(db, logger)

	api := router.Group("/api")
	api.Use(middleware.ResolveIdentity(store, logger))
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/guest", authHandler.Guest)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/user", authHandler.CurrentUser)
		}

		triageRoutes := api.Group("/triage")
		{
			// Guests may analyze; only account holders get a history.
			triageRoutes.POST("/analyze", middleware.RequireIdentity(), triageHandler.Analyze)
			triageRoutes.GET("/session/:id", triageHandler.GetSession)
			triageRoutes.GET("/history", middleware.RequireAuth(), triageHandler.History)
		}

		vitalsRoutes := api.Group("/vitals")
		vitalsRoutes.Use(middleware.RequireAuth())
		{
			vitalsRoutes.GET("", vitalsHandler.List)
			vitalsRoutes.POST("", vitalsHandler.Record)
		}

		consultationRoutes := api.Group("/consultations")
		consultationRoutes.Use(middleware.RequireAuth())
		{
			consultationRoutes.GET("", consultationHandler.List)
			consultationRoutes.POST("", consultationHandler.Create)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
