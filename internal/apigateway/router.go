package apigateway

import (
	"github.com/gin-gonic/gin"

	"pronunciation-eval-platform/internal/auth"
	"pronunciation-eval-platform/internal/configmanagement"
	"pronunciation-eval-platform/internal/jobmanagement"
)

// SetupRouter initializes the main Gin router for the API gateway.
// It includes public routes and authenticated routes.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	// Public routes (login/logout). auth.LoadAdminCredentials must have been
	// called at application startup.
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", auth.LoginHandler)
		authRoutes.POST("/logout", auth.LogoutHandler)
	}

	// All routes in this group require a valid session.
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware())
	{
		// Engine Configuration Management Routes
		engineRoutes := adminRoutes.Group("/engines")
		{
			engineRoutes.POST("", configmanagement.CreateEngineConfigHandler)
			engineRoutes.GET("", configmanagement.ListEngineConfigsHandler)
			engineRoutes.GET("/:id", configmanagement.GetEngineConfigHandler)
			engineRoutes.PUT("/:id", configmanagement.UpdateEngineConfigHandler)
			engineRoutes.DELETE("/:id", configmanagement.DeleteEngineConfigHandler)
		}

		// Corpus Sentence Management Routes
		corpusRoutes := adminRoutes.Group("/corpus-sentences")
		{
			corpusRoutes.POST("", configmanagement.CreateCorpusSentenceHandler)
			corpusRoutes.POST("/import", configmanagement.ImportCorpusSentencesHandler)
			corpusRoutes.GET("", configmanagement.ListCorpusSentencesHandler)
			corpusRoutes.GET("/:id", configmanagement.GetCorpusSentenceHandler)
			corpusRoutes.PUT("/:id", configmanagement.UpdateCorpusSentenceHandler)
			corpusRoutes.DELETE("/:id", configmanagement.DeleteCorpusSentenceHandler)
		}

		// Evaluation Job Management Routes
		jobRoutes := adminRoutes.Group("/jobs")
		{
			jobRoutes.POST("/accuracy", jobmanagement.CreateAccuracyJobHandler)
			jobRoutes.GET("", jobmanagement.ListJobsHandler)
			jobRoutes.GET("/:id", jobmanagement.GetJobHandler)
			jobRoutes.GET("/:id/results", jobmanagement.GetJobResultsHandler)
			jobRoutes.GET("/:id/report", jobmanagement.GetJobReportHandler)
		}
	}

	return router
}
