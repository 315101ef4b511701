package api

import (
	"net/http"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler into the router under /api/v1.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	exerciseService service.ExerciseService,
	taxonomyService service.TaxonomyService,
	planService service.PlanService,
	generator service.PlanGeneratorService,
	mediaService service.MediaService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	taxonomyHandler := NewTaxonomyHandler(taxonomyService)
	planHandler := NewPlanHandler(planService, generator)
	mediaHandler := NewMediaHandler(mediaService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Open plan reads: single-plan retrieval, session listings, the
	// public library and the template catalogue need no token.
	openPlans := apiV1.Group("/plans")
	{
		openPlans.GET("/templates/available", planHandler.AvailableTemplates)
		openPlans.GET("/public", planHandler.ListPublicPlans)
		openPlans.GET("/:id", planHandler.GetPlan)
		openPlans.GET("/:id/sessions", planHandler.GetPlanSessions)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/me", userHandler.GetMe)
		protected.POST("/auth/refresh", authHandler.RefreshToken)

		// --- Users ---
		userGroup := protected.Group("/users")
		{
			userGroup.GET("/me", userHandler.GetMe)
			userGroup.GET("/search", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), userHandler.SearchUsers)
			userGroup.GET("", RoleMiddleware(domain.RoleAdmin), userHandler.ListUsers)
			userGroup.GET("/:id", userHandler.GetUser)
			userGroup.PUT("/:id", userHandler.UpdateUser)
			userGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), userHandler.DeleteUser)
			userGroup.GET("/:id/profile", userHandler.GetProfile)
			userGroup.PUT("/:id/profile", userHandler.UpdateProfile)
		}
		protected.GET("/coaches/:id/clients", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), userHandler.GetCoachClients)

		// --- Admin: coach approval ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/coaches/pending", authHandler.GetPendingCoaches)
			adminGroup.POST("/coaches/:id/approve", authHandler.ApproveCoach)
		}

		// --- Exercises and media ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/search", exerciseHandler.SearchExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), exerciseHandler.DeleteExercise)

			exerciseGroup.POST("/:id/media", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), mediaHandler.RequestUpload)
			exerciseGroup.GET("/:id/media", mediaHandler.ListExerciseMedia)
		}
		protected.DELETE("/media/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), mediaHandler.DeleteMedia)

		// --- Taxonomies (six classification tables, one route set) ---
		taxonomyGroup := protected.Group("/taxonomies/:kind")
		{
			taxonomyGroup.POST("", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), taxonomyHandler.Create)
			taxonomyGroup.GET("", taxonomyHandler.List)
			taxonomyGroup.GET("/:id", taxonomyHandler.Get)
			taxonomyGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), taxonomyHandler.Update)
			taxonomyGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), taxonomyHandler.Delete)
		}

		// --- Plans, sessions and the template generator ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("/generate-from-template", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), planHandler.GeneratePlan)
			planGroup.POST("", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/my-plans", planHandler.ListMyPlans)
			planGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), planHandler.UpdatePlan)
			planGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), planHandler.DeletePlan)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", RoleMiddleware(domain.RoleAdmin, domain.RoleCoach), planHandler.CreateSession)
			sessionGroup.GET("/:id", planHandler.GetSession)
			sessionGroup.PUT("/:id", planHandler.UpdateSession)
		}
		protected.PUT("/workout-exercises/:id/result", planHandler.RecordWorkoutResult)
	}
}
