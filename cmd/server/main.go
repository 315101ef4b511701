package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/coaching-api/internal/api"
	"fitcoach/coaching-api/internal/config"
	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/repository"
	mongorepo "fitcoach/coaching-api/internal/repository/mongo"
	"fitcoach/coaching-api/internal/service"
	"fitcoach/coaching-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Coaching API
// @version 1.0
// @description API for coaches and clients: exercise catalogue, workout plans, template-based plan generation and media uploads.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Coaching API server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		ensure := func(name string, err error) {
			if err != nil {
				log.Printf("ERROR: Failed to ensure indexes on %s: %v", name, err)
			}
		}
		ensure("users", mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users")))
		ensure("exercises", mongorepo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises")))
		ensure("plans", mongorepo.EnsurePlanIndexes(ctx, appDB.Collection("plans")))
		ensure("workout_sessions", mongorepo.EnsureSessionIndexes(ctx, appDB.Collection("workout_sessions")))
		ensure("workout_exercises", mongorepo.EnsureWorkoutExerciseIndexes(ctx, appDB.Collection("workout_exercises")))
		ensure("media_uploads", mongorepo.EnsureMediaIndexes(ctx, appDB.Collection("media_uploads")))
		for _, kind := range domain.TaxonomyKinds {
			ensure(string(kind), mongorepo.EnsureTaxonomyIndexes(ctx, appDB.Collection(string(kind))))
		}
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	profileRepo := mongorepo.NewMongoProfileRepository(appDB)
	exerciseRepo := mongorepo.NewMongoExerciseRepository(appDB)
	planRepo := mongorepo.NewMongoPlanRepository(appDB)
	sessionRepo := mongorepo.NewMongoSessionRepository(appDB)
	weRepo := mongorepo.NewMongoWorkoutExerciseRepository(appDB)
	mediaRepo := mongorepo.NewMongoMediaRepository(appDB)
	txManager := mongorepo.NewTxManager(dbClient)

	taxonomyRepos := make(map[domain.TaxonomyKind]repository.TaxonomyRepository, len(domain.TaxonomyKinds))
	for _, kind := range domain.TaxonomyKinds {
		taxonomyRepos[kind] = mongorepo.NewMongoTaxonomyRepository(appDB, kind)
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo, profileRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, taxonomyRepos)
	taxonomyService := service.NewTaxonomyService(taxonomyRepos)
	planService := service.NewPlanService(planRepo, sessionRepo, weRepo, txManager)
	generator := service.NewPlanGenerator(planRepo, sessionRepo, weRepo, exerciseRepo, txManager, nil)
	mediaService := service.NewMediaService(mediaRepo, exerciseRepo, fileStorage)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, userService, exerciseService, taxonomyService, planService, generator, mediaService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
