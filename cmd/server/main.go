package main

import (
	"alcyxob/program-api/internal/api"
	"alcyxob/program-api/internal/config"
	"alcyxob/program-api/internal/repository/mongo"
	"alcyxob/program-api/internal/service"
	"alcyxob/program-api/internal/service/llm"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Program Generation API
// @version 1.0
// @description API for generating periodized training programs.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("starting program generation server")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureProgramIndexes(ctx, appDB); err != nil {
			logger.Warn("program index creation failed", zap.Error(err))
		}
		if err := mongo.EnsureTemplateIndexes(ctx, appDB); err != nil {
			logger.Warn("template index creation failed", zap.Error(err))
		}
		if err := mongo.EnsureExerciseIndexes(ctx, appDB); err != nil {
			logger.Warn("exercise index creation failed", zap.Error(err))
		}
	}()

	// --- Initialize Repositories ---
	programRepo := mongo.NewMongoProgramRepository(dbClient, appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)

	// --- Initialize Services ---
	var picker service.ExercisePicker
	if cfg.LLM.APIKey != "" {
		picker = llm.NewClient(cfg.LLM.APIKey, logger, llm.WithModel(cfg.LLM.Model))
		logger.Info("LLM exercise selection enabled", zap.String("model", cfg.LLM.Model))
	} else {
		logger.Info("LLM exercise selection disabled, using deterministic selector")
	}

	generator := service.NewProgramGenerator(
		programRepo,
		templateRepo,
		exerciseRepo,
		picker,
		cfg.Generation.MaxConcurrency,
		logger,
	)
	programService := service.NewProgramService(programRepo)
	exerciseSelector := service.NewExerciseSelector(exerciseRepo, logger)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, generator, programService, exerciseRepo, exerciseSelector, logger)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("server starting", zap.String("address", cfg.Server.Address))

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
