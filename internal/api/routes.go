package api

import (
	"alcyxob/program-api/internal/repository"
	"alcyxob/program-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRoutes wires all HTTP endpoints.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	generator *service.ProgramGenerator,
	programService service.ProgramService,
	exerciseRepo repository.ExerciseRepository,
	exerciseSelector *service.ExerciseSelector,
	logger *zap.Logger,
) {
	generationHandler := NewGenerationHandler(generator, logger)
	programHandler := NewProgramHandler(programService)
	exerciseHandler := NewExerciseHandler(exerciseRepo, exerciseSelector)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		programGroup := protected.Group("/programs")
		{
			// POST /api/v1/programs/generate
			programGroup.POST("/generate", generationHandler.GenerateProgram)
			// GET /api/v1/programs
			programGroup.GET("", programHandler.ListPrograms)
			// GET /api/v1/programs/{id}
			programGroup.GET("/:id", programHandler.GetProgram)
			// PATCH /api/v1/programs/{id}/status
			programGroup.PATCH("/:id/status", programHandler.UpdateProgramStatus)
			// DELETE /api/v1/programs/{id}
			programGroup.DELETE("/:id", programHandler.DeleteProgram)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			// GET /api/v1/exercises/{id}
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			// GET /api/v1/exercises/{id}/alternatives
			exerciseGroup.GET("/:id/alternatives", exerciseHandler.GetAlternatives)
		}
	}
}
