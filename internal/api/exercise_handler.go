package api

import (
	"alcyxob/program-api/internal/repository"
	"alcyxob/program-api/internal/service"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler exposes the exercise library over HTTP.
type ExerciseHandler struct {
	exerciseRepo repository.ExerciseRepository
	selector     *service.ExerciseSelector
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseRepo repository.ExerciseRepository, selector *service.ExerciseSelector) *ExerciseHandler {
	return &ExerciseHandler{exerciseRepo: exerciseRepo, selector: selector}
}

// GetExercise godoc
// @Summary Get an exercise
// @Description Returns one exercise from the library by its slug identifier.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} domain.Exercise "Exercise"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// GetAlternatives godoc
// @Summary Get alternative exercises
// @Description Returns equipment-compatible substitutes for an exercise. Equipment is passed as a comma-separated query parameter and supports presets like full_gym or bodyweight.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param equipment query string false "Comma-separated available equipment"
// @Param limit query int false "Maximum alternatives to return (default 5)"
// @Success 200 {array} domain.Exercise "Alternatives"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /exercises/{id}/alternatives [get]
func (h *ExerciseHandler) GetAlternatives(c *gin.Context) {
	var equipment []string
	if raw := c.Query("equipment"); raw != "" {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				equipment = append(equipment, item)
			}
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	alternatives, err := h.selector.Alternatives(c.Request.Context(), c.Param("id"), equipment, limit)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "Exercise not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve alternatives.")
		}
		return
	}
	c.JSON(http.StatusOK, alternatives)
}
