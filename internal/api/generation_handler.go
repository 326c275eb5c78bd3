package api

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/service"
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxLimitations      = 10
	maxLimitationLength = 100
)

// ProgramGeneratorService is the slice of the generator the handler uses.
type ProgramGeneratorService interface {
	Generate(ctx context.Context, req domain.GenerationRequest, userID string) (*domain.GenerationResponse, error)
}

// GenerationHandler holds the program generator dependency.
type GenerationHandler struct {
	generator ProgramGeneratorService
	logger    *zap.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generator ProgramGeneratorService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{generator: generator, logger: logger}
}

// GenerateProgram godoc
// @Summary Generate a training program
// @Description Generates a complete periodized training program for the authenticated user.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.GenerationRequest true "Generation parameters"
// @Success 201 {object} domain.GenerationResponse "Generated program"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 422 {object} gin.H "Generated program failed validation"
// @Failure 502 {object} gin.H "Persistence failure"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/generate [post]
func (h *GenerationHandler) GenerateProgram(c *gin.Context) {
	var req domain.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	// Limitations are free text headed for prompts and validation messages;
	// cap their number and size and strip control characters.
	req.Limitations = sanitizeLimitations(req.Limitations)

	response, err := h.generator.Generate(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrPersistenceFailed):
			h.logger.Error("program persistence failed", zap.Error(err))
			abortWithError(c, http.StatusBadGateway, "Failed to save generated program.")
		default:
			h.logger.Error("program generation failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Failed to generate program.")
		}
		return
	}

	c.JSON(http.StatusCreated, response)
}

// sanitizeLimitations trims, de-controls and bounds user-supplied
// limitation strings. Empty entries are dropped.
func sanitizeLimitations(limitations []string) []string {
	if len(limitations) > maxLimitations {
		limitations = limitations[:maxLimitations]
	}
	out := make([]string, 0, len(limitations))
	for _, limitation := range limitations {
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, limitation)
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			continue
		}
		if len(cleaned) > maxLimitationLength {
			cleaned = cleaned[:maxLimitationLength]
		}
		out = append(out, cleaned)
	}
	return out
}
