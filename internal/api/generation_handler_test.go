package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/service"
)

// stubGenerator returns a canned response or error.
type stubGenerator struct {
	resp *domain.GenerationResponse
	err  error
}

func (s *stubGenerator) Generate(context.Context, domain.GenerationRequest, string) (*domain.GenerationResponse, error) {
	return s.resp, s.err
}

func generateTestRouter(generator ProgramGeneratorService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewGenerationHandler(generator, zap.NewNop())
	router.POST("/generate", func(c *gin.Context) {
		c.Set(ContextUserIDKey, "user-1")
	}, handler.GenerateProgram)
	return router
}

func postGenerate(router *gin.Engine) *httptest.ResponseRecorder {
	body := `{"goal":"hypertrophy","duration_weeks":8,"sessions_per_week":4,"experience_level":"intermediate","equipment_available":["full_gym"]}`
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateProgram_StatusMapping(t *testing.T) {
	t.Run("success returns 201", func(t *testing.T) {
		router := generateTestRouter(&stubGenerator{resp: &domain.GenerationResponse{}})
		w := postGenerate(router)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("validation failure returns 422", func(t *testing.T) {
		err := fmt.Errorf("%w: duplicate exercise in workout", service.ErrValidationFailed)
		router := generateTestRouter(&stubGenerator{err: err})
		w := postGenerate(router)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "duplicate exercise")
	})

	t.Run("persistence failure returns 502", func(t *testing.T) {
		err := fmt.Errorf("%w: transaction aborted", service.ErrPersistenceFailed)
		router := generateTestRouter(&stubGenerator{err: err})
		w := postGenerate(router)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unexpected failure returns 500", func(t *testing.T) {
		err := fmt.Errorf("whole new failure mode")
		router := generateTestRouter(&stubGenerator{err: err})
		w := postGenerate(router)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		router := generateTestRouter(&stubGenerator{resp: &domain.GenerationResponse{}})
		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
