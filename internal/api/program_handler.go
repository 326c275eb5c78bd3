package api

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// UpdateStatusRequest defines the expected JSON for a status change.
type UpdateStatusRequest struct {
	Status domain.ProgramStatus `json:"status" binding:"required"`
}

// ListPrograms godoc
// @Summary List the user's programs
// @Description Returns all programs belonging to the authenticated user, newest first. Weeks are omitted.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.TrainingProgram "List of programs"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	programs, err := h.programService.ListPrograms(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}
	if programs == nil {
		c.JSON(http.StatusOK, []domain.TrainingProgram{})
		return
	}
	c.JSON(http.StatusOK, programs)
}

// GetProgram godoc
// @Summary Get a program
// @Description Returns one program with all weeks and workouts.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {object} domain.TrainingProgram "Program"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/{id} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, "Program not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve program.")
		}
		return
	}
	c.JSON(http.StatusOK, program)
}

// UpdateProgramStatus godoc
// @Summary Update a program's status
// @Description Changes the lifecycle status (draft, active, completed, archived).
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} gin.H "Status updated"
// @Failure 400 {object} gin.H "Invalid status"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/{id}/status [patch]
func (h *ProgramHandler) UpdateProgramStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	err = h.programService.UpdateStatus(c.Request.Context(), c.Param("id"), userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, "Program not found.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update program status.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// DeleteProgram godoc
// @Summary Delete a program
// @Description Removes a program with all of its weeks and workouts.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 204 "Deleted"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/{id} [delete]
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	err = h.programService.DeleteProgram(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, "Program not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete program.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
