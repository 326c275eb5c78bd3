package service

import (
	"alcyxob/program-api/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProgram(repo *fakeProgramRepo, userID string) *domain.TrainingProgram {
	program := &domain.TrainingProgram{
		UserID: userID,
		Name:   "8-Week Hypertrophy Program",
		Goal:   domain.GoalHypertrophy,
		Status: domain.StatusDraft,
	}
	created, _ := repo.Create(context.Background(), program)
	return created
}

func TestProgramService_GetProgram(t *testing.T) {
	repo := newFakeProgramRepo()
	svc := NewProgramService(repo)
	program := seedProgram(repo, "user-1")

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.GetProgram(context.Background(), program.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, program.ID, got.ID)
	})

	t.Run("other users see not found", func(t *testing.T) {
		_, err := svc.GetProgram(context.Background(), program.ID, "user-2")
		assert.ErrorIs(t, err, ErrProgramNotFound)
	})

	t.Run("missing program", func(t *testing.T) {
		_, err := svc.GetProgram(context.Background(), "nope", "user-1")
		assert.ErrorIs(t, err, ErrProgramNotFound)
	})
}

func TestProgramService_UpdateStatus(t *testing.T) {
	repo := newFakeProgramRepo()
	svc := NewProgramService(repo)
	program := seedProgram(repo, "user-1")

	t.Run("valid transition", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), program.ID, "user-1", domain.StatusActive)
		require.NoError(t, err)
		got, _ := repo.GetByID(context.Background(), program.ID)
		assert.Equal(t, domain.StatusActive, got.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), program.ID, "user-1", domain.ProgramStatus("paused"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("ownership enforced", func(t *testing.T) {
		err := svc.UpdateStatus(context.Background(), program.ID, "user-2", domain.StatusArchived)
		assert.ErrorIs(t, err, ErrProgramNotFound)
	})
}

func TestProgramService_DeleteProgram(t *testing.T) {
	repo := newFakeProgramRepo()
	svc := NewProgramService(repo)
	program := seedProgram(repo, "user-1")

	t.Run("ownership enforced", func(t *testing.T) {
		err := svc.DeleteProgram(context.Background(), program.ID, "user-2")
		assert.ErrorIs(t, err, ErrProgramNotFound)
	})

	t.Run("owner can delete", func(t *testing.T) {
		err := svc.DeleteProgram(context.Background(), program.ID, "user-1")
		require.NoError(t, err)
		_, err = svc.GetProgram(context.Background(), program.ID, "user-1")
		assert.ErrorIs(t, err, ErrProgramNotFound)
	})
}

func TestProgramService_ListPrograms(t *testing.T) {
	repo := newFakeProgramRepo()
	svc := NewProgramService(repo)
	seedProgram(repo, "user-1")
	seedProgram(repo, "user-1")
	seedProgram(repo, "user-2")

	programs, err := svc.ListPrograms(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, programs, 2)
}
