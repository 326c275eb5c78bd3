// internal/service/program_service.go
package service

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/repository"
	"context"
	"errors"
	"fmt"
)

var (
	// ErrProgramNotFound is returned when a program does not exist or does
	// not belong to the requesting user.
	ErrProgramNotFound = errors.New("program not found")
	// ErrInvalidStatus is returned for unknown status values.
	ErrInvalidStatus = errors.New("invalid program status")
)

// ProgramService covers reads and lifecycle changes on stored programs.
type ProgramService interface {
	GetProgram(ctx context.Context, programID, userID string) (*domain.TrainingProgram, error)
	ListPrograms(ctx context.Context, userID string) ([]domain.TrainingProgram, error)
	UpdateStatus(ctx context.Context, programID, userID string, status domain.ProgramStatus) error
	DeleteProgram(ctx context.Context, programID, userID string) error
}

type programService struct {
	programRepo repository.ProgramRepository
}

// NewProgramService creates a ProgramService.
func NewProgramService(programRepo repository.ProgramRepository) ProgramService {
	return &programService{programRepo: programRepo}
}

// GetProgram fetches a program with its weeks, enforcing ownership.
func (s *programService) GetProgram(ctx context.Context, programID, userID string) (*domain.TrainingProgram, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("fetching program: %w", err)
	}
	if program.UserID != userID {
		// Hide existence of other users' programs.
		return nil, ErrProgramNotFound
	}
	return program, nil
}

// ListPrograms returns the user's programs, newest first.
func (s *programService) ListPrograms(ctx context.Context, userID string) ([]domain.TrainingProgram, error) {
	programs, err := s.programRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	return programs, nil
}

// UpdateStatus changes a program's lifecycle status after an ownership check.
func (s *programService) UpdateStatus(ctx context.Context, programID, userID string, status domain.ProgramStatus) error {
	switch status {
	case domain.StatusDraft, domain.StatusActive, domain.StatusCompleted, domain.StatusArchived:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if _, err := s.GetProgram(ctx, programID, userID); err != nil {
		return err
	}

	if err := s.programRepo.UpdateStatus(ctx, programID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return fmt.Errorf("updating program status: %w", err)
	}
	return nil
}

// DeleteProgram removes a program and its weeks/workouts.
func (s *programService) DeleteProgram(ctx context.Context, programID, userID string) error {
	err := s.programRepo.Delete(ctx, programID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return fmt.Errorf("deleting program: %w", err)
	}
	return nil
}
