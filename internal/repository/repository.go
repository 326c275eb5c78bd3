package repository

import (
	"alcyxob/program-api/internal/domain" // Import our defined domain models
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WeekWithWorkouts is a staged week plus its workouts, used for atomic
// multi-entity program creation.
type WeekWithWorkouts struct {
	Week     domain.ProgramWeek
	Workouts []domain.ProgramWorkout
}

// CreatedProgram reports what an atomic creation produced.
type CreatedProgram struct {
	Program  *domain.TrainingProgram
	Weeks    []domain.ProgramWeek
	Workouts []domain.ProgramWorkout
}

// ProgramRepository defines the interface for training program persistence.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.TrainingProgram) (*domain.TrainingProgram, error)
	GetByID(ctx context.Context, id string) (*domain.TrainingProgram, error)
	GetByUser(ctx context.Context, userID string) ([]domain.TrainingProgram, error)
	CreateWeek(ctx context.Context, programID string, week *domain.ProgramWeek) (*domain.ProgramWeek, error)
	CreateWorkout(ctx context.Context, weekID string, workout *domain.ProgramWorkout) (*domain.ProgramWorkout, error)
	// CreateProgramAtomic creates the program with all weeks and workouts in
	// one transaction. If any insert fails, nothing is persisted.
	CreateProgramAtomic(ctx context.Context, program *domain.TrainingProgram, weeks []WeekWithWorkouts) (*CreatedProgram, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProgramStatus) error
	Delete(ctx context.Context, id string, userID string) error
}

// TemplateRepository defines the interface for program template lookup.
type TemplateRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ProgramTemplate, error)
	// GetByCriteria returns candidate templates for a goal and experience
	// level. durationWeeks is a soft criterion; implementations may return
	// templates of nearby durations.
	GetByCriteria(ctx context.Context, goal domain.ProgramGoal, level domain.ExperienceLevel, durationWeeks int) ([]domain.ProgramTemplate, error)
	GetSystemTemplates(ctx context.Context) ([]domain.ProgramTemplate, error)
	Create(ctx context.Context, template *domain.ProgramTemplate) (*domain.ProgramTemplate, error)
	IncrementUsageCount(ctx context.Context, id string) error
}

// ExerciseRepository defines the interface for exercise library access.
// Exercises are read-only reference data during generation.
type ExerciseRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	Search(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error)
	GetSimilarExercises(ctx context.Context, exerciseID string, limit int) ([]domain.Exercise, error)
}
