package service

import (
	"alcyxob/program-api/internal/domain"
	"context"
)

// PickRequest asks a picker to choose exercises for one workout.
type PickRequest struct {
	WorkoutType        string
	MuscleGroups       []string
	Equipment          []string
	ExerciseCount      int
	IntensityPercent   float64
	VolumeModifier     float64
	AvailableExercises []domain.Exercise
	Limitations        []string
	ExperienceLevel    domain.ExperienceLevel
	Goal               domain.ProgramGoal
	IsDeload           bool
}

// PickedExercise is one exercise chosen by a picker.
type PickedExercise struct {
	ExerciseID   string `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
	Sets         int    `json:"sets"`
	Reps         string `json:"reps"`
	RestSeconds  int    `json:"rest_seconds"`
	Notes        string `json:"notes,omitempty"`
	Order        int    `json:"order"`
}

// PickResponse is a picker's selection for one workout.
type PickResponse struct {
	Exercises                []PickedExercise `json:"exercises"`
	WorkoutNotes             string           `json:"workout_notes,omitempty"`
	EstimatedDurationMinutes int              `json:"estimated_duration_minutes"`
}

// ExercisePicker chooses exercises for a workout. The orchestrator treats
// any returned error as recoverable and falls back to the deterministic
// selector, so implementations never have to guarantee success.
type ExercisePicker interface {
	PickExercises(ctx context.Context, req PickRequest) (*PickResponse, error)
}
