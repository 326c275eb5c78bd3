// internal/domain/program.go
package domain

import (
	"time"
)

// ProgramGoal is the primary training goal of a program.
type ProgramGoal string

const (
	GoalStrength       ProgramGoal = "strength"
	GoalHypertrophy    ProgramGoal = "hypertrophy"
	GoalEndurance      ProgramGoal = "endurance"
	GoalWeightLoss     ProgramGoal = "weight_loss"
	GoalGeneralFitness ProgramGoal = "general_fitness"
	GoalSportSpecific  ProgramGoal = "sport_specific"
)

// ExperienceLevel is the user's training experience tier.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceElite        ExperienceLevel = "elite"
)

// ProgramStatus is the lifecycle state of a training program.
type ProgramStatus string

const (
	StatusDraft     ProgramStatus = "draft"
	StatusActive    ProgramStatus = "active"
	StatusCompleted ProgramStatus = "completed"
	StatusArchived  ProgramStatus = "archived"
)

// PeriodizationModel is a strategy for varying intensity/volume across weeks.
type PeriodizationModel string

const (
	ModelLinear        PeriodizationModel = "linear"
	ModelUndulating    PeriodizationModel = "undulating"
	ModelBlock         PeriodizationModel = "block"
	ModelConjugate     PeriodizationModel = "conjugate"
	ModelReverseLinear PeriodizationModel = "reverse_linear"
)

// BlockPhase is a phase within block periodization.
type BlockPhase string

const (
	PhaseAccumulation  BlockPhase = "accumulation"  // high volume, moderate intensity
	PhaseTransmutation BlockPhase = "transmutation" // moderate volume, high intensity
	PhaseRealization   BlockPhase = "realization"   // low volume, peak intensity
)

// EffortType is the conjugate method session type.
type EffortType string

const (
	EffortMax        EffortType = "max_effort"
	EffortDynamic    EffortType = "dynamic_effort"
	EffortRepetition EffortType = "repetition_effort"
)

// ExerciseAssignment is one exercise prescribed within a workout.
type ExerciseAssignment struct {
	ExerciseID     string   `bson:"exerciseId" json:"exercise_id"`
	ExerciseName   string   `bson:"exerciseName" json:"exercise_name"`
	Sets           int      `bson:"sets" json:"sets"`
	Reps           string   `bson:"reps" json:"reps"` // range or scheme, e.g. "8-12", "5x5"
	RestSeconds    int      `bson:"restSeconds" json:"rest_seconds"`
	Order          int      `bson:"order" json:"order"`
	Notes          string   `bson:"notes,omitempty" json:"notes,omitempty"`
	PrimaryMuscles []string `bson:"primaryMuscles" json:"primary_muscles"`
	Equipment      []string `bson:"equipment" json:"equipment"`
	IsPlaceholder  bool     `bson:"isPlaceholder,omitempty" json:"is_placeholder,omitempty"`
}

// ProgramWorkout is a single session within a program week.
type ProgramWorkout struct {
	ID                    string               `bson:"_id,omitempty" json:"id"`
	WeekID                string               `bson:"weekId" json:"week_id"`
	DayOfWeek             int                  `bson:"dayOfWeek" json:"day_of_week"` // 1 (Mon) - 7 (Sun)
	Name                  string               `bson:"name" json:"name"`
	WorkoutType           string               `bson:"workoutType" json:"workout_type"` // push, pull, legs, upper, lower, full_body, arms
	TargetDurationMinutes int                  `bson:"targetDurationMinutes" json:"target_duration_minutes"`
	Exercises             []ExerciseAssignment `bson:"exercises" json:"exercises"`
	Notes                 string               `bson:"notes,omitempty" json:"notes,omitempty"`
	SortOrder             int                  `bson:"sortOrder" json:"sort_order"`
	CreatedAt             time.Time            `bson:"createdAt" json:"created_at"`
	UpdatedAt             time.Time            `bson:"updatedAt" json:"updated_at"`
}

// ProgramWeek is one week of a training program.
type ProgramWeek struct {
	ID                  string           `bson:"_id,omitempty" json:"id"`
	ProgramID           string           `bson:"programId" json:"program_id"`
	WeekNumber          int              `bson:"weekNumber" json:"week_number"`
	Focus               string           `bson:"focus,omitempty" json:"focus,omitempty"`
	IntensityPercentage int              `bson:"intensityPercentage" json:"intensity_percentage"` // 0-100
	VolumeModifier      float64          `bson:"volumeModifier" json:"volume_modifier"`
	IsDeload            bool             `bson:"isDeload" json:"is_deload"`
	Notes               string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Workouts            []ProgramWorkout `bson:"workouts,omitempty" json:"workouts"`
	CreatedAt           time.Time        `bson:"createdAt" json:"created_at"`
	UpdatedAt           time.Time        `bson:"updatedAt" json:"updated_at"`
}

// TrainingProgram is a complete multi-week training program.
type TrainingProgram struct {
	ID                 string             `bson:"_id,omitempty" json:"id"`
	UserID             string             `bson:"userId" json:"user_id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	Goal               ProgramGoal        `bson:"goal" json:"goal"`
	PeriodizationModel PeriodizationModel `bson:"periodizationModel" json:"periodization_model"`
	DurationWeeks      int                `bson:"durationWeeks" json:"duration_weeks"`
	SessionsPerWeek    int                `bson:"sessionsPerWeek" json:"sessions_per_week"`
	ExperienceLevel    ExperienceLevel    `bson:"experienceLevel" json:"experience_level"`
	EquipmentAvailable []string           `bson:"equipmentAvailable" json:"equipment_available"`
	Status             ProgramStatus      `bson:"status" json:"status"`
	Weeks              []ProgramWeek      `bson:"weeks,omitempty" json:"weeks"`
	CreatedAt          time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updated_at"`
}
