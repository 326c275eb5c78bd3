// internal/domain/template.go
package domain

import "time"

// WorkoutTemplate describes one workout slot inside a template week.
type WorkoutTemplate struct {
	DayOfWeek             int      `bson:"dayOfWeek" json:"day_of_week"`
	Name                  string   `bson:"name" json:"name"`
	WorkoutType           string   `bson:"workoutType" json:"workout_type"`
	MuscleGroups          []string `bson:"muscleGroups" json:"muscle_groups"`
	ExerciseSlots         int      `bson:"exerciseSlots" json:"exercise_slots"`
	TargetDurationMinutes int      `bson:"targetDurationMinutes" json:"target_duration_minutes"`
}

// WeekTemplate is the repeating weekly pattern of a template structure.
type WeekTemplate struct {
	WeekPattern int               `bson:"weekPattern" json:"week_pattern"`
	Focus       string            `bson:"focus,omitempty" json:"focus,omitempty"`
	Workouts    []WorkoutTemplate `bson:"workouts" json:"workouts"`
}

// TemplateStructure is the workout-split blueprint carried by a template.
type TemplateStructure struct {
	MesocycleLength int            `bson:"mesocycleLength" json:"mesocycle_length"`
	DeloadFrequency int            `bson:"deloadFrequency" json:"deload_frequency"`
	SplitType       string         `bson:"splitType" json:"split_type"`
	Weeks           []WeekTemplate `bson:"weeks" json:"weeks"`
}

// ProgramTemplate is a reusable program blueprint keyed by goal,
// experience level and duration.
type ProgramTemplate struct {
	ID              string            `bson:"_id,omitempty" json:"id"`
	Name            string            `bson:"name" json:"name"`
	Goal            ProgramGoal       `bson:"goal" json:"goal"`
	ExperienceLevel ExperienceLevel   `bson:"experienceLevel" json:"experience_level"`
	DurationWeeks   int               `bson:"durationWeeks" json:"duration_weeks"`
	Structure       TemplateStructure `bson:"structure" json:"structure"`
	IsSystem        bool              `bson:"isSystem" json:"is_system"`
	UsageCount      int               `bson:"usageCount" json:"usage_count"`
	CreatedAt       time.Time         `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updated_at"`
}

// SessionsPerWeek derives the weekly session count from the structure,
// defaulting to 3 when the structure carries no workouts.
func (t *ProgramTemplate) SessionsPerWeek() int {
	if len(t.Structure.Weeks) == 0 {
		return 3
	}
	n := len(t.Structure.Weeks[0].Workouts)
	if n == 0 {
		return 3
	}
	return n
}
