// internal/domain/exercise.go
package domain

// Exercise is a single exercise definition from the exercise library.
// Exercises are read-only reference data during program generation.
type Exercise struct {
	ID               string   `bson:"_id,omitempty" json:"id"` // slug identifier, e.g. "barbell-bench-press"
	Name             string   `bson:"name" json:"name"`
	PrimaryMuscles   []string `bson:"primaryMuscles" json:"primary_muscles"`
	SecondaryMuscles []string `bson:"secondaryMuscles,omitempty" json:"secondary_muscles,omitempty"`
	Equipment        []string `bson:"equipment" json:"equipment"` // empty means bodyweight
	Category         string   `bson:"category" json:"category"`  // compound, isolation, cardio
	MovementPattern  string   `bson:"movementPattern,omitempty" json:"movement_pattern,omitempty"`
	Supports1RM      bool     `bson:"supports1rm" json:"supports_1rm"`
	IsPlaceholder    bool     `bson:"-" json:"is_placeholder,omitempty"` // synthesized, never persisted
}

// ExerciseFilter holds search criteria for the exercise library.
// Zero-value fields are ignored by the search.
type ExerciseFilter struct {
	MuscleGroups    []string
	Equipment       []string
	MovementPattern string
	Category        string
	Supports1RM     *bool
	Limit           int
}
