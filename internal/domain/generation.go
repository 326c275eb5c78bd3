// internal/domain/generation.go
package domain

// GenerationRequest holds the parameters for one program generation call.
type GenerationRequest struct {
	Goal               ProgramGoal     `json:"goal" binding:"required"`
	DurationWeeks      int             `json:"duration_weeks" binding:"required,min=1,max=52"`
	SessionsPerWeek    int             `json:"sessions_per_week" binding:"required,min=1,max=7"`
	ExperienceLevel    ExperienceLevel `json:"experience_level" binding:"required"`
	EquipmentAvailable []string        `json:"equipment_available"`
	FocusAreas         []string        `json:"focus_areas"`
	Limitations        []string        `json:"limitations"`
	Preferences        string          `json:"preferences,omitempty"`
}

// GenerationMetadata describes how a program was produced.
type GenerationMetadata struct {
	TemplateID            string             `json:"template_id,omitempty"`
	PeriodizationModel    PeriodizationModel `json:"periodization_model"`
	GenerationTimeSeconds float64            `json:"generation_time_seconds"`
	LLMUsed               bool               `json:"llm_used"`
	ValidationPassed      bool               `json:"validation_passed"`
	WarningCount          int                `json:"warning_count"`
}

// GenerationResponse is the result of a successful generation call.
type GenerationResponse struct {
	Program     *TrainingProgram   `json:"program"`
	Metadata    GenerationMetadata `json:"generation_metadata"`
	Suggestions []string           `json:"suggestions"`
}
