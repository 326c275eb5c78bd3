package service

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/metrics"
	"alcyxob/program-api/internal/repository"
	"alcyxob/program-api/internal/taskpool"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	// ErrValidationFailed means the generated program had error-severity
	// validation issues. Nothing was persisted.
	ErrValidationFailed = errors.New("generated program failed validation")
	// ErrPersistenceFailed means the atomic creation raised. The repository
	// guarantees zero partial writes.
	ErrPersistenceFailed = errors.New("program persistence failed")
)

// defaultPoolWidth bounds concurrent blocking collaborator calls when the
// caller does not configure a width.
const defaultPoolWidth = 4

// Rep schemes by goal: rep range, sets, rest seconds.
type repScheme struct {
	reps string
	sets int
	rest int
}

var goalRepSchemes = map[domain.ProgramGoal]repScheme{
	domain.GoalStrength:       {"3-5", 4, 150},
	domain.GoalHypertrophy:    {"8-12", 4, 90},
	domain.GoalEndurance:      {"15-20", 3, 60},
	domain.GoalWeightLoss:     {"12-15", 3, 45},
	domain.GoalGeneralFitness: {"10-15", 3, 60},
}

var defaultRepScheme = repScheme{"8-12", 3, 90}

// Movement patterns driving compound selection per workout type.
var workoutTypePatterns = map[string][]string{
	"push":      {"push"},
	"pull":      {"pull"},
	"legs":      {"squat", "hinge"},
	"upper":     {"push", "pull"},
	"lower":     {"squat", "hinge"},
	"full_body": {"push", "pull", "squat", "hinge"},
}

// ProgramGenerator orchestrates the full generation pipeline: template
// selection, periodization planning, exercise selection (LLM-assisted with
// deterministic fallback), validation and atomic persistence.
type ProgramGenerator struct {
	programRepo      repository.ProgramRepository
	exerciseRepo     repository.ExerciseRepository
	templateSelector *TemplateSelector
	periodization    *PeriodizationService
	exerciseSelector *ExerciseSelector
	validator        *ProgramValidator
	picker           ExercisePicker // optional; nil disables the LLM path
	pool             *taskpool.Pool
	logger           *zap.Logger
}

// NewProgramGenerator creates the orchestrator. picker may be nil, in which
// case every workout uses the deterministic selector. poolWidth <= 0 uses
// the default.
func NewProgramGenerator(
	programRepo repository.ProgramRepository,
	templateRepo repository.TemplateRepository,
	exerciseRepo repository.ExerciseRepository,
	picker ExercisePicker,
	poolWidth int,
	logger *zap.Logger,
) *ProgramGenerator {
	if poolWidth <= 0 {
		poolWidth = defaultPoolWidth
	}
	return &ProgramGenerator{
		programRepo:      programRepo,
		exerciseRepo:     exerciseRepo,
		templateSelector: NewTemplateSelector(templateRepo, logger),
		periodization:    NewPeriodizationService(),
		exerciseSelector: NewExerciseSelector(exerciseRepo, logger),
		validator:        NewProgramValidator(),
		picker:           picker,
		pool:             taskpool.New(int64(poolWidth)),
		logger:           logger,
	}
}

// Generate produces and persists a complete training program.
//
// Flow:
//  1. Select best matching template (or synthesize the default structure)
//  2. Select the periodization model and plan per-week parameters
//  3. Fill each workout's exercise slots (LLM first, deterministic fallback)
//  4. Validate the staged program; errors abort before any persistence
//  5. Persist program + weeks + workouts atomically
//  6. Assemble the response with metadata and suggestions
//
// Only ErrValidationFailed and ErrPersistenceFailed surface to the caller;
// collaborator and LLM failures are compensated internally and reported
// through metadata and suggestions.
func (g *ProgramGenerator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
	userID string,
) (*domain.GenerationResponse, error) {
	g.logger.Info("generating program",
		zap.String("userId", userID),
		zap.String("goal", string(req.Goal)),
		zap.Int("durationWeeks", req.DurationWeeks),
		zap.Int("sessionsPerWeek", req.SessionsPerWeek))

	start := time.Now()
	var suggestions []string

	// Step 1: template selection; never fails the call.
	match, err := taskpool.Run(ctx, g.pool, func(ctx context.Context) (*TemplateMatch, error) {
		return g.templateSelector.SelectBestTemplate(ctx, req.Goal, req.ExperienceLevel, req.SessionsPerWeek, req.DurationWeeks), nil
	})
	if err != nil {
		return nil, err // only context cancellation or pool shutdown
	}

	var structure domain.TemplateStructure
	var templateID string
	if match != nil {
		structure = match.Template.Structure
		templateID = match.Template.ID
		suggestions = append(suggestions, fmt.Sprintf("Using template: %s", match.Template.Name))
		// Best effort; a failed increment never aborts generation.
		_ = g.pool.Submit(ctx, func(ctx context.Context) error {
			g.templateSelector.RecordUsage(ctx, templateID)
			return nil
		})
	} else {
		structure = g.templateSelector.DefaultStructure(req.Goal, req.ExperienceLevel, req.SessionsPerWeek, req.DurationWeeks)
		suggestions = append(suggestions, "Using default workout structure")
		metrics.TemplateFallbacks.Inc()
	}

	// Step 2: periodization.
	model := g.periodization.SelectModel(req.Goal, req.ExperienceLevel, req.DurationWeeks)
	weekParams := g.periodization.PlanProgression(req.DurationWeeks, req.Goal, req.ExperienceLevel, model)
	suggestions = append(suggestions, fmt.Sprintf("Using %s periodization", model))

	// Step 3: weeks with workouts and exercises.
	llmUsed := false
	weeks, err := g.generateWeeks(ctx, req, structure, weekParams, &llmUsed)
	if err != nil {
		return nil, err
	}

	// Step 4: validation. Error-severity issues abort before persistence.
	validation := g.validator.ValidateProgram(weeks, req.EquipmentAvailable, req.ExperienceLevel, req.Limitations)
	if !validation.IsValid {
		var messages []string
		for _, issue := range validation.Errors() {
			messages = append(messages, issue.Message)
		}
		metrics.GenerationsTotal.WithLabelValues(string(req.Goal), "validation_failed").Inc()
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(messages, "; "))
	}
	for _, issue := range validation.Warnings() {
		suggestions = append(suggestions, "Note: "+issue.Message)
	}

	// Step 5: atomic persistence. Stage the full batch, one transactional
	// write; on failure nothing has been written.
	now := time.Now().UTC()
	program := &domain.TrainingProgram{
		UserID:             userID,
		Name:               programName(req),
		Description:        programDescription(req),
		Goal:               req.Goal,
		PeriodizationModel: model,
		DurationWeeks:      req.DurationWeeks,
		SessionsPerWeek:    req.SessionsPerWeek,
		ExperienceLevel:    req.ExperienceLevel,
		EquipmentAvailable: req.EquipmentAvailable,
		Status:             domain.StatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	batch := make([]repository.WeekWithWorkouts, len(weeks))
	for i, week := range weeks {
		batch[i] = repository.WeekWithWorkouts{Week: week, Workouts: week.Workouts}
	}

	created, err := taskpool.Run(ctx, g.pool, func(ctx context.Context) (*repository.CreatedProgram, error) {
		return g.programRepo.CreateProgramAtomic(ctx, program, batch)
	})
	if err != nil {
		g.logger.Error("atomic program creation failed", zap.Error(err))
		metrics.GenerationsTotal.WithLabelValues(string(req.Goal), "persistence_failed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	// Step 6: response assembly.
	result := created.Program
	result.Weeks = created.Weeks
	for i := range result.Weeks {
		result.Weeks[i].Workouts = nil
		for _, workout := range created.Workouts {
			if workout.WeekID == result.Weeks[i].ID {
				result.Weeks[i].Workouts = append(result.Weeks[i].Workouts, workout)
			}
		}
		sort.SliceStable(result.Weeks[i].Workouts, func(a, b int) bool {
			return result.Weeks[i].Workouts[a].SortOrder < result.Weeks[i].Workouts[b].SortOrder
		})
	}

	elapsed := time.Since(start)
	metrics.GenerationDuration.Observe(elapsed.Seconds())
	metrics.GenerationsTotal.WithLabelValues(string(req.Goal), "success").Inc()
	g.logger.Info("program generation completed",
		zap.String("programId", result.ID),
		zap.Duration("elapsed", elapsed))

	return &domain.GenerationResponse{
		Program: result,
		Metadata: domain.GenerationMetadata{
			TemplateID:            templateID,
			PeriodizationModel:    model,
			GenerationTimeSeconds: round2(elapsed.Seconds()),
			LLMUsed:               llmUsed,
			ValidationPassed:      validation.IsValid,
			WarningCount:          len(validation.Warnings()),
		},
		Suggestions: suggestions,
	}, nil
}

// generateWeeks builds every week with its workouts and exercises. The
// first week template repeats across all weeks; periodization parameters
// vary per week.
func (g *ProgramGenerator) generateWeeks(
	ctx context.Context,
	req domain.GenerationRequest,
	structure domain.TemplateStructure,
	weekParams []WeekParameters,
	llmUsed *bool,
) ([]domain.ProgramWeek, error) {
	var workoutTemplates []domain.WorkoutTemplate
	if len(structure.Weeks) > 0 {
		workoutTemplates = structure.Weeks[0].Workouts
	}

	weeks := make([]domain.ProgramWeek, 0, len(weekParams))
	for _, params := range weekParams {
		week := domain.ProgramWeek{
			WeekNumber:          params.WeekNumber,
			Focus:               FocusLabel(params, req.Goal),
			IntensityPercentage: int(params.IntensityPercent * 100),
			VolumeModifier:      params.VolumeModifier,
			IsDeload:            params.IsDeload,
		}
		if params.IsDeload {
			week.Notes = "Deload week - reduced volume and intensity"
		}

		for idx, tmpl := range workoutTemplates {
			workout, err := g.generateWorkout(ctx, tmpl, req, params, idx, llmUsed)
			if err != nil {
				return nil, err
			}
			week.Workouts = append(week.Workouts, workout)
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// generateWorkout fills a single workout's exercise slots.
func (g *ProgramGenerator) generateWorkout(
	ctx context.Context,
	tmpl domain.WorkoutTemplate,
	req domain.GenerationRequest,
	params WeekParameters,
	sortOrder int,
	llmUsed *bool,
) (domain.ProgramWorkout, error) {
	slots := tmpl.ExerciseSlots
	if slots <= 0 {
		slots = 5
	}
	// Deload weeks run shorter sessions.
	if params.IsDeload && slots > 3 {
		slots -= 2
		if slots < 3 {
			slots = 3
		}
	}

	// Presets and aliases must expand before hitting the store; the raw
	// request strings ("full_gym") match nothing there.
	equipmentSet := NormalizeEquipment(req.EquipmentAvailable)
	equipment := make([]string, 0, len(equipmentSet))
	for item := range equipmentSet {
		equipment = append(equipment, item)
	}
	sort.Strings(equipment)

	available, err := taskpool.Run(ctx, g.pool, func(ctx context.Context) ([]domain.Exercise, error) {
		return g.exerciseRepo.Search(ctx, domain.ExerciseFilter{
			MuscleGroups: tmpl.MuscleGroups,
			Equipment:    equipment,
			Limit:        50,
		})
	})
	if err != nil {
		// Collaborator degradation: the deterministic selector synthesizes
		// placeholders when the library is unreachable.
		g.logger.Warn("exercise lookup failed, continuing with fallback selection", zap.Error(err))
		available = nil
	}

	exercises := g.selectExercises(ctx, tmpl, req, params, slots, available, llmUsed)

	dayOfWeek := tmpl.DayOfWeek
	if dayOfWeek < 1 || dayOfWeek > 7 {
		dayOfWeek = sortOrder%7 + 1
	}
	name := tmpl.Name
	if name == "" {
		name = fmt.Sprintf("%s Workout", titleCase(tmpl.WorkoutType))
	}
	duration := tmpl.TargetDurationMinutes
	if duration <= 0 {
		duration = 60
	}

	return domain.ProgramWorkout{
		DayOfWeek:             dayOfWeek,
		Name:                  name,
		WorkoutType:           tmpl.WorkoutType,
		TargetDurationMinutes: duration,
		Exercises:             exercises,
		SortOrder:             sortOrder,
	}, nil
}

// selectExercises tries the LLM picker first when configured and candidate
// exercises exist; any failure falls back silently and losslessly to the
// deterministic selector.
func (g *ProgramGenerator) selectExercises(
	ctx context.Context,
	tmpl domain.WorkoutTemplate,
	req domain.GenerationRequest,
	params WeekParameters,
	slots int,
	available []domain.Exercise,
	llmUsed *bool,
) []domain.ExerciseAssignment {
	if g.picker != nil && len(available) > 0 {
		resp, err := taskpool.Run(ctx, g.pool, func(ctx context.Context) (*PickResponse, error) {
			return g.picker.PickExercises(ctx, PickRequest{
				WorkoutType:        tmpl.WorkoutType,
				MuscleGroups:       tmpl.MuscleGroups,
				Equipment:          req.EquipmentAvailable,
				ExerciseCount:      slots,
				IntensityPercent:   params.IntensityPercent,
				VolumeModifier:     params.VolumeModifier,
				AvailableExercises: available,
				Limitations:        req.Limitations,
				ExperienceLevel:    req.ExperienceLevel,
				Goal:               req.Goal,
				IsDeload:           params.IsDeload,
			})
		})
		if err == nil {
			*llmUsed = true
			return g.assignmentsFromPick(resp, available)
		}
		g.logger.Warn("LLM exercise selection failed, using fallback",
			zap.String("workoutType", tmpl.WorkoutType),
			zap.Error(err))
		metrics.LLMSelectionFallbacks.Inc()
	}

	return g.fallbackSelection(ctx, tmpl, req, params, slots, available)
}

func (g *ProgramGenerator) assignmentsFromPick(resp *PickResponse, available []domain.Exercise) []domain.ExerciseAssignment {
	byID := make(map[string]domain.Exercise, len(available))
	for _, ex := range available {
		byID[ex.ID] = ex
	}

	assignments := make([]domain.ExerciseAssignment, 0, len(resp.Exercises))
	for _, picked := range resp.Exercises {
		assignment := domain.ExerciseAssignment{
			ExerciseID:   picked.ExerciseID,
			ExerciseName: picked.ExerciseName,
			Sets:         picked.Sets,
			Reps:         picked.Reps,
			RestSeconds:  picked.RestSeconds,
			Notes:        picked.Notes,
			Order:        picked.Order,
		}
		if ex, ok := byID[picked.ExerciseID]; ok {
			assignment.PrimaryMuscles = ex.PrimaryMuscles
			assignment.Equipment = ex.Equipment
		}
		assignments = append(assignments, assignment)
	}
	return assignments
}

// fallbackSelection is the deterministic path: compound exercises for each
// required movement pattern first, isolation fill next, then a naive
// category sort over the remaining candidates if slots are still open.
func (g *ProgramGenerator) fallbackSelection(
	ctx context.Context,
	tmpl domain.WorkoutTemplate,
	req domain.GenerationRequest,
	params WeekParameters,
	slots int,
	available []domain.Exercise,
) []domain.ExerciseAssignment {
	var selected []domain.Exercise
	var excludeIDs []string

	preferCompound := req.Goal == domain.GoalStrength ||
		req.Goal == domain.GoalHypertrophy ||
		req.Goal == domain.GoalGeneralFitness

	patterns := workoutTypePatterns[tmpl.WorkoutType]

	compoundCount := 1
	if preferCompound {
		compoundCount = slots / 2
		if compoundCount < 2 {
			compoundCount = 2
		}
	}
	if compoundCount > len(patterns) {
		compoundCount = len(patterns)
	}

	supports1RM := req.Goal == domain.GoalStrength
	for _, pattern := range patterns[:compoundCount] {
		reqs := SlotRequirements{
			MovementPattern: pattern,
			TargetMuscles:   tmpl.MuscleGroups,
		}
		if preferCompound {
			reqs.Category = "compound"
		}
		if supports1RM {
			v := true
			reqs.Supports1RM = &v
		}
		if ex := g.exerciseSelector.FillSlot(ctx, reqs, req.EquipmentAvailable, excludeIDs); ex != nil {
			selected = append(selected, *ex)
			excludeIDs = append(excludeIDs, ex.ID)
		}
	}

	// Isolation fill for the remaining slots.
	for len(selected) < slots {
		reqs := SlotRequirements{TargetMuscles: tmpl.MuscleGroups}
		if preferCompound {
			reqs.Category = "isolation"
		}
		ex := g.exerciseSelector.FillSlot(ctx, reqs, req.EquipmentAvailable, excludeIDs)
		if ex == nil {
			break
		}
		selected = append(selected, *ex)
		excludeIDs = append(excludeIDs, ex.ID)
	}

	// Naive category sort over leftover candidates when slots remain.
	if len(selected) < slots && len(available) > 0 {
		chosen := make(map[string]struct{}, len(selected))
		for _, ex := range selected {
			chosen[ex.ID] = struct{}{}
		}
		var remaining []domain.Exercise
		for _, ex := range available {
			if _, ok := chosen[ex.ID]; !ok {
				remaining = append(remaining, ex)
			}
		}
		sort.SliceStable(remaining, func(i, j int) bool {
			iCompound := remaining[i].Category == "compound"
			jCompound := remaining[j].Category == "compound"
			if iCompound != jCompound {
				return iCompound
			}
			return remaining[i].Name < remaining[j].Name
		})
		need := slots - len(selected)
		if need > len(remaining) {
			need = len(remaining)
		}
		selected = append(selected, remaining[:need]...)
	}

	scheme, ok := goalRepSchemes[req.Goal]
	if !ok {
		scheme = defaultRepScheme
	}
	sets := scheme.sets
	if params.IsDeload && sets > 2 {
		sets--
	}

	if len(selected) > slots {
		selected = selected[:slots]
	}

	assignments := make([]domain.ExerciseAssignment, 0, len(selected))
	for i, ex := range selected {
		assignments = append(assignments, domain.ExerciseAssignment{
			ExerciseID:     ex.ID,
			ExerciseName:   ex.Name,
			Sets:           sets,
			Reps:           scheme.reps,
			RestSeconds:    scheme.rest,
			Order:          i + 1,
			PrimaryMuscles: ex.PrimaryMuscles,
			Equipment:      ex.Equipment,
			IsPlaceholder:  ex.IsPlaceholder,
		})
	}
	return assignments
}

func programName(req domain.GenerationRequest) string {
	var goalName string
	switch req.Goal {
	case domain.GoalStrength:
		goalName = "Strength"
	case domain.GoalHypertrophy:
		goalName = "Hypertrophy"
	case domain.GoalEndurance:
		goalName = "Endurance"
	case domain.GoalWeightLoss:
		goalName = "Fat Loss"
	case domain.GoalGeneralFitness:
		goalName = "Fitness"
	default:
		goalName = titleCase(string(req.Goal))
	}
	return fmt.Sprintf("%d-Week %s Program", req.DurationWeeks, goalName)
}

func programDescription(req domain.GenerationRequest) string {
	goal := strings.ReplaceAll(string(req.Goal), "_", " ")
	return fmt.Sprintf("A %d-week %s program designed for %s lifters, with %d sessions per week.",
		req.DurationWeeks, goal, req.ExperienceLevel, req.SessionsPerWeek)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
