package service

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/repository"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TemplateScoring holds the template matching weights. The defaults are
// empirically chosen; callers may tune them via config.
type TemplateScoring struct {
	Base          float64 // goal + experience candidacy
	SessionsExact float64
	SessionsClose float64 // within SessionsTolerance
	DurationExact float64
	DurationClose float64 // within DurationTolerance
	PopularityMax float64 // usage_count normalized to [0,1]

	SessionsTolerance int
	DurationTolerance int
	PopularityCap     int // usage count at which the popularity bonus saturates
}

// DefaultTemplateScoring returns the standard matching weights.
func DefaultTemplateScoring() TemplateScoring {
	return TemplateScoring{
		Base:              20,
		SessionsExact:     30,
		SessionsClose:     15,
		DurationExact:     25,
		DurationClose:     10,
		PopularityMax:     15,
		SessionsTolerance: 1,
		DurationTolerance: 2,
		PopularityCap:     100,
	}
}

// TemplateMatch is a scored template candidate.
type TemplateMatch struct {
	Template     domain.ProgramTemplate
	Score        float64
	MatchReasons []string
}

// TemplateSelector picks the best workout-split blueprint for a request,
// or synthesizes a default split when no template qualifies.
type TemplateSelector struct {
	templateRepo repository.TemplateRepository
	scoring      TemplateScoring
	logger       *zap.Logger
}

// NewTemplateSelector creates a template selector with default scoring.
func NewTemplateSelector(templateRepo repository.TemplateRepository, logger *zap.Logger) *TemplateSelector {
	return &TemplateSelector{
		templateRepo: templateRepo,
		scoring:      DefaultTemplateScoring(),
		logger:       logger,
	}
}

// SelectBestTemplate scores all candidate templates and returns the best
// match, or nil when no template qualifies. Repository failures degrade to
// nil so generation can continue with the default structure.
func (s *TemplateSelector) SelectBestTemplate(
	ctx context.Context,
	goal domain.ProgramGoal,
	level domain.ExperienceLevel,
	sessionsPerWeek int,
	durationWeeks int,
) *TemplateMatch {
	templates, err := s.templateRepo.GetByCriteria(ctx, goal, level, durationWeeks)
	if err != nil {
		s.logger.Warn("template lookup failed, falling back to default structure",
			zap.String("goal", string(goal)),
			zap.Error(err))
		return nil
	}
	if len(templates) == 0 {
		s.logger.Info("no templates found",
			zap.String("goal", string(goal)),
			zap.String("experience", string(level)))
		return nil
	}

	// Highest total score wins; first-seen order breaks ties.
	var best *TemplateMatch
	for _, t := range templates {
		match := s.scoreTemplate(t, sessionsPerWeek, durationWeeks)
		if best == nil || match.Score > best.Score {
			best = &match
		}
	}

	s.logger.Info("selected template",
		zap.String("template", best.Template.Name),
		zap.Float64("score", best.Score),
		zap.Strings("reasons", best.MatchReasons))
	return best
}

// RecordUsage bumps the template's usage count. Best effort: a failure here
// must never abort generation.
func (s *TemplateSelector) RecordUsage(ctx context.Context, templateID string) {
	if err := s.templateRepo.IncrementUsageCount(ctx, templateID); err != nil {
		s.logger.Warn("failed to increment template usage count",
			zap.String("templateId", templateID),
			zap.Error(err))
	}
}

func (s *TemplateSelector) scoreTemplate(
	t domain.ProgramTemplate,
	sessionsPerWeek int,
	durationWeeks int,
) TemplateMatch {
	score := s.scoring.Base
	reasons := []string{"Goal and experience match"}

	sessions := t.SessionsPerWeek()
	switch {
	case sessions == sessionsPerWeek:
		score += s.scoring.SessionsExact
		reasons = append(reasons, fmt.Sprintf("Exact sessions match (%d/week)", sessionsPerWeek))
	case abs(sessions-sessionsPerWeek) <= s.scoring.SessionsTolerance:
		score += s.scoring.SessionsClose
		reasons = append(reasons, fmt.Sprintf("Close sessions match (%d vs %d)", sessions, sessionsPerWeek))
	}

	switch {
	case t.DurationWeeks == durationWeeks:
		score += s.scoring.DurationExact
		reasons = append(reasons, fmt.Sprintf("Exact duration match (%d weeks)", durationWeeks))
	case abs(t.DurationWeeks-durationWeeks) <= s.scoring.DurationTolerance:
		score += s.scoring.DurationClose
		reasons = append(reasons, fmt.Sprintf("Close duration (%d vs %d weeks)", t.DurationWeeks, durationWeeks))
	}

	popularity := float64(t.UsageCount) / float64(s.scoring.PopularityCap)
	if popularity > 1 {
		popularity = 1
	}
	score += popularity * s.scoring.PopularityMax
	if t.UsageCount > 0 {
		reasons = append(reasons, fmt.Sprintf("Used %d times", t.UsageCount))
	}

	return TemplateMatch{Template: t, Score: score, MatchReasons: reasons}
}

// DefaultStructure synthesizes a workout split keyed by sessions per week.
// This path never fails; it backs generation whenever no template qualifies.
func (s *TemplateSelector) DefaultStructure(
	goal domain.ProgramGoal,
	level domain.ExperienceLevel,
	sessionsPerWeek int,
	durationWeeks int,
) domain.TemplateStructure {
	var split splitConfig
	switch sessionsPerWeek {
	case 2:
		split = fullBodySplit()
	case 3:
		if goal == domain.GoalStrength || goal == domain.GoalHypertrophy {
			split = pushPullLegsSplit()
		} else {
			split = fullBodySplit()
		}
	case 4:
		split = upperLowerSplit()
	case 5:
		split = pplUpperLowerSplit()
	case 6:
		split = pplTwiceSplit()
	case 7:
		split = pplTwicePlusSplit()
	default:
		split = fullBodySplit()
	}

	mesocycle := durationWeeks
	if mesocycle > 4 {
		mesocycle = 4
	}

	return domain.TemplateStructure{
		MesocycleLength: mesocycle,
		DeloadFrequency: 4,
		SplitType:       split.name,
		Weeks: []domain.WeekTemplate{
			{
				WeekPattern: 1,
				Focus:       focusForGoal(goal),
				Workouts:    split.workouts,
			},
		},
	}
}

type splitConfig struct {
	name     string
	workouts []domain.WorkoutTemplate
}

func fullBodySplit() splitConfig {
	return splitConfig{
		name: "full_body",
		workouts: []domain.WorkoutTemplate{
			{DayOfWeek: 1, Name: "Full Body A", WorkoutType: "full_body",
				MuscleGroups:  []string{"chest", "lats", "quadriceps", "hamstrings", "anterior_deltoid", "biceps", "triceps"},
				ExerciseSlots: 6, TargetDurationMinutes: 60},
			{DayOfWeek: 3, Name: "Full Body B", WorkoutType: "full_body",
				MuscleGroups:  []string{"chest", "rhomboids", "glutes", "quadriceps", "rear_deltoid", "biceps", "triceps"},
				ExerciseSlots: 6, TargetDurationMinutes: 60},
			{DayOfWeek: 5, Name: "Full Body C", WorkoutType: "full_body",
				MuscleGroups:  []string{"chest", "lats", "hamstrings", "calves", "anterior_deltoid", "core"},
				ExerciseSlots: 6, TargetDurationMinutes: 60},
		},
	}
}

func pushPullLegsSplit() splitConfig {
	return splitConfig{
		name: "push_pull_legs",
		workouts: []domain.WorkoutTemplate{
			pushDay(1, "Push Day"),
			pullDay(3, "Pull Day"),
			legsDay(5, "Legs Day"),
		},
	}
}

func upperLowerSplit() splitConfig {
	return splitConfig{
		name: "upper_lower",
		workouts: []domain.WorkoutTemplate{
			{DayOfWeek: 1, Name: "Upper Body A", WorkoutType: "upper",
				MuscleGroups:  []string{"chest", "lats", "anterior_deltoid", "triceps", "biceps"},
				ExerciseSlots: 6, TargetDurationMinutes: 60},
			{DayOfWeek: 2, Name: "Lower Body A", WorkoutType: "lower",
				MuscleGroups:  []string{"quadriceps", "hamstrings", "glutes", "calves"},
				ExerciseSlots: 5, TargetDurationMinutes: 60},
			{DayOfWeek: 4, Name: "Upper Body B", WorkoutType: "upper",
				MuscleGroups:  []string{"chest", "rhomboids", "rear_deltoid", "triceps", "biceps"},
				ExerciseSlots: 6, TargetDurationMinutes: 60},
			{DayOfWeek: 5, Name: "Lower Body B", WorkoutType: "lower",
				MuscleGroups:  []string{"quadriceps", "hamstrings", "glutes", "calves"},
				ExerciseSlots: 5, TargetDurationMinutes: 60},
		},
	}
}

func pplUpperLowerSplit() splitConfig {
	return splitConfig{
		name: "ppl_upper_lower",
		workouts: []domain.WorkoutTemplate{
			pushDay(1, "Push Day"),
			pullDay(2, "Pull Day"),
			legsDay(3, "Legs Day"),
			{DayOfWeek: 5, Name: "Upper Body", WorkoutType: "upper",
				MuscleGroups:  []string{"chest", "lats", "anterior_deltoid", "triceps", "biceps"},
				ExerciseSlots: 6, TargetDurationMinutes: 60},
			{DayOfWeek: 6, Name: "Lower Body", WorkoutType: "lower",
				MuscleGroups:  []string{"quadriceps", "hamstrings", "glutes", "calves"},
				ExerciseSlots: 5, TargetDurationMinutes: 60},
		},
	}
}

func pplTwiceSplit() splitConfig {
	return splitConfig{
		name: "ppl_twice",
		workouts: []domain.WorkoutTemplate{
			pushDay(1, "Push Day A"),
			pullDay(2, "Pull Day A"),
			legsDay(3, "Legs Day A"),
			pushDay(4, "Push Day B"),
			pullDay(5, "Pull Day B"),
			legsDay(6, "Legs Day B"),
		},
	}
}

func pplTwicePlusSplit() splitConfig {
	split := pplTwiceSplit()
	split.name = "ppl_twice_plus"
	split.workouts = append(split.workouts, domain.WorkoutTemplate{
		DayOfWeek: 7, Name: "Arms & Core", WorkoutType: "arms",
		MuscleGroups:  []string{"biceps", "triceps", "forearms", "core"},
		ExerciseSlots: 6, TargetDurationMinutes: 45,
	})
	return split
}

func pushDay(day int, name string) domain.WorkoutTemplate {
	return domain.WorkoutTemplate{
		DayOfWeek: day, Name: name, WorkoutType: "push",
		MuscleGroups:  []string{"chest", "anterior_deltoid", "triceps"},
		ExerciseSlots: 5, TargetDurationMinutes: 60,
	}
}

func pullDay(day int, name string) domain.WorkoutTemplate {
	return domain.WorkoutTemplate{
		DayOfWeek: day, Name: name, WorkoutType: "pull",
		MuscleGroups:  []string{"lats", "rhomboids", "rear_deltoid", "biceps"},
		ExerciseSlots: 5, TargetDurationMinutes: 60,
	}
}

func legsDay(day int, name string) domain.WorkoutTemplate {
	return domain.WorkoutTemplate{
		DayOfWeek: day, Name: name, WorkoutType: "legs",
		MuscleGroups:  []string{"quadriceps", "hamstrings", "glutes", "calves"},
		ExerciseSlots: 5, TargetDurationMinutes: 60,
	}
}

func focusForGoal(goal domain.ProgramGoal) string {
	switch goal {
	case domain.GoalStrength:
		return "Strength Development"
	case domain.GoalHypertrophy:
		return "Muscle Building"
	case domain.GoalEndurance:
		return "Muscular Endurance"
	case domain.GoalWeightLoss:
		return "Fat Loss & Conditioning"
	case domain.GoalGeneralFitness:
		return "General Fitness"
	case domain.GoalSportSpecific:
		return "Sport Performance"
	default:
		return "General Training"
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
