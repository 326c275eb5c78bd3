package service

import (
	"alcyxob/program-api/internal/domain"
	"fmt"
	"math"
)

// TrainingFocus is what a given week emphasizes.
type TrainingFocus string

const (
	FocusStrength    TrainingFocus = "strength"
	FocusPower       TrainingFocus = "power"
	FocusHypertrophy TrainingFocus = "hypertrophy"
	FocusEndurance   TrainingFocus = "endurance"
	FocusDeload      TrainingFocus = "deload"
)

// WeekParameters holds the planned training variables for one week.
type WeekParameters struct {
	WeekNumber       int
	IntensityPercent float64 // 0.0 - 1.0
	VolumeModifier   float64 // multiplier, 0.5 = half volume
	IsDeload         bool
	Phase            domain.BlockPhase // block periodization only
	EffortType       domain.EffortType // conjugate only
	Focus            TrainingFocus
	Notes            string
}

// RepRange returns the recommended rep range for the week's intensity.
func (w WeekParameters) RepRange() string {
	intensity := w.IntensityPercent * 100
	switch {
	case intensity >= 90:
		return "1-3"
	case intensity >= 80:
		return "4-6"
	case intensity >= 70:
		return "6-8"
	default:
		return "8-12"
	}
}

type intensityRange struct {
	min, max float64
}

// Base intensity ranges by goal.
var goalIntensityRanges = map[domain.ProgramGoal]intensityRange{
	domain.GoalStrength:       {0.75, 0.95},
	domain.GoalHypertrophy:    {0.65, 0.85},
	domain.GoalEndurance:      {0.50, 0.70},
	domain.GoalWeightLoss:     {0.55, 0.75},
	domain.GoalGeneralFitness: {0.60, 0.80},
	domain.GoalSportSpecific:  {0.65, 0.90},
}

// Weeks between deloads by experience level. Unknown levels fall back to
// the intermediate cadence rather than failing the plan.
var deloadFrequency = map[domain.ExperienceLevel]int{
	domain.ExperienceBeginner:     6,
	domain.ExperienceIntermediate: 4,
	domain.ExperienceAdvanced:     3,
	domain.ExperienceElite:        2,
}

const defaultDeloadFrequency = 4

// PeriodizationService plans how training variables progress across weeks.
type PeriodizationService struct{}

// NewPeriodizationService creates a periodization service.
func NewPeriodizationService() *PeriodizationService {
	return &PeriodizationService{}
}

// SelectModel recommends a periodization model for the request parameters.
func (s *PeriodizationService) SelectModel(
	goal domain.ProgramGoal,
	level domain.ExperienceLevel,
	durationWeeks int,
) domain.PeriodizationModel {
	switch goal {
	case domain.GoalStrength:
		if level == domain.ExperienceAdvanced || level == domain.ExperienceElite {
			return domain.ModelConjugate
		}
		if durationWeeks >= 8 {
			return domain.ModelBlock
		}
		return domain.ModelLinear
	case domain.GoalHypertrophy:
		if level != domain.ExperienceBeginner {
			return domain.ModelUndulating
		}
		return domain.ModelLinear
	case domain.GoalEndurance:
		return domain.ModelReverseLinear
	case domain.GoalWeightLoss:
		return domain.ModelLinear
	case domain.GoalSportSpecific:
		if durationWeeks >= 12 {
			return domain.ModelBlock
		}
		return domain.ModelUndulating
	default:
		return domain.ModelLinear
	}
}

// PlanProgression plans parameters for every week 1..durationWeeks.
// It never fails for any combination of goal, experience level and
// duration: unrecognized values fall back to sensible defaults.
func (s *PeriodizationService) PlanProgression(
	durationWeeks int,
	goal domain.ProgramGoal,
	level domain.ExperienceLevel,
	model domain.PeriodizationModel,
) []WeekParameters {
	if durationWeeks < 1 {
		return nil
	}
	if model == "" {
		model = s.SelectModel(goal, level, durationWeeks)
	}

	weeks := make([]WeekParameters, 0, durationWeeks)
	for week := 1; week <= durationWeeks; week++ {
		weeks = append(weeks, s.WeekParameters(week, durationWeeks, model, goal, level))
	}
	return weeks
}

// WeekParameters computes the complete parameters for one week, combining
// the periodization model, deload cadence and goal-specific scaling.
func (s *PeriodizationService) WeekParameters(
	week, totalWeeks int,
	model domain.PeriodizationModel,
	goal domain.ProgramGoal,
	level domain.ExperienceLevel,
) WeekParameters {
	deloads := s.DeloadWeeks(totalWeeks, level, model)
	isDeload := false
	for _, d := range deloads {
		if d == week {
			isDeload = true
			break
		}
	}

	var (
		intensity, volumeMod float64
		phase                domain.BlockPhase
		effort               domain.EffortType
	)

	switch model {
	case domain.ModelUndulating:
		intensity, volumeMod = undulatingProgression(week, 1)
	case domain.ModelBlock:
		intensity, volumeMod, phase = blockProgression(week, totalWeeks)
	case domain.ModelConjugate:
		intensity, volumeMod, effort = conjugateProgression(week, 1)
	case domain.ModelReverseLinear:
		intensity, volumeMod = reverseLinearProgression(week, totalWeeks)
	default: // linear, including unrecognized models
		intensity, volumeMod = linearProgression(week, totalWeeks)
	}

	// Scale model output (roughly 0.50-1.0) into the goal's intensity range.
	r, ok := goalIntensityRanges[goal]
	if !ok {
		r = goalIntensityRanges[domain.GoalGeneralFitness]
	}
	normalized := clamp((intensity-0.50)/0.50, 0, 1)
	scaled := r.min + normalized*(r.max-r.min)

	if isDeload {
		scaled *= 0.6
		volumeMod *= 0.5
	}

	return WeekParameters{
		WeekNumber:       week,
		IntensityPercent: round3(scaled),
		VolumeModifier:   round3(volumeMod),
		IsDeload:         isDeload,
		Phase:            phase,
		EffortType:       effort,
		Focus:            determineFocus(scaled, isDeload, effort),
		Notes:            weekNotes(week, totalWeeks, isDeload, phase, effort),
	}
}

// DeloadWeeks returns the week numbers planned as deloads.
func (s *PeriodizationService) DeloadWeeks(
	durationWeeks int,
	level domain.ExperienceLevel,
	model domain.PeriodizationModel,
) []int {
	freq, ok := deloadFrequency[level]
	if !ok {
		freq = defaultDeloadFrequency
	}

	var deloads []int

	// Block periodization deloads at phase transitions; the realization
	// phase is for peaking, so the final week stays heavy.
	if model == domain.ModelBlock {
		accumEnd := int(float64(durationWeeks) * 0.4)
		transEnd := int(float64(durationWeeks) * 0.8)
		if accumEnd > 0 && accumEnd <= durationWeeks {
			deloads = append(deloads, accumEnd)
		}
		if transEnd > 0 && transEnd <= durationWeeks && transEnd != accumEnd {
			deloads = append(deloads, transEnd)
		}
		return deloads
	}

	for week := freq; week <= durationWeeks; week += freq {
		deloads = append(deloads, week)
	}
	// Programs of six weeks or more end on a deload to set up the next cycle.
	if durationWeeks >= 6 && (len(deloads) == 0 || deloads[len(deloads)-1] != durationWeeks) {
		deloads = append(deloads, durationWeeks)
	}
	return deloads
}

// VolumeLimits returns the weekly sets-per-muscle-group bounds for an
// experience level. Unknown levels get a broad default.
func (s *PeriodizationService) VolumeLimits(level domain.ExperienceLevel) (minSets, maxSets int) {
	switch level {
	case domain.ExperienceBeginner:
		return 8, 12
	case domain.ExperienceIntermediate:
		return 12, 18
	case domain.ExperienceAdvanced, domain.ExperienceElite:
		return 16, 25
	default:
		return 10, 20
	}
}

// linearProgression raises intensity from 0.65 to 0.95 while volume falls
// from 1.0 to 0.7.
func linearProgression(week, totalWeeks int) (intensity, volumeMod float64) {
	progress := float64(week-1) / math.Max(float64(totalWeeks-1), 1)
	return round3(0.65 + 0.30*progress), round3(1.0 - 0.30*progress)
}

// undulatingProgression follows a heavy/light/moderate session pattern with
// a small weekly intensity bonus.
func undulatingProgression(week, session int) (intensity, volumeMod float64) {
	type pattern struct{ intensity, volume float64 }
	patterns := [3]pattern{
		{0.85, 0.8}, // heavy
		{0.65, 1.2}, // light
		{0.75, 1.0}, // moderate
	}
	p := patterns[(session-1)%3]
	bonus := math.Min(0.02*float64(week-1), 0.10)
	return round3(math.Min(p.intensity+bonus, 0.95)), round3(p.volume)
}

// blockProgression splits the program 40/40/20 into accumulation,
// transmutation and realization phases.
func blockProgression(week, totalWeeks int) (intensity, volumeMod float64, phase domain.BlockPhase) {
	accumEnd := int(float64(totalWeeks) * 0.4)
	transEnd := int(float64(totalWeeks) * 0.8)

	switch {
	case week <= accumEnd:
		phase = domain.PhaseAccumulation
		progress := phaseProgress(week, 1, accumEnd)
		intensity = 0.65 + 0.05*progress
		volumeMod = 1.2 - 0.1*progress
	case week <= transEnd:
		phase = domain.PhaseTransmutation
		progress := phaseProgress(week, accumEnd+1, transEnd)
		intensity = 0.75 + 0.10*progress
		volumeMod = 1.0 - 0.15*progress
	default:
		phase = domain.PhaseRealization
		progress := phaseProgress(week, transEnd+1, totalWeeks)
		intensity = 0.88 + 0.07*progress
		volumeMod = 0.75 - 0.15*progress
	}
	return round3(intensity), round3(volumeMod), phase
}

func phaseProgress(week, first, last int) float64 {
	if last <= first {
		return 0
	}
	return float64(week-first) / float64(last-first)
}

// conjugateProgression rotates max/dynamic/repetition effort with 3-week
// intensity waves.
func conjugateProgression(week, session int) (intensity, volumeMod float64, effort domain.EffortType) {
	rotation := [4]domain.EffortType{
		domain.EffortMax,
		domain.EffortDynamic,
		domain.EffortRepetition,
		domain.EffortMax,
	}
	effort = rotation[(session-1)%len(rotation)]

	switch effort {
	case domain.EffortMax:
		intensity, volumeMod = 0.92, 0.6
	case domain.EffortDynamic:
		intensity, volumeMod = 0.55, 1.3
	default:
		intensity, volumeMod = 0.70, 1.1
	}

	wave := [3]float64{-0.03, 0, 0.03}[(week-1)%3]
	intensity = clamp(intensity+wave, 0.50, 0.98)
	return round3(intensity), round3(volumeMod), effort
}

// reverseLinearProgression lowers intensity from 0.90 to 0.60 while volume
// grows from 0.7 to 1.3.
func reverseLinearProgression(week, totalWeeks int) (intensity, volumeMod float64) {
	progress := float64(week-1) / math.Max(float64(totalWeeks-1), 1)
	return round3(0.90 - 0.30*progress), round3(0.7 + 0.60*progress)
}

func determineFocus(intensity float64, isDeload bool, effort domain.EffortType) TrainingFocus {
	if isDeload {
		return FocusDeload
	}
	switch effort {
	case domain.EffortMax:
		return FocusStrength
	case domain.EffortDynamic:
		return FocusPower
	case domain.EffortRepetition:
		return FocusHypertrophy
	}

	pct := intensity * 100
	switch {
	case pct >= 85:
		return FocusStrength
	case pct >= 75:
		return FocusPower
	case pct >= 65:
		return FocusHypertrophy
	default:
		return FocusEndurance
	}
}

func weekNotes(week, totalWeeks int, isDeload bool, phase domain.BlockPhase, effort domain.EffortType) string {
	if isDeload {
		return "Deload week - reduce weights and focus on recovery"
	}
	switch phase {
	case domain.PhaseAccumulation:
		return "Accumulation phase - focus on volume and technique"
	case domain.PhaseTransmutation:
		return "Transmutation phase - increase intensity, maintain technique"
	case domain.PhaseRealization:
		return "Realization phase - peak performance, test maxes"
	}
	switch effort {
	case domain.EffortMax:
		return "Max effort day - work up to heavy singles/triples"
	case domain.EffortDynamic:
		return "Dynamic effort - focus on speed and explosiveness"
	case domain.EffortRepetition:
		return "Repetition effort - hypertrophy focus with controlled tempo"
	}
	switch week {
	case 1:
		return "Program start - establish baseline weights"
	case totalWeeks:
		return "Final week - test progress and reassess goals"
	}
	return ""
}

// FocusLabel maps a week's parameters to user-facing focus text.
func FocusLabel(params WeekParameters, goal domain.ProgramGoal) string {
	if params.IsDeload {
		return "Recovery & Deload"
	}
	switch params.Phase {
	case domain.PhaseAccumulation:
		return "Volume Accumulation"
	case domain.PhaseTransmutation:
		return "Intensity Transmutation"
	case domain.PhaseRealization:
		return "Peak Realization"
	}
	switch goal {
	case domain.GoalStrength:
		return "Strength Development"
	case domain.GoalHypertrophy:
		return "Muscle Building"
	case domain.GoalEndurance:
		return "Endurance Training"
	case domain.GoalWeightLoss:
		return "Fat Loss"
	case domain.GoalGeneralFitness:
		return "General Fitness"
	default:
		return "Training"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// String implements fmt.Stringer for debug logging.
func (w WeekParameters) String() string {
	return fmt.Sprintf("week %d: intensity=%.0f%% volume=%.2f deload=%t", w.WeekNumber, w.IntensityPercent*100, w.VolumeModifier, w.IsDeload)
}
