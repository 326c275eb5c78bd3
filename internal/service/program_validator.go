package service

import (
	"alcyxob/program-api/internal/domain"
	"fmt"
	"sort"
	"strings"
)

// Muscle groups checked against weekly volume bounds.
var majorMuscleGroups = []string{
	"chest", "lats", "quadriceps", "hamstrings", "glutes", "anterior_deltoid",
}

// Opposing muscle pairs checked for balance.
var muscleBalancePairs = []struct {
	label string
	a, b  []string
}{
	{"push/pull", []string{"chest", "anterior_deltoid"}, []string{"lats", "rhomboids", "rear_deltoid"}},
	{"quadriceps/hamstrings", []string{"quadriceps"}, []string{"hamstrings", "glutes"}},
	{"biceps/triceps", []string{"biceps"}, []string{"triceps"}},
}

// balanceRatioLimit is the allowed deviation between opposing muscle
// groups; 1.5 means up to 50% imbalance before a warning.
const balanceRatioLimit = 1.5

// Muscle groups affected by common free-text limitations.
var limitationMuscleMap = map[string][]string{
	"shoulder": {"anterior_deltoid", "rear_deltoid", "lateral_deltoid"},
	"back":     {"lats", "rhomboids", "erector_spinae", "lower_back"},
	"knee":     {"quadriceps", "hamstrings"},
	"hip":      {"hip_flexors", "glutes", "adductors"},
	"wrist":    {"forearms"},
	"elbow":    {"biceps", "triceps", "forearms"},
	"ankle":    {"calves", "tibialis"},
}

// ProgramValidator checks generated programs for equipment feasibility,
// exercise uniqueness, volume bounds, muscle balance and user limitations.
type ProgramValidator struct{}

// NewProgramValidator creates a validator.
func NewProgramValidator() *ProgramValidator {
	return &ProgramValidator{}
}

// ValidateProgram runs every check against the staged weeks. The program is
// valid iff no error-severity issue is found; warnings never block.
func (v *ProgramValidator) ValidateProgram(
	weeks []domain.ProgramWeek,
	availableEquipment []string,
	level domain.ExperienceLevel,
	limitations []string,
) domain.ValidationResult {
	var issues []domain.ValidationIssue

	issues = append(issues, v.checkEquipment(weeks, availableEquipment)...)
	issues = append(issues, v.checkUniqueness(weeks)...)
	issues = append(issues, v.checkVolume(weeks, level)...)
	issues = append(issues, v.checkBalance(weeks)...)
	if len(limitations) > 0 {
		issues = append(issues, v.checkLimitations(weeks, limitations)...)
	}

	errorCount, warningCount := 0, 0
	for _, i := range issues {
		switch i.Severity {
		case domain.SeverityError:
			errorCount++
		case domain.SeverityWarning:
			warningCount++
		}
	}

	isValid := errorCount == 0
	var summary string
	switch {
	case isValid && len(issues) == 0:
		summary = "Program validated successfully with no issues."
	case isValid:
		summary = fmt.Sprintf("Program valid with %d warning(s).", warningCount)
	default:
		summary = fmt.Sprintf("Program invalid: %d error(s), %d warning(s).", errorCount, warningCount)
	}

	return domain.ValidationResult{IsValid: isValid, Issues: issues, Summary: summary}
}

// ValidateWorkout runs the per-workout checks (equipment, uniqueness,
// limitations) against a single workout.
func (v *ProgramValidator) ValidateWorkout(
	workout domain.ProgramWorkout,
	availableEquipment []string,
	limitations []string,
) domain.ValidationResult {
	week := domain.ProgramWeek{WeekNumber: 1, Workouts: []domain.ProgramWorkout{workout}}
	weeks := []domain.ProgramWeek{week}

	var issues []domain.ValidationIssue
	issues = append(issues, v.checkEquipment(weeks, availableEquipment)...)
	issues = append(issues, v.checkUniqueness(weeks)...)
	if len(limitations) > 0 {
		issues = append(issues, v.checkLimitations(weeks, limitations)...)
	}

	isValid := true
	for _, i := range issues {
		if i.Severity == domain.SeverityError {
			isValid = false
			break
		}
	}
	status := "valid"
	if !isValid {
		status = "invalid"
	}
	return domain.ValidationResult{
		IsValid: isValid,
		Issues:  issues,
		Summary: fmt.Sprintf("Workout %s: %d issue(s)", status, len(issues)),
	}
}

// checkEquipment flags assignments whose equipment is not a subset of the
// available set. Available equipment is normalized the same way the
// selector normalizes it, so preset bundles and aliases resolve correctly.
func (v *ProgramValidator) checkEquipment(
	weeks []domain.ProgramWeek,
	availableEquipment []string,
) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	available := NormalizeEquipment(availableEquipment)

	for _, week := range weeks {
		for _, workout := range week.Workouts {
			location := fmt.Sprintf("Week %d, %s", week.WeekNumber, workout.Name)
			for _, ex := range workout.Exercises {
				if equipmentSatisfied(ex.Equipment, available) {
					continue
				}
				var missing []string
				for _, item := range ex.Equipment {
					name := strings.ToLower(strings.TrimSpace(item))
					if _, ok := available[name]; !ok && name != "bodyweight" {
						missing = append(missing, name)
					}
				}
				sort.Strings(missing)
				issues = append(issues, domain.ValidationIssue{
					Severity:   domain.SeverityError,
					Category:   "equipment",
					Message:    fmt.Sprintf("Exercise '%s' requires unavailable equipment: %s", ex.ExerciseName, strings.Join(missing, ", ")),
					Location:   location,
					Suggestion: "Replace with an exercise using available equipment or bodyweight",
				})
			}
		}
	}
	return issues
}

// checkUniqueness flags duplicate exercise ids within one workout.
func (v *ProgramValidator) checkUniqueness(weeks []domain.ProgramWeek) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	for _, week := range weeks {
		for _, workout := range week.Workouts {
			seen := make(map[string]struct{}, len(workout.Exercises))
			for _, ex := range workout.Exercises {
				if _, dup := seen[ex.ExerciseID]; dup {
					issues = append(issues, domain.ValidationIssue{
						Severity:   domain.SeverityError,
						Category:   "uniqueness",
						Message:    fmt.Sprintf("Duplicate exercise '%s' in same workout", ex.ExerciseName),
						Location:   fmt.Sprintf("Week %d, %s", week.WeekNumber, workout.Name),
						Suggestion: "Replace duplicate with a variation or different exercise",
					})
					continue
				}
				seen[ex.ExerciseID] = struct{}{}
			}
		}
	}
	return issues
}

// checkVolume warns when weekly per-muscle set totals fall outside the
// experience-derived bounds. Deload weeks halve both bounds.
func (v *ProgramValidator) checkVolume(
	weeks []domain.ProgramWeek,
	level domain.ExperienceLevel,
) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	minSets, maxSets := (&PeriodizationService{}).VolumeLimits(level)

	for _, week := range weeks {
		muscleSets := make(map[string]int)
		for _, workout := range week.Workouts {
			for _, ex := range workout.Exercises {
				for _, muscle := range ex.PrimaryMuscles {
					muscleSets[muscle] += ex.Sets
				}
			}
		}

		lo, hi := minSets, maxSets
		if week.IsDeload {
			lo, hi = lo/2, hi/2
		}

		location := fmt.Sprintf("Week %d", week.WeekNumber)
		for _, muscle := range majorMuscleGroups {
			sets := muscleSets[muscle]
			switch {
			case sets > 0 && sets < lo:
				issues = append(issues, domain.ValidationIssue{
					Severity:   domain.SeverityWarning,
					Category:   "volume",
					Message:    fmt.Sprintf("Low volume for %s: %d sets (minimum: %d)", muscle, sets, lo),
					Location:   location,
					Suggestion: fmt.Sprintf("Consider adding more %s exercises", muscle),
				})
			case sets > hi:
				issues = append(issues, domain.ValidationIssue{
					Severity:   domain.SeverityWarning,
					Category:   "volume",
					Message:    fmt.Sprintf("High volume for %s: %d sets (maximum: %d)", muscle, sets, hi),
					Location:   location,
					Suggestion: fmt.Sprintf("Consider reducing %s volume to prevent overtraining", muscle),
				})
			}
		}
	}
	return issues
}

// checkBalance warns when opposing muscle groups deviate beyond the
// allowed ratio across the whole program.
func (v *ProgramValidator) checkBalance(weeks []domain.ProgramWeek) []domain.ValidationIssue {
	var issues []domain.ValidationIssue

	totalSets := make(map[string]int)
	for _, week := range weeks {
		for _, workout := range week.Workouts {
			for _, ex := range workout.Exercises {
				for _, muscle := range ex.PrimaryMuscles {
					totalSets[muscle] += ex.Sets
				}
			}
		}
	}

	for _, pair := range muscleBalancePairs {
		aTotal, bTotal := 0, 0
		for _, m := range pair.a {
			aTotal += totalSets[m]
		}
		for _, m := range pair.b {
			bTotal += totalSets[m]
		}
		if aTotal == 0 || bTotal == 0 {
			continue
		}
		ratio := float64(max(aTotal, bTotal)) / float64(min(aTotal, bTotal))
		if ratio > balanceRatioLimit {
			weaker := pair.b
			if bTotal > aTotal {
				weaker = pair.a
			}
			issues = append(issues, domain.ValidationIssue{
				Severity:   domain.SeverityWarning,
				Category:   "balance",
				Message:    fmt.Sprintf("Muscle imbalance detected (%s): %d vs %d sets", pair.label, aTotal, bTotal),
				Location:   "Program-wide",
				Suggestion: fmt.Sprintf("Consider adding more work for: %s", strings.Join(weaker, ", ")),
			})
		}
	}
	return issues
}

// checkLimitations cross-references free-text limitation strings against
// the primary muscles of assigned exercises.
func (v *ProgramValidator) checkLimitations(
	weeks []domain.ProgramWeek,
	limitations []string,
) []domain.ValidationIssue {
	avoid := make(map[string]struct{})
	for _, limitation := range limitations {
		lower := strings.ToLower(limitation)
		for keyword, muscles := range limitationMuscleMap {
			if strings.Contains(lower, keyword) {
				for _, m := range muscles {
					avoid[m] = struct{}{}
				}
			}
		}
	}
	if len(avoid) == 0 {
		return nil
	}

	var issues []domain.ValidationIssue
	for _, week := range weeks {
		for _, workout := range week.Workouts {
			for _, ex := range workout.Exercises {
				var affected []string
				for _, muscle := range ex.PrimaryMuscles {
					if _, ok := avoid[muscle]; ok {
						affected = append(affected, muscle)
					}
				}
				if len(affected) > 0 {
					sort.Strings(affected)
					issues = append(issues, domain.ValidationIssue{
						Severity:   domain.SeverityWarning,
						Category:   "limitations",
						Message:    fmt.Sprintf("Exercise '%s' may aggravate limitation: targets %s", ex.ExerciseName, strings.Join(affected, ", ")),
						Location:   fmt.Sprintf("Week %d, %s", week.WeekNumber, workout.Name),
						Suggestion: "Consider replacing with a safer alternative",
					})
				}
			}
		}
	}
	return issues
}
