package service

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/repository"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// Named equipment presets that expand into their constituent items.
var equipmentPresets = map[string][]string{
	"full_gym": {
		"barbell", "dumbbells", "cables", "machines", "bench", "rack",
		"pull_up_bar", "leg_press_machine", "leg_curl_machine",
	},
	"home_basic": {
		"dumbbells", "bench", "resistance_bands", "pull_up_bar",
	},
	"home_advanced": {
		"barbell", "dumbbells", "bench", "rack", "cables", "pull_up_bar",
	},
	"bodyweight": {
		"bodyweight", "pull_up_bar",
	},
}

// Known aliases mapped to canonical equipment names.
var equipmentAliases = map[string]string{
	"dumbbell":      "dumbbells",
	"cable":         "cables",
	"machine":       "machines",
	"power_rack":    "rack",
	"squat_rack":    "rack",
	"pullup_bar":    "pull_up_bar",
	"pull-up_bar":   "pull_up_bar",
	"flat_bench":    "bench",
	"barbell_bench": "bench",
	"incline_bench": "bench",
}

// SlotRequirements describes one exercise slot in a workout.
type SlotRequirements struct {
	MovementPattern    string
	TargetMuscles      []string
	Category           string // compound, isolation
	Supports1RM        *bool
	PreferredEquipment []string
}

// SelectorWeights holds the exercise scoring weights. The defaults are
// empirically chosen; callers may tune them via config.
type SelectorWeights struct {
	MuscleOverlap      float64 // × fraction of target muscles covered
	CategoryMatch      float64
	PatternMatch       float64
	PreferredEquipment float64
	OneRMMatch         float64
	CompoundBonus      float64
}

// DefaultSelectorWeights returns the standard scoring weights (max ≈1.10).
func DefaultSelectorWeights() SelectorWeights {
	return SelectorWeights{
		MuscleOverlap:      0.40,
		CategoryMatch:      0.30,
		PatternMatch:       0.20,
		PreferredEquipment: 0.10,
		OneRMMatch:         0.05,
		CompoundBonus:      0.05,
	}
}

// ExerciseSelector fills workout exercise slots under equipment and
// movement-pattern constraints, synthesizing placeholders when the library
// has no qualifying candidate.
type ExerciseSelector struct {
	exerciseRepo   repository.ExerciseRepository
	weights        SelectorWeights
	logger         *zap.Logger
	placeholderSeq atomic.Uint64 // monotonic, keeps placeholder ids collision-free
}

// NewExerciseSelector creates an exercise selector with default weights.
func NewExerciseSelector(exerciseRepo repository.ExerciseRepository, logger *zap.Logger) *ExerciseSelector {
	return &ExerciseSelector{
		exerciseRepo: exerciseRepo,
		weights:      DefaultSelectorWeights(),
		logger:       logger,
	}
}

// NormalizeEquipment lower-cases and trims equipment names, expands named
// presets, maps aliases to canonical names and removes duplicates.
func NormalizeEquipment(equipment []string) map[string]struct{} {
	normalized := make(map[string]struct{}, len(equipment))
	for _, item := range equipment {
		name := strings.ToLower(strings.TrimSpace(item))
		if name == "" {
			continue
		}
		if preset, ok := equipmentPresets[name]; ok {
			for _, p := range preset {
				normalized[p] = struct{}{}
			}
			continue
		}
		if canonical, ok := equipmentAliases[name]; ok {
			normalized[canonical] = struct{}{}
			continue
		}
		normalized[name] = struct{}{}
	}
	return normalized
}

// equipmentSatisfied reports whether an exercise's required equipment is a
// subset of the available set. Required names pass through the alias table
// so library data tagged "squat_rack" matches an available "rack". Exercises
// needing no equipment (or only bodyweight) always qualify.
func equipmentSatisfied(required []string, available map[string]struct{}) bool {
	for _, item := range required {
		name := strings.ToLower(strings.TrimSpace(item))
		if name == "" || name == "bodyweight" {
			continue
		}
		if canonical, ok := equipmentAliases[name]; ok {
			name = canonical
		}
		if _, ok := available[name]; !ok {
			return false
		}
	}
	return true
}

// FillSlot returns the best qualifying exercise for the slot, or a
// synthesized placeholder when nothing in the library qualifies. Lookup
// failures also degrade to the placeholder path.
func (s *ExerciseSelector) FillSlot(
	ctx context.Context,
	req SlotRequirements,
	availableEquipment []string,
	excludeIDs []string,
) *domain.Exercise {
	available := NormalizeEquipment(availableEquipment)
	exclude := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		exclude[id] = struct{}{}
	}

	equipmentList := make([]string, 0, len(available))
	for item := range available {
		equipmentList = append(equipmentList, item)
	}
	sort.Strings(equipmentList)

	candidates, err := s.exerciseRepo.Search(ctx, domain.ExerciseFilter{
		MuscleGroups:    req.TargetMuscles,
		Equipment:       equipmentList,
		MovementPattern: req.MovementPattern,
		Category:        req.Category,
		Supports1RM:     req.Supports1RM,
		Limit:           50,
	})
	if err != nil {
		s.logger.Warn("exercise search failed, synthesizing placeholder",
			zap.String("pattern", req.MovementPattern),
			zap.Error(err))
		return s.placeholder(req)
	}

	qualifying := candidates[:0:0]
	for _, ex := range candidates {
		if _, excluded := exclude[ex.ID]; excluded {
			continue
		}
		if equipmentSatisfied(ex.Equipment, available) {
			qualifying = append(qualifying, ex)
		}
	}

	if len(qualifying) == 0 {
		return s.placeholder(req)
	}

	best := s.rank(qualifying, req)[0]
	return &best
}

// Alternatives returns up to limit equipment-compatible exercises sharing
// the source exercise's movement and muscle profile, excluding the source.
func (s *ExerciseSelector) Alternatives(
	ctx context.Context,
	exerciseID string,
	availableEquipment []string,
	limit int,
) ([]domain.Exercise, error) {
	if limit <= 0 {
		limit = 5
	}
	available := NormalizeEquipment(availableEquipment)

	// Over-fetch so equipment filtering still leaves enough results.
	similar, err := s.exerciseRepo.GetSimilarExercises(ctx, exerciseID, limit*2)
	if err != nil {
		return nil, fmt.Errorf("lookup similar exercises: %w", err)
	}

	filtered := make([]domain.Exercise, 0, limit)
	for _, ex := range similar {
		if ex.ID == exerciseID {
			continue
		}
		if equipmentSatisfied(ex.Equipment, available) {
			filtered = append(filtered, ex)
			if len(filtered) == limit {
				break
			}
		}
	}
	return filtered, nil
}

type scoredExercise struct {
	exercise domain.Exercise
	score    float64
}

// rank scores candidates against the slot requirements and returns them
// highest first. Stable sort preserves input order on ties.
func (s *ExerciseSelector) rank(candidates []domain.Exercise, req SlotRequirements) []domain.Exercise {
	targetMuscles := make(map[string]struct{}, len(req.TargetMuscles))
	for _, m := range req.TargetMuscles {
		targetMuscles[m] = struct{}{}
	}
	preferred := make(map[string]struct{}, len(req.PreferredEquipment))
	for _, e := range req.PreferredEquipment {
		preferred[e] = struct{}{}
	}

	scored := make([]scoredExercise, 0, len(candidates))
	for _, ex := range candidates {
		score := 0.0

		if len(targetMuscles) > 0 {
			overlap := 0
			for _, m := range ex.PrimaryMuscles {
				if _, ok := targetMuscles[m]; ok {
					overlap++
				}
			}
			fraction := float64(overlap) / float64(len(targetMuscles))
			if fraction > 1 {
				fraction = 1
			}
			score += fraction * s.weights.MuscleOverlap
		}

		if req.Category != "" && ex.Category == req.Category {
			score += s.weights.CategoryMatch
		}

		if req.MovementPattern != "" && ex.MovementPattern == req.MovementPattern {
			score += s.weights.PatternMatch
		}

		if len(preferred) > 0 {
			for _, e := range ex.Equipment {
				if _, ok := preferred[e]; ok {
					score += s.weights.PreferredEquipment
					break
				}
			}
		}

		if req.Supports1RM != nil && ex.Supports1RM == *req.Supports1RM {
			score += s.weights.OneRMMatch
		}

		if ex.Category == "compound" {
			score += s.weights.CompoundBonus
		}

		scored = append(scored, scoredExercise{exercise: ex, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([]domain.Exercise, len(scored))
	for i, sc := range scored {
		ranked[i] = sc.exercise
	}
	return ranked
}

// placeholder synthesizes an exercise when the library has no match. The
// monotonic counter keeps ids unique across repeated calls within a
// generation run. Returns nil when the requirements carry neither a
// movement pattern nor target muscles.
func (s *ExerciseSelector) placeholder(req SlotRequirements) *domain.Exercise {
	if req.MovementPattern == "" && len(req.TargetMuscles) == 0 {
		return nil
	}

	var parts []string
	if req.MovementPattern != "" {
		parts = append(parts, titleCase(req.MovementPattern))
	}
	if len(req.TargetMuscles) > 0 {
		parts = append(parts, titleCase(req.TargetMuscles[0]))
	}
	parts = append(parts, "Exercise")
	name := strings.Join(parts, " ")

	seq := s.placeholderSeq.Add(1)
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")

	category := req.Category
	if category == "" {
		category = "compound"
	}

	return &domain.Exercise{
		ID:              fmt.Sprintf("%s-%d", slug, seq),
		Name:            name,
		PrimaryMuscles:  append([]string(nil), req.TargetMuscles...),
		Equipment:       []string{},
		Category:        category,
		MovementPattern: req.MovementPattern,
		Supports1RM:     req.Supports1RM != nil && *req.Supports1RM,
		IsPlaceholder:   true,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
