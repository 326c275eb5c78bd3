package service

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
)

// fakeTemplateRepo is an in-memory repository.TemplateRepository.
type fakeTemplateRepo struct {
	templates    []domain.ProgramTemplate
	criteriaErr  error
	incrementErr error
	incremented  []string
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id string) (*domain.ProgramTemplate, error) {
	for i := range f.templates {
		if f.templates[i].ID == id {
			return &f.templates[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTemplateRepo) GetByCriteria(_ context.Context, goal domain.ProgramGoal, level domain.ExperienceLevel, _ int) ([]domain.ProgramTemplate, error) {
	if f.criteriaErr != nil {
		return nil, f.criteriaErr
	}
	var out []domain.ProgramTemplate
	for _, t := range f.templates {
		if t.Goal == goal && t.ExperienceLevel == level {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) GetSystemTemplates(_ context.Context) ([]domain.ProgramTemplate, error) {
	var out []domain.ProgramTemplate
	for _, t := range f.templates {
		if t.IsSystem {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Create(_ context.Context, template *domain.ProgramTemplate) (*domain.ProgramTemplate, error) {
	f.templates = append(f.templates, *template)
	return template, nil
}

func (f *fakeTemplateRepo) IncrementUsageCount(_ context.Context, id string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.incremented = append(f.incremented, id)
	return nil
}

// fakeExerciseRepo is an in-memory repository.ExerciseRepository applying
// the same filter semantics as the real store.
type fakeExerciseRepo struct {
	library   []domain.Exercise
	searchErr error
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	for i := range f.library {
		if f.library[i].ID == id {
			return &f.library[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) Search(_ context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []domain.Exercise
	for _, ex := range f.library {
		if !matchesFilter(ex, filter) {
			continue
		}
		out = append(out, ex)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) GetSimilarExercises(_ context.Context, exerciseID string, limit int) ([]domain.Exercise, error) {
	source, err := f.GetByID(context.Background(), exerciseID)
	if err != nil {
		return nil, err
	}
	sourceMuscles := make(map[string]struct{}, len(source.PrimaryMuscles))
	for _, m := range source.PrimaryMuscles {
		sourceMuscles[m] = struct{}{}
	}
	var out []domain.Exercise
	for _, ex := range f.library {
		if ex.ID == exerciseID {
			continue
		}
		for _, m := range ex.PrimaryMuscles {
			if _, ok := sourceMuscles[m]; ok {
				out = append(out, ex)
				break
			}
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func matchesFilter(ex domain.Exercise, filter domain.ExerciseFilter) bool {
	if len(filter.MuscleGroups) > 0 {
		found := false
		for _, want := range filter.MuscleGroups {
			for _, have := range ex.PrimaryMuscles {
				if want == have {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Equipment) > 0 {
		available := make(map[string]struct{}, len(filter.Equipment))
		for _, e := range filter.Equipment {
			available[strings.ToLower(e)] = struct{}{}
		}
		for _, required := range ex.Equipment {
			name := strings.ToLower(required)
			if name == "" || name == "bodyweight" {
				continue
			}
			if _, ok := available[name]; !ok {
				return false
			}
		}
	}
	if filter.MovementPattern != "" && ex.MovementPattern != filter.MovementPattern {
		return false
	}
	if filter.Category != "" && ex.Category != filter.Category {
		return false
	}
	if filter.Supports1RM != nil && ex.Supports1RM != *filter.Supports1RM {
		return false
	}
	return true
}

// fakeProgramRepo is an in-memory repository.ProgramRepository recording
// atomic creations.
type fakeProgramRepo struct {
	atomicErr error
	created   []*repository.CreatedProgram
	programs  map[string]*domain.TrainingProgram
	nextID    int
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[string]*domain.TrainingProgram)}
}

func (f *fakeProgramRepo) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeProgramRepo) Create(_ context.Context, program *domain.TrainingProgram) (*domain.TrainingProgram, error) {
	if program.ID == "" {
		program.ID = f.newID("program")
	}
	f.programs[program.ID] = program
	return program, nil
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id string) (*domain.TrainingProgram, error) {
	program, ok := f.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return program, nil
}

func (f *fakeProgramRepo) GetByUser(_ context.Context, userID string) ([]domain.TrainingProgram, error) {
	var out []domain.TrainingProgram
	for _, p := range f.programs {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProgramRepo) CreateWeek(_ context.Context, programID string, week *domain.ProgramWeek) (*domain.ProgramWeek, error) {
	week.ID = f.newID("week")
	week.ProgramID = programID
	return week, nil
}

func (f *fakeProgramRepo) CreateWorkout(_ context.Context, weekID string, workout *domain.ProgramWorkout) (*domain.ProgramWorkout, error) {
	workout.ID = f.newID("workout")
	workout.WeekID = weekID
	return workout, nil
}

func (f *fakeProgramRepo) CreateProgramAtomic(_ context.Context, program *domain.TrainingProgram, weeks []repository.WeekWithWorkouts) (*repository.CreatedProgram, error) {
	if f.atomicErr != nil {
		return nil, f.atomicErr
	}
	if program.ID == "" {
		program.ID = f.newID("program")
	}

	created := &repository.CreatedProgram{Program: program}
	for _, entry := range weeks {
		week := entry.Week
		week.ID = f.newID("week")
		week.ProgramID = program.ID
		week.Workouts = nil
		created.Weeks = append(created.Weeks, week)
		for _, workout := range entry.Workouts {
			workout.ID = f.newID("workout")
			workout.WeekID = week.ID
			created.Workouts = append(created.Workouts, workout)
		}
	}
	f.programs[program.ID] = program
	f.created = append(f.created, created)
	return created, nil
}

func (f *fakeProgramRepo) UpdateStatus(_ context.Context, id string, status domain.ProgramStatus) error {
	program, ok := f.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	program.Status = status
	return nil
}

func (f *fakeProgramRepo) Delete(_ context.Context, id string, userID string) error {
	program, ok := f.programs[id]
	if !ok || program.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.programs, id)
	return nil
}

// failingPicker always errors, forcing the deterministic fallback path.
type failingPicker struct {
	calls int
}

func (p *failingPicker) PickExercises(context.Context, PickRequest) (*PickResponse, error) {
	p.calls++
	return nil, errors.New("model unavailable")
}

// repeatingPicker fills every slot with the first available exercise,
// producing in-workout duplicates.
type repeatingPicker struct{}

func (p *repeatingPicker) PickExercises(_ context.Context, req PickRequest) (*PickResponse, error) {
	if len(req.AvailableExercises) == 0 {
		return nil, errors.New("no exercises available")
	}
	ex := req.AvailableExercises[0]
	resp := &PickResponse{}
	for i := 0; i < req.ExerciseCount; i++ {
		resp.Exercises = append(resp.Exercises, PickedExercise{
			ExerciseID:   ex.ID,
			ExerciseName: ex.Name,
			Sets:         3,
			Reps:         "8-12",
			RestSeconds:  90,
			Order:        i + 1,
		})
	}
	return resp, nil
}

// stubPicker returns a canned response echoing exercises from the request.
type stubPicker struct {
	calls int
}

func (p *stubPicker) PickExercises(_ context.Context, req PickRequest) (*PickResponse, error) {
	p.calls++
	count := req.ExerciseCount
	if count > len(req.AvailableExercises) {
		count = len(req.AvailableExercises)
	}
	resp := &PickResponse{}
	for i := 0; i < count; i++ {
		ex := req.AvailableExercises[i]
		resp.Exercises = append(resp.Exercises, PickedExercise{
			ExerciseID:   ex.ID,
			ExerciseName: ex.Name,
			Sets:         3,
			Reps:         "8-12",
			RestSeconds:  90,
			Order:        i + 1,
		})
	}
	return resp, nil
}

// testExerciseLibrary is a compact library covering the default splits.
func testExerciseLibrary() []domain.Exercise {
	return []domain.Exercise{
		{ID: "barbell-bench-press", Name: "Barbell Bench Press", PrimaryMuscles: []string{"chest", "triceps"}, Equipment: []string{"barbell", "bench"}, Category: "compound", MovementPattern: "push", Supports1RM: true},
		{ID: "overhead-press", Name: "Overhead Press", PrimaryMuscles: []string{"anterior_deltoid", "triceps"}, Equipment: []string{"barbell"}, Category: "compound", MovementPattern: "push", Supports1RM: true},
		{ID: "push-up", Name: "Push-Up", PrimaryMuscles: []string{"chest", "triceps"}, Equipment: []string{}, Category: "compound", MovementPattern: "push"},
		{ID: "cable-fly", Name: "Cable Fly", PrimaryMuscles: []string{"chest"}, Equipment: []string{"cables"}, Category: "isolation", MovementPattern: "push"},
		{ID: "barbell-row", Name: "Barbell Row", PrimaryMuscles: []string{"lats", "rhomboids"}, Equipment: []string{"barbell"}, Category: "compound", MovementPattern: "pull", Supports1RM: true},
		{ID: "pull-up", Name: "Pull-Up", PrimaryMuscles: []string{"lats", "biceps"}, Equipment: []string{"pull_up_bar"}, Category: "compound", MovementPattern: "pull"},
		{ID: "dumbbell-curl", Name: "Dumbbell Curl", PrimaryMuscles: []string{"biceps"}, Equipment: []string{"dumbbells"}, Category: "isolation", MovementPattern: "pull"},
		{ID: "face-pull", Name: "Face Pull", PrimaryMuscles: []string{"rear_deltoid", "rhomboids"}, Equipment: []string{"cables"}, Category: "isolation", MovementPattern: "pull"},
		{ID: "barbell-back-squat", Name: "Barbell Back Squat", PrimaryMuscles: []string{"quadriceps", "glutes"}, Equipment: []string{"barbell", "rack"}, Category: "compound", MovementPattern: "squat", Supports1RM: true},
		{ID: "romanian-deadlift", Name: "Romanian Deadlift", PrimaryMuscles: []string{"hamstrings", "glutes"}, Equipment: []string{"barbell"}, Category: "compound", MovementPattern: "hinge", Supports1RM: true},
		{ID: "leg-curl", Name: "Leg Curl", PrimaryMuscles: []string{"hamstrings"}, Equipment: []string{"leg_curl_machine"}, Category: "isolation", MovementPattern: "hinge"},
		{ID: "calf-raise", Name: "Calf Raise", PrimaryMuscles: []string{"calves"}, Equipment: []string{}, Category: "isolation", MovementPattern: "squat"},
		{ID: "leg-press", Name: "Leg Press", PrimaryMuscles: []string{"quadriceps", "glutes"}, Equipment: []string{"leg_press_machine"}, Category: "compound", MovementPattern: "squat"},
		{ID: "triceps-pushdown", Name: "Triceps Pushdown", PrimaryMuscles: []string{"triceps"}, Equipment: []string{"cables"}, Category: "isolation", MovementPattern: "push"},
		{ID: "plank", Name: "Plank", PrimaryMuscles: []string{"core"}, Equipment: []string{}, Category: "isolation"},
	}
}
