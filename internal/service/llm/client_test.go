package llm

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/service"
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCompleter returns canned chat completions.
type fakeCompleter struct {
	content string
	err     error
	calls   int
}

func (f *fakeCompleter) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func pickRequest() service.PickRequest {
	return service.PickRequest{
		WorkoutType:   "push",
		MuscleGroups:  []string{"chest", "triceps"},
		ExerciseCount: 2,
		Goal:          domain.GoalHypertrophy,
		AvailableExercises: []domain.Exercise{
			{ID: "bench-press", Name: "Bench Press"},
			{ID: "push-up", Name: "Push-Up"},
		},
	}
}

const validSelection = `{
	"exercises": [
		{"exercise_id": "bench-press", "exercise_name": "Bench Press", "sets": 4, "reps": "8-12", "rest_seconds": 90, "order": 1},
		{"exercise_id": "push-up", "exercise_name": "Push-Up", "sets": 3, "reps": "12-15", "rest_seconds": 60, "order": 2}
	],
	"workout_notes": "Focus on controlled eccentrics",
	"estimated_duration_minutes": 45
}`

func TestClient_PickExercises(t *testing.T) {
	api := &fakeCompleter{content: validSelection}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	resp, err := client.PickExercises(context.Background(), pickRequest())
	require.NoError(t, err)
	require.Len(t, resp.Exercises, 2)
	assert.Equal(t, "bench-press", resp.Exercises[0].ExerciseID)
	assert.Equal(t, 4, resp.Exercises[0].Sets)
	assert.Equal(t, "Focus on controlled eccentrics", resp.WorkoutNotes)
}

func TestClient_PickExercises_CachesRepeatedShapes(t *testing.T) {
	api := &fakeCompleter{content: validSelection}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	_, err := client.PickExercises(context.Background(), pickRequest())
	require.NoError(t, err)
	_, err = client.PickExercises(context.Background(), pickRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, api.calls, "identical requests must hit the cache")
}

func TestClient_PickExercises_APIFailure(t *testing.T) {
	api := &fakeCompleter{err: errors.New("rate limited")}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	_, err := client.PickExercises(context.Background(), pickRequest())
	require.Error(t, err)
	// Single attempt only; retrying is the orchestrator's business.
	assert.Equal(t, 1, api.calls)
}

func TestClient_PickExercises_MalformedPayload(t *testing.T) {
	api := &fakeCompleter{content: "sure, here are some exercises!"}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	_, err := client.PickExercises(context.Background(), pickRequest())
	assert.Error(t, err)
}

func TestClient_PickExercises_EmptySelection(t *testing.T) {
	api := &fakeCompleter{content: `{"exercises": []}`}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	_, err := client.PickExercises(context.Background(), pickRequest())
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestClient_PickExercises_RejectsUnknownExercise(t *testing.T) {
	api := &fakeCompleter{content: `{
		"exercises": [{"exercise_id": "made-up-exercise", "exercise_name": "Made Up", "sets": 3, "reps": "10", "rest_seconds": 60, "order": 1}]
	}`}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	_, err := client.PickExercises(context.Background(), pickRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exercise")
}

func TestClient_PickExercises_RejectsDuplicateExercise(t *testing.T) {
	api := &fakeCompleter{content: `{
		"exercises": [
			{"exercise_id": "bench-press", "exercise_name": "Bench Press", "sets": 4, "reps": "8-12", "rest_seconds": 90, "order": 1},
			{"exercise_id": "bench-press", "exercise_name": "Bench Press", "sets": 3, "reps": "8-12", "rest_seconds": 90, "order": 2}
		]
	}`}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	_, err := client.PickExercises(context.Background(), pickRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repeats exercise")
}

func TestClient_PickExercises_RejectsCountMismatch(t *testing.T) {
	// One exercise returned against a request for two with two available.
	api := &fakeCompleter{content: `{
		"exercises": [{"exercise_id": "bench-press", "exercise_name": "Bench Press", "sets": 4, "reps": "8-12", "rest_seconds": 90, "order": 1}]
	}`}
	client := NewClient("test-key", zap.NewNop(), WithCompleter(api))

	_, err := client.PickExercises(context.Background(), pickRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2")
}

func TestValidateSelection_ShortLibraryAllowsShortSelection(t *testing.T) {
	req := pickRequest()
	req.ExerciseCount = 5 // only two candidates exist

	err := validateSelection(service.PickResponse{
		Exercises: []service.PickedExercise{
			{ExerciseID: "bench-press"},
			{ExerciseID: "push-up"},
		},
	}, req)
	assert.NoError(t, err)
}

func TestResponseCache_TTLAndEviction(t *testing.T) {
	t.Run("expires after ttl", func(t *testing.T) {
		cache := newResponseCache(10, time.Minute)
		current := time.Unix(1000, 0)
		cache.now = func() time.Time { return current }

		cache.set("k", service.PickResponse{WorkoutNotes: "n"})
		_, ok := cache.get("k")
		assert.True(t, ok)

		current = current.Add(2 * time.Minute)
		_, ok = cache.get("k")
		assert.False(t, ok)
	})

	t.Run("evicts oldest at capacity", func(t *testing.T) {
		cache := newResponseCache(2, time.Hour)
		current := time.Unix(1000, 0)
		cache.now = func() time.Time { return current }

		cache.set("a", service.PickResponse{})
		current = current.Add(time.Second)
		cache.set("b", service.PickResponse{})
		current = current.Add(time.Second)
		cache.set("c", service.PickResponse{})

		_, okA := cache.get("a")
		_, okB := cache.get("b")
		_, okC := cache.get("c")
		assert.False(t, okA, "oldest entry should be evicted")
		assert.True(t, okB)
		assert.True(t, okC)
	})
}

func TestCacheKey_OrderInsensitiveMuscles(t *testing.T) {
	a := pickRequest()
	a.MuscleGroups = []string{"chest", "triceps"}
	b := pickRequest()
	b.MuscleGroups = []string{"triceps", "chest"}
	assert.Equal(t, cacheKey(a), cacheKey(b))
}
