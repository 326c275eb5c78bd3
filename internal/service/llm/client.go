// Package llm implements the LLM-assisted exercise picker. Any failure it
// returns is recoverable: the orchestrator falls back to deterministic
// selection without retrying.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"alcyxob/program-api/internal/service"
)

const (
	defaultModel    = openai.GPT4oMini
	defaultCacheCap = 100
	defaultCacheTTL = time.Hour
)

// ErrEmptySelection is returned when the model picks no exercises.
var ErrEmptySelection = errors.New("llm: model returned no exercises")

// chatCompleter is the slice of the OpenAI client the picker uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client selects exercises through an OpenAI chat model. It implements
// service.ExercisePicker.
type Client struct {
	api    chatCompleter
	model  string
	cache  *responseCache
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the chat model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithCompleter swaps the underlying API client (used by tests).
func WithCompleter(api chatCompleter) Option {
	return func(c *Client) { c.api = api }
}

// NewClient creates an LLM-backed exercise picker.
func NewClient(apiKey string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		api:    openai.NewClient(apiKey),
		model:  defaultModel,
		cache:  newResponseCache(defaultCacheCap, defaultCacheTTL),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PickExercises asks the model to select exercises for one workout. A
// single attempt, no retries: the caller's deterministic fallback bounds
// worst-case latency.
func (c *Client) PickExercises(ctx context.Context, req service.PickRequest) (*service.PickResponse, error) {
	key := cacheKey(req)
	if cached, ok := c.cache.get(key); ok {
		c.logger.Debug("llm cache hit", zap.String("key", key))
		resp := cached
		return &resp, nil
	}

	completion, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: exerciseSelectionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildExerciseSelectionPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("llm: completion returned no choices")
	}

	var resp service.PickResponse
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &resp); err != nil {
		return nil, fmt.Errorf("llm: malformed selection payload: %w", err)
	}
	if len(resp.Exercises) == 0 {
		return nil, ErrEmptySelection
	}
	if err := validateSelection(resp, req); err != nil {
		return nil, err
	}

	c.cache.set(key, resp)
	return &resp, nil
}

// validateSelection rejects selections referencing ids outside the
// provided exercise list, repeating an id within the workout, or picking
// a different number of exercises than requested. Rejecting here keeps a
// bad selection on the recoverable-fallback path instead of letting it
// fail program validation later.
func validateSelection(resp service.PickResponse, req service.PickRequest) error {
	known := make(map[string]struct{}, len(req.AvailableExercises))
	for _, ex := range req.AvailableExercises {
		known[ex.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(resp.Exercises))
	for _, picked := range resp.Exercises {
		if _, ok := known[picked.ExerciseID]; !ok {
			return fmt.Errorf("llm: selection references unknown exercise %q", picked.ExerciseID)
		}
		if _, dup := seen[picked.ExerciseID]; dup {
			return fmt.Errorf("llm: selection repeats exercise %q", picked.ExerciseID)
		}
		seen[picked.ExerciseID] = struct{}{}
	}
	want := req.ExerciseCount
	if n := len(req.AvailableExercises); n < want {
		want = n
	}
	if want > 0 && len(resp.Exercises) != want {
		return fmt.Errorf("llm: selection has %d exercises, want %d", len(resp.Exercises), want)
	}
	return nil
}

func cacheKey(req service.PickRequest) string {
	muscles := append([]string(nil), req.MuscleGroups...)
	sort.Strings(muscles)
	return fmt.Sprintf("%s:%s:%d:%t", req.WorkoutType, strings.Join(muscles, ","), req.ExerciseCount, req.IsDeload)
}
