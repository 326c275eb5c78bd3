// internal/repository/mongo/exercise_repo.go
package mongo

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// searchCacheTTL bounds staleness of cached search results. The exercise
// library changes rarely, so a short TTL is plenty.
const searchCacheTTL = 5 * time.Minute

const searchCacheMaxEntries = 256

type cachedSearch struct {
	exercises []domain.Exercise
	expiresAt time.Time
}

// mongoExerciseRepository implements repository.ExerciseRepository with an
// in-process TTL cache over search results. Generation issues the same
// handful of searches for every week of a program, so caching collapses
// dozens of identical queries into one.
type mongoExerciseRepository struct {
	collection *mongo.Collection

	mu    sync.Mutex
	cache map[string]cachedSearch
	now   func() time.Time
}

// NewMongoExerciseRepository creates a new exercise repository.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
		cache:      make(map[string]cachedSearch),
		now:        time.Now,
	}
}

// GetByID retrieves a single exercise by its slug identifier.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Search returns exercises matching the filter. Zero-value filter fields
// are ignored. Results are cached briefly per filter.
func (r *mongoExerciseRepository) Search(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	key := searchKey(filter)
	if cached, ok := r.cachedResult(key); ok {
		return cached, nil
	}

	query := bson.M{}
	if len(filter.MuscleGroups) > 0 {
		query["primaryMuscles"] = bson.M{"$in": filter.MuscleGroups}
	}
	if len(filter.Equipment) > 0 {
		// Match exercises whose every equipment item is available. Exercises
		// with empty equipment (bodyweight) always match.
		query["$or"] = bson.A{
			bson.M{"equipment": bson.M{"$exists": false}},
			bson.M{"equipment": bson.M{"$size": 0}},
			bson.M{"equipment": bson.M{"$not": bson.M{"$elemMatch": bson.M{"$nin": filter.Equipment}}}},
		}
	}
	if filter.MovementPattern != "" {
		query["movementPattern"] = filter.MovementPattern
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Supports1RM != nil {
		query["supports1rm"] = *filter.Supports1RM
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}

	r.storeResult(key, exercises)
	return exercises, nil
}

// GetSimilarExercises returns exercises sharing a primary muscle with the
// given exercise, excluding the exercise itself.
func (r *mongoExerciseRepository) GetSimilarExercises(ctx context.Context, exerciseID string, limit int) ([]domain.Exercise, error) {
	source, err := r.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	query := bson.M{
		"_id":            bson.M{"$ne": exerciseID},
		"primaryMuscles": bson.M{"$in": source.PrimaryMuscles},
	}
	if source.MovementPattern != "" {
		// Prefer the same movement pattern when the source carries one.
		query["movementPattern"] = source.MovementPattern
	}

	findOptions := options.Find().SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}

	// Fall back to muscle-only matching when the pattern filter found
	// too few candidates.
	if len(exercises) < limit && source.MovementPattern != "" {
		delete(query, "movementPattern")
		seen := make(map[string]struct{}, len(exercises))
		for _, ex := range exercises {
			seen[ex.ID] = struct{}{}
		}
		moreCursor, err := r.collection.Find(ctx, query, options.Find().SetLimit(int64(limit)))
		if err != nil {
			return exercises, nil
		}
		defer moreCursor.Close(ctx)
		var more []domain.Exercise
		if err = moreCursor.All(ctx, &more); err == nil {
			for _, ex := range more {
				if _, ok := seen[ex.ID]; ok {
					continue
				}
				exercises = append(exercises, ex)
				if len(exercises) >= limit {
					break
				}
			}
		}
	}
	return exercises, nil
}

func (r *mongoExerciseRepository) cachedResult(key string) ([]domain.Exercise, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[key]
	if !ok || r.now().After(entry.expiresAt) {
		return nil, false
	}
	out := make([]domain.Exercise, len(entry.exercises))
	copy(out, entry.exercises)
	return out, true
}

func (r *mongoExerciseRepository) storeResult(key string, exercises []domain.Exercise) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cache) >= searchCacheMaxEntries {
		// Cheap wholesale reset instead of per-entry eviction.
		r.cache = make(map[string]cachedSearch)
	}
	stored := make([]domain.Exercise, len(exercises))
	copy(stored, exercises)
	r.cache[key] = cachedSearch{exercises: stored, expiresAt: r.now().Add(searchCacheTTL)}
}

func searchKey(filter domain.ExerciseFilter) string {
	muscles := append([]string(nil), filter.MuscleGroups...)
	sort.Strings(muscles)
	equipment := append([]string(nil), filter.Equipment...)
	sort.Strings(equipment)

	oneRM := "any"
	if filter.Supports1RM != nil {
		oneRM = fmt.Sprintf("%t", *filter.Supports1RM)
	}
	return strings.Join([]string{
		strings.Join(muscles, ","),
		strings.Join(equipment, ","),
		filter.MovementPattern,
		filter.Category,
		oneRM,
		fmt.Sprintf("%d", filter.Limit),
	}, "|")
}

// EnsureExerciseIndexes creates indexes for the exercise library. Call
// during startup.
func EnsureExerciseIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(exerciseCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "primaryMuscles", Value: 1}}},
		{Keys: bson.D{{Key: "movementPattern", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "equipment", Value: 1}}},
	})
	return err
}
