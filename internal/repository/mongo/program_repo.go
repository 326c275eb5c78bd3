// internal/repository/mongo/program_repo.go
package mongo

import (
	"alcyxob/program-api/internal/domain"
	"alcyxob/program-api/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	programCollectionName = "training_programs"
	weekCollectionName    = "program_weeks"
	workoutCollectionName = "program_workouts"
)

// mongoProgramRepository implements repository.ProgramRepository backed by
// three collections: programs, weeks and workouts.
type mongoProgramRepository struct {
	client   *mongo.Client
	programs *mongo.Collection
	weeks    *mongo.Collection
	workouts *mongo.Collection
}

// NewMongoProgramRepository creates a new program repository. The client is
// retained for multi-collection transactions.
func NewMongoProgramRepository(client *mongo.Client, db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		client:   client,
		programs: db.Collection(programCollectionName),
		weeks:    db.Collection(weekCollectionName),
		workouts: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new training program document.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.TrainingProgram) (*domain.TrainingProgram, error) {
	if program.UserID == "" || program.Name == "" {
		return nil, errors.New("program requires userId and name")
	}
	if program.ID == "" {
		program.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now

	// Weeks live in their own collection.
	stored := *program
	stored.Weeks = nil

	if _, err := r.programs.InsertOne(ctx, &stored); err != nil {
		return nil, err
	}
	return program, nil
}

// GetByID retrieves a program with its weeks and workouts assembled.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id string) (*domain.TrainingProgram, error) {
	var program domain.TrainingProgram
	err := r.programs.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	weeks, err := r.weeksForProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	program.Weeks = weeks
	return &program, nil
}

// GetByUser retrieves all programs belonging to a user, newest first. Weeks
// are not populated for list views.
func (r *mongoProgramRepository) GetByUser(ctx context.Context, userID string) ([]domain.TrainingProgram, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.programs.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []domain.TrainingProgram
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// CreateWeek inserts a single week for an existing program.
func (r *mongoProgramRepository) CreateWeek(ctx context.Context, programID string, week *domain.ProgramWeek) (*domain.ProgramWeek, error) {
	if programID == "" {
		return nil, errors.New("programId is required")
	}
	if week.ID == "" {
		week.ID = uuid.New().String()
	}
	week.ProgramID = programID
	now := time.Now().UTC()
	week.CreatedAt = now
	week.UpdatedAt = now

	stored := *week
	stored.Workouts = nil
	if _, err := r.weeks.InsertOne(ctx, &stored); err != nil {
		return nil, err
	}
	return week, nil
}

// CreateWorkout inserts a single workout for an existing week.
func (r *mongoProgramRepository) CreateWorkout(ctx context.Context, weekID string, workout *domain.ProgramWorkout) (*domain.ProgramWorkout, error) {
	if weekID == "" {
		return nil, errors.New("weekId is required")
	}
	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}
	workout.WeekID = weekID
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.workouts.InsertOne(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// CreateProgramAtomic creates the program with all of its weeks and workouts
// inside a single transaction. If any insert fails the transaction aborts
// and nothing is persisted.
func (r *mongoProgramRepository) CreateProgramAtomic(
	ctx context.Context,
	program *domain.TrainingProgram,
	weeks []repository.WeekWithWorkouts,
) (*repository.CreatedProgram, error) {
	if program.UserID == "" || program.Name == "" {
		return nil, errors.New("program requires userId and name")
	}

	// Assign IDs and timestamps up front so the documents can be inserted
	// in bulk inside the transaction callback.
	now := time.Now().UTC()
	if program.ID == "" {
		program.ID = uuid.New().String()
	}
	program.CreatedAt = now
	program.UpdatedAt = now

	storedProgram := *program
	storedProgram.Weeks = nil

	weekDocs := make([]interface{}, 0, len(weeks))
	var workoutDocs []interface{}
	createdWeeks := make([]domain.ProgramWeek, 0, len(weeks))
	var createdWorkouts []domain.ProgramWorkout

	for _, entry := range weeks {
		week := entry.Week
		if week.ID == "" {
			week.ID = uuid.New().String()
		}
		week.ProgramID = program.ID
		week.CreatedAt = now
		week.UpdatedAt = now
		week.Workouts = nil
		weekDocs = append(weekDocs, week)
		createdWeeks = append(createdWeeks, week)

		for _, workout := range entry.Workouts {
			if workout.ID == "" {
				workout.ID = uuid.New().String()
			}
			workout.WeekID = week.ID
			workout.CreatedAt = now
			workout.UpdatedAt = now
			workoutDocs = append(workoutDocs, workout)
			createdWorkouts = append(createdWorkouts, workout)
		}
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := r.programs.InsertOne(sessCtx, &storedProgram); err != nil {
			return nil, err
		}
		if len(weekDocs) > 0 {
			if _, err := r.weeks.InsertMany(sessCtx, weekDocs); err != nil {
				return nil, err
			}
		}
		if len(workoutDocs) > 0 {
			if _, err := r.workouts.InsertMany(sessCtx, workoutDocs); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return &repository.CreatedProgram{
		Program:  program,
		Weeks:    createdWeeks,
		Workouts: createdWorkouts,
	}, nil
}

// UpdateStatus sets the lifecycle status of a program.
func (r *mongoProgramRepository) UpdateStatus(ctx context.Context, id string, status domain.ProgramStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.programs.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program and all of its weeks and workouts. The filter
// ensures the program belongs to the requesting user.
func (r *mongoProgramRepository) Delete(ctx context.Context, id string, userID string) error {
	if id == "" || userID == "" {
		return errors.New("program ID and user ID are required for deletion")
	}

	result, err := r.programs.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the program didn't exist or it belongs to someone else.
		return repository.ErrNotFound
	}

	// Cascade to weeks and workouts. Orphans here are harmless; the program
	// document is already gone.
	weekIDs, err := r.weekIDsForProgram(ctx, id)
	if err == nil && len(weekIDs) > 0 {
		_, _ = r.workouts.DeleteMany(ctx, bson.M{"weekId": bson.M{"$in": weekIDs}})
	}
	_, _ = r.weeks.DeleteMany(ctx, bson.M{"programId": id})
	return nil
}

func (r *mongoProgramRepository) weekIDsForProgram(ctx context.Context, programID string) ([]string, error) {
	cursor, err := r.weeks.Find(ctx, bson.M{"programId": programID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *mongoProgramRepository) weeksForProgram(ctx context.Context, programID string) ([]domain.ProgramWeek, error) {
	cursor, err := r.weeks.Find(ctx, bson.M{"programId": programID},
		options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var weeks []domain.ProgramWeek
	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return weeks, nil
	}

	weekIDs := make([]string, len(weeks))
	index := make(map[string]int, len(weeks))
	for i, week := range weeks {
		weekIDs[i] = week.ID
		index[week.ID] = i
	}

	workoutCursor, err := r.workouts.Find(ctx, bson.M{"weekId": bson.M{"$in": weekIDs}},
		options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer workoutCursor.Close(ctx)

	var workouts []domain.ProgramWorkout
	if err = workoutCursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	for _, workout := range workouts {
		if i, ok := index[workout.WeekID]; ok {
			weeks[i].Workouts = append(weeks[i].Workouts, workout)
		}
	}
	return weeks, nil
}

// EnsureProgramIndexes creates indexes for the program collections. Call
// during startup.
func EnsureProgramIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(programCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(weekCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "programId", Value: 1}, {Key: "weekNumber", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(workoutCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "weekId", Value: 1}, {Key: "sortOrder", Value: 1}}},
	})
	return err
}
