// internal/repository/mongo/template_repo.go
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

const templateCollectionName = "program_templates"

// mongoTemplateRepository implements repository.TemplateRepository.
type mongoTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoTemplateRepository creates a new template repository.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

// GetByID retrieves a single template.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id string) (*domain.ProgramTemplate, error) {
	var template domain.ProgramTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// GetByCriteria returns templates matching goal and experience level.
// Duration is a soft criterion; templates within a few weeks of the request
// are included so the selector can score closeness itself.
func (r *mongoTemplateRepository) GetByCriteria(
	ctx context.Context,
	goal domain.ProgramGoal,
	level domain.ExperienceLevel,
	durationWeeks int,
) ([]domain.ProgramTemplate, error) {
	filter := bson.M{
		"goal":            goal,
		"experienceLevel": level,
		"durationWeeks": bson.M{
			"$gte": durationWeeks - 4,
			"$lte": durationWeeks + 4,
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "usageCount", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.ProgramTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetSystemTemplates returns all built-in templates.
func (r *mongoTemplateRepository) GetSystemTemplates(ctx context.Context) ([]domain.ProgramTemplate, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isSystem": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.ProgramTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Create inserts a new template.
func (r *mongoTemplateRepository) Create(ctx context.Context, template *domain.ProgramTemplate) (*domain.ProgramTemplate, error) {
	if template.Name == "" {
		return nil, errors.New("template requires a name")
	}
	if template.ID == "" {
		template.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// IncrementUsageCount bumps a template's popularity counter.
func (r *mongoTemplateRepository) IncrementUsageCount(ctx context.Context, id string) error {
	update := bson.M{
		"$inc": bson.M{"usageCount": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTemplateIndexes creates indexes for template lookup. Call during
// startup.
func EnsureTemplateIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(templateCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "goal", Value: 1}, {Key: "experienceLevel", Value: 1}, {Key: "durationWeeks", Value: 1}}},
		{Keys: bson.D{{Key: "isSystem", Value: 1}}},
	})
	return err
}
