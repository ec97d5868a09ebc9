package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentflow/internal/model"
)

// AssessmentRepo handles MongoDB operations for assessments
type AssessmentRepo interface {
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	GetByJobID(ctx context.Context, jobID string) (*model.Assessment, error)
	Save(ctx context.Context, a *model.Assessment) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

// EnsureIndexes makes jobId unique: one assessment per job
func (r *assessmentRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "jobId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *assessmentRepo) GetByJobID(ctx context.Context, jobID string) (*model.Assessment, error) {
	return r.findOne(ctx, bson.M{"jobId": jobID})
}

func (r *assessmentRepo) findOne(ctx context.Context, filter bson.M) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, filter).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Save upserts the whole document; assessments are always written wholesale
func (r *assessmentRepo) Save(ctx context.Context, a *model.Assessment) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, options.Replace().SetUpsert(true))
	return err
}

func (r *assessmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
