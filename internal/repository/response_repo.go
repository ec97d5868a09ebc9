package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentflow/internal/model"
)

var ErrDuplicateResponse = errors.New("response already exists")

// ResponseRepo stores submitted assessment responses
type ResponseRepo interface {
	Create(ctx context.Context, resp *model.AssessmentResponse) error
	GetByAssessment(ctx context.Context, assessmentID string) ([]*model.AssessmentResponse, error)
	GetByCandidate(ctx context.Context, candidateID string) ([]*model.AssessmentResponse, error)
	GetByAssessmentAndCandidate(ctx context.Context, assessmentID, candidateID string) (*model.AssessmentResponse, error)
	EnsureIndexes(ctx context.Context) error
}

type responseRepo struct {
	collection *mongo.Collection
}

func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

// EnsureIndexes allows a single submission per candidate per assessment
func (r *responseRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assessmentId", Value: 1}, {Key: "candidateId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "candidateId", Value: 1}}},
	})
	return err
}

func (r *responseRepo) Create(ctx context.Context, resp *model.AssessmentResponse) error {
	if resp.ID == "" {
		resp.ID = uuid.New().String()
	}
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, resp)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateResponse
	}
	return err
}

func (r *responseRepo) GetByAssessment(ctx context.Context, assessmentID string) ([]*model.AssessmentResponse, error) {
	return r.find(ctx, bson.M{"assessmentId": assessmentID})
}

func (r *responseRepo) GetByCandidate(ctx context.Context, candidateID string) ([]*model.AssessmentResponse, error) {
	return r.find(ctx, bson.M{"candidateId": candidateID})
}

func (r *responseRepo) find(ctx context.Context, filter bson.M) ([]*model.AssessmentResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.AssessmentResponse{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) GetByAssessmentAndCandidate(ctx context.Context, assessmentID, candidateID string) (*model.AssessmentResponse, error) {
	var resp model.AssessmentResponse
	err := r.collection.FindOne(ctx, bson.M{"assessmentId": assessmentID, "candidateId": candidateID}).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
