package mongo

import (
	"context"
	"errors"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CodingRepository mirrors the postgres one; it backs coding submissions
// when POSTGRES_URI is not configured.
type CodingRepository interface {
	Insert(ctx context.Context, s *models.CodingSubmission) error
	LatestByCandidate(ctx context.Context, candidateID string) (*models.CodingSubmission, error)
}

type codingRepo struct {
	col *mongo.Collection
}

func NewCodingRepo(db *mongo.Database) CodingRepository {
	return &codingRepo{col: db.Collection(config.CollCoding)}
}

func (r *codingRepo) Insert(ctx context.Context, s *models.CodingSubmission) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *codingRepo) LatestByCandidate(ctx context.Context, candidateID string) (*models.CodingSubmission, error) {
	var out models.CodingSubmission
	err := r.col.FindOne(ctx,
		bson.M{"candidate_id": candidateID},
		options.FindOne().SetSort(bson.D{{Key: "submitted_at", Value: -1}}),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
