package mongo

import (
	"context"
	"errors"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LegacyRepository reads the collections that predate the session record.
// Nothing here is written by this service.
type LegacyRepository interface {
	GetInterview(ctx context.Context, candidateID string) (*models.LegacyInterview, error)
	GetResult(ctx context.Context, candidateID string) (*models.InterviewResult, error)
}

type legacyRepo struct {
	interviews *mongo.Collection
	results    *mongo.Collection
}

func NewLegacyRepo(db *mongo.Database) LegacyRepository {
	return &legacyRepo{
		interviews: db.Collection(config.CollLegacy),
		results:    db.Collection(config.CollResults),
	}
}

func (r *legacyRepo) GetInterview(ctx context.Context, candidateID string) (*models.LegacyInterview, error) {
	var out models.LegacyInterview
	if err := findOne(ctx, r.interviews, candidateID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *legacyRepo) GetResult(ctx context.Context, candidateID string) (*models.InterviewResult, error) {
	var out models.InterviewResult
	if err := findOne(ctx, r.results, candidateID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func findOne(ctx context.Context, col *mongo.Collection, candidateID string, dst any) error {
	err := col.FindOne(ctx, bson.M{"candidate_id": candidateID}).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.ErrNotFound
	}
	return err
}
