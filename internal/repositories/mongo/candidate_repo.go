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

type CandidateRepository interface {
	List(ctx context.Context) ([]models.Candidate, error)
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
}

type candidateRepo struct {
	col *mongo.Collection
}

func NewCandidateRepo(db *mongo.Database) CandidateRepository {
	return &candidateRepo{col: db.Collection(config.CollCandidates)}
}

func (r *candidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 0}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Candidate{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
