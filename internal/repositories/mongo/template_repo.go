package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplateRepository interface {
	GetByCandidateID(ctx context.Context, candidateID string) (*models.InterviewTemplate, error)
	// Save replaces the candidate's template (last write wins).
	Save(ctx context.Context, t *models.InterviewTemplate) error
}

type templateRepo struct {
	col *mongo.Collection
}

func NewTemplateRepo(db *mongo.Database) TemplateRepository {
	return &templateRepo{col: db.Collection(config.CollTemplates)}
}

func (r *templateRepo) GetByCandidateID(ctx context.Context, candidateID string) (*models.InterviewTemplate, error) {
	var t models.InterviewTemplate
	err := r.col.FindOne(ctx, bson.M{"candidate_id": candidateID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepo) Save(ctx context.Context, t *models.InterviewTemplate) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Questions == nil {
		t.Questions = []string{}
	}
	// _id is left out of the replacement so an existing document keeps its id
	doc := bson.M{
		"candidate_id":    t.CandidateID,
		"candidate_email": t.CandidateEmail,
		"greeting_script": t.GreetingScript,
		"questions":       t.Questions,
		"created_at":      t.CreatedAt,
	}
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"candidate_id": t.CandidateID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
