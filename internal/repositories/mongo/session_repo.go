package mongo

import (
	"context"
	"errors"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionStats struct {
	TotalInterviews     int64   `bson:"-" json:"total_interviews"`
	AverageScore        float64 `bson:"avg_score" json:"average_score"`
	TotalQuestionsAsked int64   `bson:"total_questions" json:"total_questions_asked"`
}

type SessionRepository interface {
	GetByCandidateID(ctx context.Context, candidateID string) (*models.InterviewSession, error)
	Insert(ctx context.Context, s *models.InterviewSession) (primitive.ObjectID, error)
	// Replace overwrites every field of the candidate's session document.
	Replace(ctx context.Context, s *models.InterviewSession) error
	DeleteByCandidateID(ctx context.Context, candidateID string) (int64, error)
	Stats(ctx context.Context) (*SessionStats, error)
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection(config.CollSessions)}
}

func (r *sessionRepo) GetByCandidateID(ctx context.Context, candidateID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"candidate_id": candidateID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Insert(ctx context.Context, s *models.InterviewSession) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	s.ID = id
	return id, nil
}

func (r *sessionRepo) Replace(ctx context.Context, s *models.InterviewSession) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"candidate_id": s.CandidateID},
		bson.M{"$set": bson.M{
			"candidate_id": s.CandidateID,
			"session_id":   s.SessionID,
			"interactions": s.Interactions,
			"scores":       s.Scores,
			"metadata":     s.Metadata,
			"created_at":   s.CreatedAt,
			"updated_at":   s.UpdatedAt,
		}},
	)
	return err
}

func (r *sessionRepo) DeleteByCandidateID(ctx context.Context, candidateID string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"candidate_id": candidateID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *sessionRepo) Stats(ctx context.Context) (*SessionStats, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg_score", Value: bson.D{{Key: "$avg", Value: "$scores.average_score"}}},
			{Key: "total_questions", Value: bson.D{{Key: "$sum", Value: "$metadata.total_questions"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []SessionStats
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := &SessionStats{TotalInterviews: total}
	if len(rows) > 0 {
		out.AverageScore = rows[0].AverageScore
		out.TotalQuestionsAsked = rows[0].TotalQuestionsAsked
	}
	return out, nil
}
