package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PreprocessingRepository interface {
	GetByCandidateID(ctx context.Context, candidateID string) (*models.PreprocessingRecord, error)
	UpsertQuestions(ctx context.Context, candidateID, greeting string, questions []models.PreprocessedQuestion) (primitive.ObjectID, error)
	// SaveAudio and SetStatus only apply while the record is still at revision;
	// otherwise they return utils.ErrStale.
	SaveAudio(ctx context.Context, candidateID string, revision int64, greetingAudio *primitive.ObjectID, questions []models.PreprocessedQuestion) error
	SetStatus(ctx context.Context, candidateID string, revision int64, status string) error
}

type preprocessingRepo struct {
	col *mongo.Collection
}

func NewPreprocessingRepo(db *mongo.Database) PreprocessingRepository {
	return &preprocessingRepo{col: db.Collection(config.CollPreprocessing)}
}

func (r *preprocessingRepo) GetByCandidateID(ctx context.Context, candidateID string) (*models.PreprocessingRecord, error) {
	var rec models.PreprocessingRecord
	err := r.col.FindOne(ctx, bson.M{"candidate_id": candidateID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *preprocessingRepo) UpsertQuestions(ctx context.Context, candidateID, greeting string, questions []models.PreprocessedQuestion) (primitive.ObjectID, error) {
	now := time.Now().UTC()

	set := bson.M{
		"questions":  questions,
		"status":     models.PreprocessPending,
		"updated_at": now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
		"$inc":         bson.M{"revision": 1},
	}
	if greeting != "" {
		set["greetings_text"] = greeting
		// stale audio for a replaced greeting must not be served
		update["$unset"] = bson.M{"audio_file_greetings": ""}
	}

	var out models.PreprocessingRecord
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"candidate_id": candidateID},
		update,
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After).
			SetProjection(bson.M{"_id": 1}),
	).Decode(&out)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return out.ID, nil
}

func (r *preprocessingRepo) SaveAudio(ctx context.Context, candidateID string, revision int64, greetingAudio *primitive.ObjectID, questions []models.PreprocessedQuestion) error {
	set := bson.M{
		"questions":  questions,
		"status":     models.PreprocessReady,
		"updated_at": time.Now().UTC(),
	}
	if greetingAudio != nil {
		set["audio_file_greetings"] = *greetingAudio
	}
	return r.updateAt(ctx, candidateID, revision, bson.M{"$set": set})
}

func (r *preprocessingRepo) SetStatus(ctx context.Context, candidateID string, revision int64, status string) error {
	return r.updateAt(ctx, candidateID, revision,
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
}

func (r *preprocessingRepo) updateAt(ctx context.Context, candidateID string, revision int64, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, revisionFilter(candidateID, revision), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if n, cerr := r.col.CountDocuments(ctx, bson.M{"candidate_id": candidateID}); cerr == nil && n == 0 {
			return utils.ErrNotFound
		}
		return utils.ErrStale
	}
	return nil
}

// revisionFilter matches records written before revisions existed as revision 0.
func revisionFilter(candidateID string, revision int64) bson.M {
	f := bson.M{"candidate_id": candidateID, "revision": revision}
	if revision == 0 {
		f["revision"] = bson.M{"$in": bson.A{int64(0), nil}}
	}
	return f
}
