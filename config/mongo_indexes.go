package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by repositories and the index bootstrap.
const (
	CollCandidates    = "candidates"
	CollTemplates     = "interview_templates"
	CollPreprocessing = "test_preprocessing"
	CollSessions      = "interaction"
	CollLegacy        = "interviews"
	CollResults       = "interviews_results"
	CollCoding        = "coding_submissions"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return errors.New("mongo database is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// one document per candidate in each of these
	for _, name := range []string{CollSessions, CollTemplates, CollPreprocessing} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "candidate_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_candidate_id").
				SetUnique(true),
		})
		if err != nil {
			return err
		}
	}

	_, err := db.Collection(CollCandidates).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("uniq_id").SetUnique(true),
	})
	if err != nil {
		return err
	}

	for _, name := range []string{CollLegacy, CollResults} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "candidate_id", Value: 1}},
			Options: options.Index().SetName("by_candidate_id"),
		})
		if err != nil {
			return err
		}
	}

	_, err = db.Collection(CollCoding).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "candidate_id", Value: 1}, {Key: "submitted_at", Value: -1}},
		Options: options.Index().SetName("by_candidate_latest"),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollSessions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: -1}},
		Options: options.Index().SetName("by_updated"),
	})
	return err
}
