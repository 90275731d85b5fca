package mongo

import (
	"bytes"
	"context"
	"errors"

	"github.com/yoockh/aieta/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AudioStore keeps pre-generated mp3 blobs in GridFS (default "fs" bucket).
type AudioStore interface {
	Put(ctx context.Context, filename string, data []byte) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) ([]byte, error)
}

type gridFSAudioStore struct {
	db *mongo.Database
}

func NewAudioStore(db *mongo.Database) AudioStore {
	return &gridFSAudioStore{db: db}
}

// bucket is built per call: deadlines are bucket state and must not leak
// between concurrent requests.
func (s *gridFSAudioStore) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket())
	if err != nil {
		return nil, err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(dl)
		_ = b.SetWriteDeadline(dl)
	}
	return b, nil
}

func (s *gridFSAudioStore) Put(ctx context.Context, filename string, data []byte) (primitive.ObjectID, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return b.UploadFromStream(filename, bytes.NewReader(data),
		options.GridFSUpload().SetMetadata(map[string]string{"content_type": "audio/mpeg"}))
}

func (s *gridFSAudioStore) Get(ctx context.Context, id primitive.ObjectID) ([]byte, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := b.DownloadToStream(id, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
