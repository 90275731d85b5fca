package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/utils"
	"gorm.io/gorm"
)

type CodingRepository interface {
	Insert(ctx context.Context, s *models.CodingSubmission) error
	LatestByCandidate(ctx context.Context, candidateID string) (*models.CodingSubmission, error)
}

type codingRepo struct {
	db *gorm.DB
}

func NewCodingRepo(db *gorm.DB) CodingRepository {
	return &codingRepo{db: db}
}

func (r *codingRepo) Insert(ctx context.Context, s *models.CodingSubmission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *codingRepo) LatestByCandidate(ctx context.Context, candidateID string) (*models.CodingSubmission, error) {
	var row models.CodingSubmission
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("submitted_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
