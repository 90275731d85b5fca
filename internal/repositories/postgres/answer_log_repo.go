package postgres

import (
	"context"

	"github.com/yoockh/aieta/internal/models"
	"gorm.io/gorm"
)

type AnswerLogRepository interface {
	Insert(ctx context.Context, log *models.AnswerLog) error
	ListByCandidate(ctx context.Context, candidateID string, limit int) ([]models.AnswerLog, error)
}

type answerLogRepo struct {
	db *gorm.DB
}

func NewAnswerLogRepo(db *gorm.DB) AnswerLogRepository {
	return &answerLogRepo{db: db}
}

func (r *answerLogRepo) Insert(ctx context.Context, log *models.AnswerLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *answerLogRepo) ListByCandidate(ctx context.Context, candidateID string, limit int) ([]models.AnswerLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.AnswerLog
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
