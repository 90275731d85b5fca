package services

import (
	"context"
	"errors"

	"github.com/yoockh/aieta/internal/models"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/utils"
)

type CandidateService interface {
	List(ctx context.Context) ([]models.Candidate, error)
	Get(ctx context.Context, id string) (*models.Candidate, error)
}

type candidateService struct {
	candidates mongorepo.CandidateRepository
}

func NewCandidateService(candidates mongorepo.CandidateRepository) CandidateService {
	return &candidateService{candidates: candidates}
}

func (s *candidateService) List(ctx context.Context) ([]models.Candidate, error) {
	const op = "CandidateService.List"

	out, err := s.candidates.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list candidates", err)
	}
	return out, nil
}

func (s *candidateService) Get(ctx context.Context, id string) (*models.Candidate, error) {
	const op = "CandidateService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}
	return c, nil
}
