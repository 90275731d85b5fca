package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/models"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/utils"
)

const (
	OperationCreated = "created"
	OperationUpdated = "updated"

	sessionIDLayout = "20060102_150405"
	sessionPlatform = "web"

	// points per scored interaction used for max_possible_score
	maxPointsPerInteraction = 5
)

type SaveResult struct {
	Success                bool    `json:"success"`
	Message                string  `json:"message"`
	CandidateID            string  `json:"candidate_id"`
	DocumentID             string  `json:"document_id"`
	Operation              string  `json:"operation"`
	TotalInteractionsSaved int     `json:"total_interactions_saved"`
	AverageScore           float64 `json:"average_score"`
	Collection             string  `json:"collection"`
}

type ScoreSummary struct {
	CandidateID      string  `json:"candidate_id"`
	AverageScore     float64 `json:"average_score"`
	TotalQuestions   int     `json:"total_questions"`
	TotalScore       int     `json:"total_score"`
	InterviewDetails any     `json:"interview_details"`
}

type DeleteResult struct {
	Success      bool   `json:"success"`
	CandidateID  string `json:"candidate_id"`
	DeletedCount int64  `json:"deleted_count"`
	Message      string `json:"message"`
	Collection   string `json:"collection"`
}

type SessionService interface {
	CompleteAndSave(ctx context.Context, candidateID, sessionID string, interactions []models.Interaction) (*SaveResult, error)
	GetScore(ctx context.Context, candidateID string) (*ScoreSummary, error)
	Delete(ctx context.Context, candidateID string) (*DeleteResult, error)
	Statistics(ctx context.Context) (*mongorepo.SessionStats, error)
}

type sessionService struct {
	sessions   mongorepo.SessionRepository
	legacy     mongorepo.LegacyRepository
	collection string
	log        *logrus.Logger
	now        func() time.Time
}

func NewSessionService(sessions mongorepo.SessionRepository, legacy mongorepo.LegacyRepository, dbName string, log *logrus.Logger) SessionService {
	return &sessionService{
		sessions:   sessions,
		legacy:     legacy,
		collection: dbName + "." + config.CollSessions,
		log:        log,
		now:        time.Now,
	}
}

// Summarize computes the session score block. Unscored interactions are
// excluded from every figure.
func Summarize(interactions []models.Interaction) models.SessionScores {
	var out models.SessionScores
	for _, it := range interactions {
		if it.Score == nil {
			continue
		}
		out.TotalScore += *it.Score
		out.ScoredInteractions++
	}
	if out.ScoredInteractions > 0 {
		out.AverageScore = round2(float64(out.TotalScore) / float64(out.ScoredInteractions))
	}
	out.MaxPossibleScore = out.ScoredInteractions * maxPointsPerInteraction
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *sessionService) CompleteAndSave(ctx context.Context, candidateID, sessionID string, interactions []models.Interaction) (*SaveResult, error) {
	const op = "SessionService.CompleteAndSave"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	if len(interactions) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "No interactions provided", nil)
	}

	now := s.now().UTC()
	if sessionID == "" {
		sessionID = s.now().Format(sessionIDLayout)
	}

	doc := &models.InterviewSession{
		CandidateID:  candidateID,
		SessionID:    sessionID,
		Interactions: interactions,
		Scores:       Summarize(interactions),
		Metadata: models.SessionMetadata{
			TotalQuestions:       len(interactions),
			InterviewCompletedAt: now,
			Platform:             sessionPlatform,
			Version:              config.Version,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := s.sessions.GetByCandidateID(ctx, candidateID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to read interview session", err)
	}

	operation := OperationCreated
	if existing != nil {
		operation = OperationUpdated
		// the whole document is replaced, created_at included
		doc.ID = existing.ID
		if err := s.sessions.Replace(ctx, doc); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to update interview session", err)
		}
	} else {
		if _, err := s.sessions.Insert(ctx, doc); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to create interview session", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"operation":    operation,
		"scored":       doc.Scores.ScoredInteractions,
	}).Info("interview session saved")

	return &SaveResult{
		Success:                true,
		Message:                fmt.Sprintf("Interview data %s successfully", operation),
		CandidateID:            candidateID,
		DocumentID:             doc.ID.Hex(),
		Operation:              operation,
		TotalInteractionsSaved: len(interactions),
		AverageScore:           doc.Scores.AverageScore,
		Collection:             s.collection,
	}, nil
}

func (s *sessionService) GetScore(ctx context.Context, candidateID string) (*ScoreSummary, error) {
	const op = "SessionService.GetScore"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	sess, err := s.sessions.GetByCandidateID(ctx, candidateID)
	if err == nil {
		return &ScoreSummary{
			CandidateID:      candidateID,
			AverageScore:     sess.Scores.AverageScore,
			TotalQuestions:   sess.Metadata.TotalQuestions,
			TotalScore:       sess.Scores.TotalScore,
			InterviewDetails: sess,
		}, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to read interview session", err)
	}

	old, err := s.legacy.GetInterview(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "No interview data found for candidate", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to read legacy interview", err)
	}

	// legacy records: a missing score counts as zero and the mean is unrounded
	total := 0
	for _, it := range old.Interactions {
		if it.Score != nil {
			total += *it.Score
		}
	}
	avg := 0.0
	if n := len(old.Interactions); n > 0 {
		avg = float64(total) / float64(n)
	}

	return &ScoreSummary{
		CandidateID:      candidateID,
		AverageScore:     avg,
		TotalQuestions:   len(old.Interactions),
		TotalScore:       total,
		InterviewDetails: old,
	}, nil
}

func (s *sessionService) Delete(ctx context.Context, candidateID string) (*DeleteResult, error) {
	const op = "SessionService.Delete"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	n, err := s.sessions.DeleteByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "Failed to delete interview data", err)
	}

	msg := "No interview data found to delete"
	if n > 0 {
		msg = "Interview data deleted successfully"
	}
	return &DeleteResult{
		Success:      true,
		CandidateID:  candidateID,
		DeletedCount: n,
		Message:      msg,
		Collection:   s.collection,
	}, nil
}

func (s *sessionService) Statistics(ctx context.Context) (*mongorepo.SessionStats, error) {
	const op = "SessionService.Statistics"

	st, err := s.sessions.Stats(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to compute statistics", err)
	}
	st.AverageScore = round2(st.AverageScore)
	return st, nil
}
