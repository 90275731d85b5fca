package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/oracle"
	pgrepo "github.com/yoockh/aieta/internal/repositories/postgres"
	"github.com/yoockh/aieta/internal/utils"
)

const (
	// answers scoring below this get a follow-up question
	FollowUpThreshold = 7

	EvaluationErrorFeedback  = "Error in evaluation"
	FallbackFollowUpQuestion = "Can you provide more details about your experience with this?"
)

type AnswerSubmission struct {
	CandidateID   string `json:"candidate_id"`
	QuestionIndex int    `json:"question_index"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
}

type AnswerEvaluation struct {
	Score            int      `json:"score"`
	Feedback         []string `json:"feedback"`
	NeedsFollowUp    bool     `json:"needs_followup"`
	FollowUpQuestion string   `json:"follow_up_question,omitempty"`
}

type FollowUpSubmission struct {
	CandidateID      string `json:"candidate_id"`
	OriginalQuestion string `json:"original_question"`
	OriginalAnswer   string `json:"original_answer"`
	Question         string `json:"follow_up_question"`
	Answer           string `json:"follow_up_answer"`
	FollowUpLevel    int    `json:"follow_up_level"`
}

type FollowUpEvaluation struct {
	Score         int      `json:"score"`
	Feedback      []string `json:"feedback"`
	FollowUpLevel int      `json:"follow_up_level"`
}

// EvaluationService scores answers. Oracle failures never surface to the
// caller: they degrade to a zero score so the interview can continue.
type EvaluationService interface {
	Evaluate(ctx context.Context, in AnswerSubmission) (*AnswerEvaluation, error)
	EvaluateFollowUp(ctx context.Context, in FollowUpSubmission) (*FollowUpEvaluation, error)
	History(ctx context.Context, candidateID string, limit int) ([]models.AnswerLog, error)
}

type evaluationService struct {
	evaluator oracle.EvaluationOracle
	followUps oracle.FollowUpOracle
	logs      pgrepo.AnswerLogRepository // nil when postgres is not configured
	log       *logrus.Logger
}

func NewEvaluationService(
	evaluator oracle.EvaluationOracle,
	followUps oracle.FollowUpOracle,
	logs pgrepo.AnswerLogRepository,
	log *logrus.Logger,
) EvaluationService {
	return &evaluationService{evaluator: evaluator, followUps: followUps, logs: logs, log: log}
}

func (s *evaluationService) Evaluate(ctx context.Context, in AnswerSubmission) (*AnswerEvaluation, error) {
	const op = "EvaluationService.Evaluate"

	// an empty answer is a skipped or silent turn and is still scored
	if strings.TrimSpace(in.Question) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question is required", nil)
	}

	ev, degraded := s.evaluate(ctx, in.CandidateID, in.Question, in.Answer)
	out := &AnswerEvaluation{Score: ev.Score, Feedback: ev.Feedback}

	if out.Score < FollowUpThreshold {
		out.NeedsFollowUp = true
		q, err := s.followUps.FollowUp(ctx, in.Question, in.Answer)
		if err != nil {
			s.log.WithError(err).WithField("candidate_id", in.CandidateID).Warn("follow-up generation failed, using fallback question")
			q = FallbackFollowUpQuestion
		}
		out.FollowUpQuestion = q
	}

	s.record(ctx, &models.AnswerLog{
		CandidateID:      in.CandidateID,
		QuestionIndex:    in.QuestionIndex,
		Kind:             models.AnswerKindAnswer,
		Question:         in.Question,
		Answer:           in.Answer,
		Score:            out.Score,
		Feedback:         out.Feedback,
		FollowUpQuestion: out.FollowUpQuestion,
		Degraded:         degraded,
	}, nil)
	return out, nil
}

func (s *evaluationService) EvaluateFollowUp(ctx context.Context, in FollowUpSubmission) (*FollowUpEvaluation, error) {
	const op = "EvaluationService.EvaluateFollowUp"

	// an empty answer is a skipped or silent turn and is still scored
	if strings.TrimSpace(in.Question) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question is required", nil)
	}
	if in.FollowUpLevel <= 0 {
		in.FollowUpLevel = 1
	}

	ev, degraded := s.evaluate(ctx, in.CandidateID, in.Question, in.Answer)

	s.record(ctx, &models.AnswerLog{
		CandidateID:   in.CandidateID,
		Kind:          models.AnswerKindFollowUp,
		Question:      in.Question,
		Answer:        in.Answer,
		Score:         ev.Score,
		Feedback:      ev.Feedback,
		FollowUpLevel: in.FollowUpLevel,
		Degraded:      degraded,
	}, map[string]any{
		"original_question": in.OriginalQuestion,
		"original_answer":   in.OriginalAnswer,
	})

	return &FollowUpEvaluation{
		Score:         ev.Score,
		Feedback:      ev.Feedback,
		FollowUpLevel: in.FollowUpLevel,
	}, nil
}

func (s *evaluationService) History(ctx context.Context, candidateID string, limit int) ([]models.AnswerLog, error) {
	const op = "EvaluationService.History"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	if s.logs == nil {
		return []models.AnswerLog{}, nil
	}

	rows, err := s.logs.ListByCandidate(ctx, candidateID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list answer log", err)
	}
	return rows, nil
}

func (s *evaluationService) evaluate(ctx context.Context, candidateID, question, answer string) (*oracle.Evaluation, bool) {
	ev, err := s.evaluator.Evaluate(ctx, question, answer)
	if err != nil {
		s.log.WithError(err).WithField("candidate_id", candidateID).Warn("evaluation failed, scoring zero")
		return &oracle.Evaluation{Score: 0, Feedback: []string{EvaluationErrorFeedback}}, true
	}
	return ev, false
}

// record appends to the answer log; failures are logged and dropped.
func (s *evaluationService) record(ctx context.Context, row *models.AnswerLog, extra map[string]any) {
	if s.logs == nil {
		return
	}

	md := map[string]any{"feedback_count": len(row.Feedback)}
	for k, v := range extra {
		md[k] = v
	}
	b, _ := json.Marshal(md)

	row.ID = uuid.NewString()
	row.CreatedAt = time.Now().UTC()
	row.Metadata = datatypes.JSON(b)

	if err := s.logs.Insert(ctx, row); err != nil {
		s.log.WithError(err).WithField("candidate_id", row.CandidateID).Warn("failed to append answer log")
	}
}
