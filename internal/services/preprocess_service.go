package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/providers/tts"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/utils"
)

type StoreQuestionsRequest struct {
	CandidateID string   `json:"candidate_id"`
	Greeting    string   `json:"greeting,omitempty"`
	Questions   []string `json:"questions"`
	Language    string   `json:"language,omitempty"`
}

type StoreQuestionsResult struct {
	CandidateID string   `json:"candidate_id"`
	InsertedIDs []string `json:"inserted_ids"`
	Message     string   `json:"message"`
	Queued      bool     `json:"queued"`
}

// JobQueue hands audio generation to the worker pool.
type JobQueue interface {
	Enqueue(ctx context.Context, candidateID, language string) error
}

// ErrSuperseded is returned by GenerateAudio when the questions were replaced
// while audio was being synthesized. The record stays pending for the newer job.
var ErrSuperseded = fmt.Errorf("preprocessing superseded: %w", utils.ErrStale)

type PreprocessService interface {
	StoreQuestions(ctx context.Context, req StoreQuestionsRequest) (*StoreQuestionsResult, error)
	// GenerateAudio synthesizes and stores every prompt of the candidate's record.
	GenerateAudio(ctx context.Context, candidateID, language string) error
	Status(ctx context.Context, candidateID string) (string, error)
}

type preprocessService struct {
	records mongorepo.PreprocessingRepository
	audio   mongorepo.AudioStore
	tts     tts.Provider
	queue   JobQueue // nil when no redis is configured
	log     *logrus.Logger
}

func NewPreprocessService(
	records mongorepo.PreprocessingRepository,
	audio mongorepo.AudioStore,
	synth tts.Provider,
	queue JobQueue,
	log *logrus.Logger,
) PreprocessService {
	return &preprocessService{records: records, audio: audio, tts: synth, queue: queue, log: log}
}

func (s *preprocessService) StoreQuestions(ctx context.Context, req StoreQuestionsRequest) (*StoreQuestionsResult, error) {
	const op = "PreprocessService.StoreQuestions"

	if req.CandidateID == "" || len(req.Questions) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id and questions are required", nil)
	}

	qs := make([]models.PreprocessedQuestion, 0, len(req.Questions))
	for i, text := range req.Questions {
		qs = append(qs, models.PreprocessedQuestion{QuestionNumber: i + 1, Text: strings.TrimSpace(text)})
	}

	id, err := s.records.UpsertQuestions(ctx, req.CandidateID, strings.TrimSpace(req.Greeting), qs)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store questions", err)
	}

	out := &StoreQuestionsResult{
		CandidateID: req.CandidateID,
		InsertedIDs: []string{id.Hex()},
		Message:     fmt.Sprintf("%d questions stored successfully", len(req.Questions)),
	}

	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, req.CandidateID, req.Language); err != nil {
			// questions are stored; audio falls back to on-demand synthesis
			s.log.WithError(err).WithField("candidate_id", req.CandidateID).Warn("failed to enqueue audio generation")
		} else {
			out.Queued = true
		}
	}
	return out, nil
}

func (s *preprocessService) GenerateAudio(ctx context.Context, candidateID, language string) error {
	const op = "PreprocessService.GenerateAudio"

	rec, err := s.records.GetByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "preprocessing record not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to read preprocessing record", err)
	}

	if err := s.records.SetStatus(ctx, candidateID, rec.Revision, models.PreprocessProcessing); err != nil {
		if errors.Is(err, utils.ErrStale) {
			return ErrSuperseded
		}
		return utils.E(utils.CodeInternal, op, "failed to set status", err)
	}

	greeting, questions, err := s.synthesizeAll(ctx, rec, tts.NormalizeLanguage(language))
	if err != nil {
		serr := s.records.SetStatus(ctx, candidateID, rec.Revision, models.PreprocessFailed)
		if errors.Is(serr, utils.ErrStale) {
			return ErrSuperseded
		}
		if serr != nil {
			s.log.WithError(serr).WithField("candidate_id", candidateID).Warn("failed to mark preprocessing failed")
		}
		return err
	}

	if err := s.records.SaveAudio(ctx, candidateID, rec.Revision, greeting, questions); err != nil {
		if errors.Is(err, utils.ErrStale) {
			s.log.WithField("candidate_id", candidateID).Info("questions replaced during synthesis, discarding audio")
			return ErrSuperseded
		}
		return utils.E(utils.CodeInternal, op, "failed to save audio ids", err)
	}
	return nil
}

func (s *preprocessService) synthesizeAll(ctx context.Context, rec *models.PreprocessingRecord, lang string) (*primitive.ObjectID, []models.PreprocessedQuestion, error) {
	const op = "PreprocessService.GenerateAudio"

	var greeting *primitive.ObjectID
	if rec.GreetingsText != "" {
		id, err := s.synthesizeOne(ctx, rec.GreetingsText, lang, fmt.Sprintf("%s_greeting.mp3", rec.CandidateID))
		if err != nil {
			return nil, nil, utils.E(utils.CodeOracleFailure, op, "greeting synthesis failed", err)
		}
		greeting = &id
	}

	questions := make([]models.PreprocessedQuestion, len(rec.Questions))
	copy(questions, rec.Questions)
	for i := range questions {
		q := &questions[i]
		if q.Text == "" {
			continue
		}
		id, err := s.synthesizeOne(ctx, q.Text, lang, fmt.Sprintf("%s_q%d.mp3", rec.CandidateID, q.QuestionNumber))
		if err != nil {
			return nil, nil, utils.E(utils.CodeOracleFailure, op, fmt.Sprintf("question %d synthesis failed", q.QuestionNumber), err)
		}
		q.AudioFileQuestionNumber = &id
	}
	return greeting, questions, nil
}

func (s *preprocessService) synthesizeOne(ctx context.Context, text, lang, filename string) (primitive.ObjectID, error) {
	b, err := s.tts.Synthesize(ctx, text, lang, false)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return s.audio.Put(ctx, filename, b)
}

func (s *preprocessService) Status(ctx context.Context, candidateID string) (string, error) {
	const op = "PreprocessService.Status"

	rec, err := s.records.GetByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "preprocessing record not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to read preprocessing record", err)
	}
	return rec.Status, nil
}
