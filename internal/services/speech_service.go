package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/aieta/internal/cache"
	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/providers/tts"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/utils"
)

const (
	SourcePreGenerated = "pre_generated"
	SourceGenerated    = "generated"

	defaultSpeechLanguage = "en"
)

var questionPrefix = regexp.MustCompile(`^Question \d+\.\s*`)

type ResolveRequest struct {
	CandidateID string `json:"candidate_id"`
	Text        string `json:"text"`
	Language    string `json:"language"`
	Slow        bool   `json:"slow"`
}

type ResolvedAudio struct {
	Audio    []byte
	Text     string
	Language string
	Source   string
}

// SpeechService serves interviewer audio: pre-generated GridFS blobs when the
// text matches the candidate's preprocessing record, fresh synthesis otherwise.
type SpeechService interface {
	Resolve(ctx context.Context, req ResolveRequest) (*ResolvedAudio, error)
	ResolveByIndex(ctx context.Context, candidateID string, n int) ([]byte, error)
}

type speechService struct {
	preprocessing mongorepo.PreprocessingRepository
	audio         mongorepo.AudioStore
	tts           tts.Provider
	cache         cache.Cache // optional
	cacheTTL      time.Duration
	log           *logrus.Logger
}

func NewSpeechService(
	preprocessing mongorepo.PreprocessingRepository,
	audio mongorepo.AudioStore,
	synth tts.Provider,
	c cache.Cache,
	cacheTTL time.Duration,
	log *logrus.Logger,
) SpeechService {
	return &speechService{
		preprocessing: preprocessing,
		audio:         audio,
		tts:           synth,
		cache:         c,
		cacheTTL:      cacheTTL,
		log:           log,
	}
}

func (s *speechService) Resolve(ctx context.Context, req ResolveRequest) (*ResolvedAudio, error) {
	const op = "SpeechService.Resolve"

	if strings.TrimSpace(req.Text) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "text is required", nil)
	}
	if req.Language == "" {
		req.Language = defaultSpeechLanguage
	}

	out := &ResolvedAudio{Text: req.Text, Language: req.Language}

	if req.CandidateID != "" {
		b, err := s.preGenerated(ctx, req.CandidateID, req.Text)
		switch {
		case err == nil && b != nil:
			out.Audio, out.Source = b, SourcePreGenerated
			return out, nil
		case err != nil:
			s.log.WithError(err).WithField("candidate_id", req.CandidateID).Warn("failed to fetch pre-generated audio")
		}
	}

	b, err := s.synthesize(ctx, req.Text, req.Language, req.Slow)
	if err != nil {
		return nil, utils.E(utils.CodeOracleFailure, op, "TTS failed", err)
	}
	out.Audio, out.Source = b, SourceGenerated
	return out, nil
}

func (s *speechService) ResolveByIndex(ctx context.Context, candidateID string, n int) ([]byte, error) {
	const op = "SpeechService.ResolveByIndex"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	rec, err := s.preprocessing.GetByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to read preprocessing record", err)
	}

	var id *primitive.ObjectID
	if n == 0 {
		id = rec.AudioFileGreetings
	} else {
		q := findQuestion(rec, n)
		if q == nil {
			return nil, utils.E(utils.CodeNotFound, op, fmt.Sprintf("Question %d not found", n), nil)
		}
		id = q.AudioFileQuestionNumber
	}
	if id == nil || id.IsZero() {
		return nil, utils.E(utils.CodeNotFound, op, "Audio file not found", nil)
	}

	b, err := s.audio.Get(ctx, *id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Audio file not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to read audio file", err)
	}
	return b, nil
}

// preGenerated returns nil bytes and a nil error when nothing matches.
func (s *speechService) preGenerated(ctx context.Context, candidateID, text string) ([]byte, error) {
	rec, err := s.preprocessing.GetByCandidateID(ctx, candidateID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	id := MatchAudio(rec, text)
	if id == nil {
		return nil, nil
	}
	return s.audio.Get(ctx, *id)
}

// MatchAudio finds the blob for text: the greeting verbatim, otherwise a
// question whose text equals text with or without its "Question N." prefix.
func MatchAudio(rec *models.PreprocessingRecord, text string) *primitive.ObjectID {
	if rec == nil {
		return nil
	}
	if rec.GreetingsText != "" && text == rec.GreetingsText {
		return nonZero(rec.AudioFileGreetings)
	}

	clean := questionPrefix.ReplaceAllString(text, "")
	for i := range rec.Questions {
		q := &rec.Questions[i]
		if clean == q.Text || text == q.Text {
			return nonZero(q.AudioFileQuestionNumber)
		}
	}
	return nil
}

func nonZero(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil || id.IsZero() {
		return nil
	}
	return id
}

func findQuestion(rec *models.PreprocessingRecord, n int) *models.PreprocessedQuestion {
	for i := range rec.Questions {
		if rec.Questions[i].QuestionNumber == n {
			return &rec.Questions[i]
		}
	}
	return nil
}

func (s *speechService) synthesize(ctx context.Context, text, language string, slow bool) ([]byte, error) {
	lang := tts.NormalizeLanguage(language)

	var key string
	if s.cache != nil {
		key = cache.AudioKey(text, lang, slow)
		b, hit, err := s.cache.GetBytes(ctx, key)
		if err != nil {
			s.log.WithError(err).Warn("audio cache read failed")
		} else if hit {
			return b, nil
		}
	}

	b, err := s.tts.Synthesize(ctx, text, lang, slow)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBytes(ctx, key, b, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("audio cache write failed")
		}
	}
	return b, nil
}
