package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/oracle"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/utils"
)

const SetupMessage = "Interview setup completed successfully"

type SetupResult struct {
	CandidateID string   `json:"candidate_id"`
	Greeting    string   `json:"greeting"`
	Questions   []string `json:"questions"`
	Message     string   `json:"message"`
	Generated   bool     `json:"-"`
}

// TemplateService is the read-through store for per-candidate interview
// templates: a miss asks the question oracle and persists its answer.
type TemplateService interface {
	Setup(ctx context.Context, candidateID string) (*SetupResult, error)
}

type templateService struct {
	candidates    mongorepo.CandidateRepository
	templates     mongorepo.TemplateRepository
	preprocessing mongorepo.PreprocessingRepository
	oracle        oracle.QuestionOracle
	log           *logrus.Logger
}

func NewTemplateService(
	candidates mongorepo.CandidateRepository,
	templates mongorepo.TemplateRepository,
	preprocessing mongorepo.PreprocessingRepository,
	qo oracle.QuestionOracle,
	log *logrus.Logger,
) TemplateService {
	return &templateService{
		candidates:    candidates,
		templates:     templates,
		preprocessing: preprocessing,
		oracle:        qo,
		log:           log,
	}
}

func (s *templateService) Setup(ctx context.Context, candidateID string) (*SetupResult, error) {
	const op = "TemplateService.Setup"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}

	c, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}

	tpl, err := s.lookup(ctx, candidateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read interview template", err)
	}
	if tpl.Usable() {
		return setupResult(candidateID, tpl, false), nil
	}

	gen, genErr := s.oracle.GenerateInterview(ctx, c)

	tpl = &models.InterviewTemplate{
		CandidateID:    candidateID,
		CandidateEmail: c.PersonalInformation.Email,
		Questions:      []string{},
	}
	if genErr == nil {
		tpl.GreetingScript = gen.GreetingScript
		tpl.Questions = gen.Questions
	}

	// a failed generation still leaves an empty template behind; it reads as a miss next time
	if err := s.templates.Save(ctx, tpl); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store interview template", err)
	}

	if genErr != nil {
		s.log.WithError(genErr).WithField("candidate_id", candidateID).Error("question generation failed")
		if utils.IsCode(genErr, utils.CodeOracleFailure) {
			return nil, genErr
		}
		return nil, utils.E(utils.CodeOracleFailure, op, "failed to generate interview questions", genErr)
	}

	return setupResult(candidateID, tpl, true), nil
}

// lookup prefers the preprocessing record (it carries audio), then the
// generated template. Neither existing is not an error.
func (s *templateService) lookup(ctx context.Context, candidateID string) (*models.InterviewTemplate, error) {
	rec, err := s.preprocessing.GetByCandidateID(ctx, candidateID)
	switch {
	case err == nil:
		tpl := &models.InterviewTemplate{
			CandidateID:    candidateID,
			GreetingScript: rec.GreetingsText,
			Questions:      rec.QuestionTexts(),
		}
		if tpl.Usable() {
			return tpl, nil
		}
	case !errors.Is(err, utils.ErrNotFound):
		return nil, err
	}

	tpl, err := s.templates.GetByCandidateID(ctx, candidateID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	return tpl, err
}

func setupResult(candidateID string, tpl *models.InterviewTemplate, generated bool) *SetupResult {
	return &SetupResult{
		CandidateID: candidateID,
		Greeting:    tpl.GreetingScript,
		Questions:   tpl.Questions,
		Message:     SetupMessage,
		Generated:   generated,
	}
}
