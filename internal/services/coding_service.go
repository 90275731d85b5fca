package services

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yoockh/aieta/internal/models"
	pgrepo "github.com/yoockh/aieta/internal/repositories/postgres"
	"github.com/yoockh/aieta/internal/utils"
)

const (
	defaultCodeLanguage = "python"

	CodeRunnerDisabledMessage = "Code execution is disabled on this server"
	codeNoOutputMessage       = "Code executed successfully (no output)"
	maxCodeOutput             = 64 << 10
)

type CodingSubmissionRequest struct {
	CandidateID string `json:"candidate_id"`
	Code        string `json:"code"`
	Language    string `json:"language,omitempty"`
}

type CodingSubmissionResult struct {
	ExecutionResult string `json:"execution_result"`
	SubmissionID    string `json:"submission_id"`
}

// CodeRunner executes a submission and returns what the candidate would see.
type CodeRunner interface {
	Run(ctx context.Context, code string) (string, error)
}

type CodingService interface {
	Submit(ctx context.Context, req CodingSubmissionRequest) (*CodingSubmissionResult, error)
	Latest(ctx context.Context, candidateID string) (*models.CodingSubmission, error)
}

type codingService struct {
	subs   pgrepo.CodingRepository
	runner CodeRunner // nil disables execution
}

func NewCodingService(subs pgrepo.CodingRepository, runner CodeRunner) CodingService {
	return &codingService{subs: subs, runner: runner}
}

func (s *codingService) Submit(ctx context.Context, req CodingSubmissionRequest) (*CodingSubmissionResult, error) {
	const op = "CodingService.Submit"

	if req.CandidateID == "" || strings.TrimSpace(req.Code) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id and code are required", nil)
	}
	if s.subs == nil {
		return nil, utils.E(utils.CodeInternal, op, "coding submissions are not configured", nil)
	}
	if req.Language == "" {
		req.Language = defaultCodeLanguage
	}

	result := CodeRunnerDisabledMessage
	if s.runner != nil {
		out, err := s.runner.Run(ctx, req.Code)
		if err != nil {
			result = "Error executing code: " + err.Error()
		} else {
			result = out
		}
	}

	row := &models.CodingSubmission{
		ID:              uuid.NewString(),
		CandidateID:     req.CandidateID,
		Language:        req.Language,
		Code:            req.Code,
		ExecutionResult: result,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := s.subs.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store submission", err)
	}

	return &CodingSubmissionResult{ExecutionResult: result, SubmissionID: row.ID}, nil
}

func (s *codingService) Latest(ctx context.Context, candidateID string) (*models.CodingSubmission, error) {
	const op = "CodingService.Latest"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	if s.subs == nil {
		return nil, utils.E(utils.CodeInternal, op, "coding submissions are not configured", nil)
	}

	row, err := s.subs.LatestByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no submission found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get submission", err)
	}
	return row, nil
}

// ExecRunner feeds the code to an interpreter on stdin.
type ExecRunner struct {
	Interpreter string
	Timeout     time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, code string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Interpreter, "-")
	cmd.Stdin = strings.NewReader(code)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", errors.New("execution timed out")
	}

	text := out.String()
	if len(text) > maxCodeOutput {
		text = text[:maxCodeOutput]
	}
	if err != nil {
		if strings.TrimSpace(text) != "" {
			return "", errors.New(strings.TrimSpace(text))
		}
		return "", err
	}
	if text == "" {
		return codeNoOutputMessage, nil
	}
	return text, nil
}
