package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/aieta/internal/models"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	pgrepo "github.com/yoockh/aieta/internal/repositories/postgres"
	"github.com/yoockh/aieta/internal/utils"
)

// the mongo store backs submissions when postgres is not configured
var _ pgrepo.CodingRepository = (mongorepo.CodingRepository)(nil)

type fakeCoding struct {
	rows []models.CodingSubmission
}

func (f *fakeCoding) Insert(_ context.Context, s *models.CodingSubmission) error {
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeCoding) LatestByCandidate(_ context.Context, id string) (*models.CodingSubmission, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].CandidateID == id {
			r := f.rows[i]
			return &r, nil
		}
	}
	return nil, utils.ErrNotFound
}

type stubRunner struct {
	out string
	err error
}

func (s stubRunner) Run(context.Context, string) (string, error) { return s.out, s.err }

func TestSubmitRunsAndStores(t *testing.T) {
	repo := &fakeCoding{}
	svc := NewCodingService(repo, stubRunner{out: "42\n"})

	out, err := svc.Submit(context.Background(), CodingSubmissionRequest{CandidateID: "c-1", Code: "print(42)"})
	require.NoError(t, err)
	assert.Equal(t, "42\n", out.ExecutionResult)
	assert.NotEmpty(t, out.SubmissionID)

	require.Len(t, repo.rows, 1)
	assert.Equal(t, "python", repo.rows[0].Language)

	latest, err := svc.Latest(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, out.SubmissionID, latest.ID)
}

func TestSubmitRunnerErrorIsResult(t *testing.T) {
	svc := NewCodingService(&fakeCoding{}, stubRunner{err: errors.New("SyntaxError")})

	out, err := svc.Submit(context.Background(), CodingSubmissionRequest{CandidateID: "c-1", Code: "print("})
	require.NoError(t, err)
	assert.Equal(t, "Error executing code: SyntaxError", out.ExecutionResult)
}

func TestSubmitDisabledRunner(t *testing.T) {
	svc := NewCodingService(&fakeCoding{}, nil)

	out, err := svc.Submit(context.Background(), CodingSubmissionRequest{CandidateID: "c-1", Code: "x = 1"})
	require.NoError(t, err)
	assert.Equal(t, CodeRunnerDisabledMessage, out.ExecutionResult)
}

func TestSubmitValidation(t *testing.T) {
	svc := NewCodingService(&fakeCoding{}, nil)

	_, err := svc.Submit(context.Background(), CodingSubmissionRequest{CandidateID: "c-1", Code: "  "})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = NewCodingService(nil, nil).Submit(context.Background(), CodingSubmissionRequest{CandidateID: "c-1", Code: "x"})
	assert.True(t, utils.IsCode(err, utils.CodeInternal))

	_, err = svc.Latest(context.Background(), "nobody")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
