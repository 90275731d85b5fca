package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/models"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/utils"
)

func newSessionSvc(sessions *fakeSessions, legacy *fakeLegacy) *sessionService {
	if legacy == nil {
		legacy = &fakeLegacy{}
	}
	svc := NewSessionService(sessions, legacy, "aieta", quietLogger()).(*sessionService)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return svc
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name   string
		scores []*int
		want   models.SessionScores
	}{
		{"worked example", []*int{intp(8), intp(5), intp(0)}, models.SessionScores{TotalScore: 13, AverageScore: 4.33, ScoredInteractions: 3, MaxPossibleScore: 15}},
		{"unscored are skipped", []*int{intp(6), nil, intp(9)}, models.SessionScores{TotalScore: 15, AverageScore: 7.5, ScoredInteractions: 2, MaxPossibleScore: 10}},
		{"nothing scored", []*int{nil, nil}, models.SessionScores{}},
		{"rounding", []*int{intp(1), intp(1), intp(0)}, models.SessionScores{TotalScore: 2, AverageScore: 0.67, ScoredInteractions: 3, MaxPossibleScore: 15}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var its []models.Interaction
			for _, s := range tc.scores {
				its = append(its, models.Interaction{Question: "q", Score: s})
			}
			assert.Equal(t, tc.want, Summarize(its))
		})
	}
}

func TestCompleteAndSaveUpserts(t *testing.T) {
	sessions := newFakeSessions()
	svc := newSessionSvc(sessions, nil)
	ctx := context.Background()

	first, err := svc.CompleteAndSave(ctx, "c-1", "", []models.Interaction{
		{Question: "q1", Score: intp(8)}, {Question: "q2", Score: intp(5)}, {Question: "q3", Score: intp(0)},
	})
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, OperationCreated, first.Operation)
	assert.Equal(t, "Interview data created successfully", first.Message)
	assert.Equal(t, 4.33, first.AverageScore)
	assert.Equal(t, 3, first.TotalInteractionsSaved)
	assert.Equal(t, "aieta."+config.CollSessions, first.Collection)
	assert.NotEmpty(t, first.DocumentID)

	stored := sessions.byID["c-1"]
	assert.Equal(t, "20240309_140507", stored.SessionID)
	assert.Equal(t, "web", stored.Metadata.Platform)
	assert.Equal(t, config.Version, stored.Metadata.Version)
	assert.Equal(t, 3, stored.Metadata.TotalQuestions)

	second, err := svc.CompleteAndSave(ctx, "c-1", "s-2", []models.Interaction{{Question: "q1", Score: intp(10)}})
	require.NoError(t, err)
	assert.Equal(t, OperationUpdated, second.Operation)
	assert.Equal(t, first.DocumentID, second.DocumentID)
	assert.Equal(t, 10.0, second.AverageScore)

	assert.Len(t, sessions.byID, 1)
	assert.Equal(t, 1, sessions.inserts)
	assert.Equal(t, 1, sessions.replaces)
	assert.Equal(t, "s-2", sessions.byID["c-1"].SessionID)
	assert.Len(t, sessions.byID["c-1"].Interactions, 1)
}

func TestCompleteAndSaveValidation(t *testing.T) {
	svc := newSessionSvc(newFakeSessions(), nil)

	_, err := svc.CompleteAndSave(context.Background(), "", "", []models.Interaction{{Question: "q"}})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.CompleteAndSave(context.Background(), "c-1", "", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestGetScore(t *testing.T) {
	sessions := newFakeSessions()
	legacy := &fakeLegacy{interviews: map[string]*models.LegacyInterview{
		"old": {CandidateID: "old", Interactions: []models.Interaction{
			{Question: "a", Score: intp(4)}, {Question: "b"}, {Question: "c", Score: intp(6)},
		}},
	}}
	svc := newSessionSvc(sessions, legacy)
	ctx := context.Background()

	_, err := svc.CompleteAndSave(ctx, "new", "", []models.Interaction{{Score: intp(8)}, {Score: intp(5)}, {Score: intp(0)}})
	require.NoError(t, err)

	s, err := svc.GetScore(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, 4.33, s.AverageScore)
	assert.Equal(t, 13, s.TotalScore)
	assert.Equal(t, 3, s.TotalQuestions)

	t.Run("legacy fallback counts missing as zero", func(t *testing.T) {
		s, err := svc.GetScore(ctx, "old")
		require.NoError(t, err)
		assert.Equal(t, 10, s.TotalScore)
		assert.Equal(t, 3, s.TotalQuestions)
		assert.InDelta(t, 10.0/3.0, s.AverageScore, 1e-12)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		_, err := svc.GetScore(ctx, "nobody")
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})
}

func TestDelete(t *testing.T) {
	sessions := newFakeSessions()
	svc := newSessionSvc(sessions, nil)
	ctx := context.Background()

	out, err := svc.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(0), out.DeletedCount)
	assert.Equal(t, "No interview data found to delete", out.Message)

	_, err = svc.CompleteAndSave(ctx, "c-1", "", []models.Interaction{{Score: intp(5)}})
	require.NoError(t, err)

	out, err = svc.Delete(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.DeletedCount)
	assert.Equal(t, "Interview data deleted successfully", out.Message)
	assert.Empty(t, sessions.byID)
}

func TestStatistics(t *testing.T) {
	sessions := newFakeSessions()
	sessions.stats = &mongorepo.SessionStats{TotalInterviews: 2, AverageScore: 6.666666, TotalQuestionsAsked: 7}
	svc := newSessionSvc(sessions, nil)

	st, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalInterviews)
	assert.Equal(t, 6.67, st.AverageScore)

	sessions.stats = nil
	_, err = svc.Statistics(context.Background())
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
}

func TestCompleteAndSaveReplacesCreatedAt(t *testing.T) {
	sessions := newFakeSessions()
	svc := newSessionSvc(sessions, nil)
	ctx := context.Background()

	_, err := svc.CompleteAndSave(ctx, "c-1", "s-1", []models.Interaction{{Question: "q1", Score: intp(6)}})
	require.NoError(t, err)
	firstCreated := sessions.byID["c-1"].CreatedAt

	later := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return later }

	_, err = svc.CompleteAndSave(ctx, "c-1", "s-2", []models.Interaction{{Question: "q1", Score: intp(9)}})
	require.NoError(t, err)

	stored := sessions.byID["c-1"]
	assert.NotEqual(t, firstCreated, stored.CreatedAt)
	assert.Equal(t, later, stored.CreatedAt)
	assert.Equal(t, later, stored.UpdatedAt)
}
