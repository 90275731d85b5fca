package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/utils"
)

func TestStoreQuestionsNumbersAndQueues(t *testing.T) {
	prep := newFakePreprocessing()
	queue := &fakeQueue{}
	svc := NewPreprocessService(prep, newFakeAudio(), &fakeTTS{}, queue, quietLogger())

	out, err := svc.StoreQuestions(context.Background(), StoreQuestionsRequest{
		CandidateID: "c-1",
		Greeting:    "Hi there",
		Questions:   []string{"First?", " Second? "},
	})
	require.NoError(t, err)
	assert.Equal(t, "2 questions stored successfully", out.Message)
	assert.Len(t, out.InsertedIDs, 1)
	assert.True(t, out.Queued)
	assert.Equal(t, []string{"c-1"}, queue.jobs)

	rec := prep.byID["c-1"]
	require.Len(t, rec.Questions, 2)
	assert.Equal(t, 1, rec.Questions[0].QuestionNumber)
	assert.Equal(t, 2, rec.Questions[1].QuestionNumber)
	assert.Equal(t, "Second?", rec.Questions[1].Text)
	assert.Equal(t, "Hi there", rec.GreetingsText)
	assert.Equal(t, models.PreprocessPending, rec.Status)

	again, err := svc.StoreQuestions(context.Background(), StoreQuestionsRequest{CandidateID: "c-1", Questions: []string{"Only"}})
	require.NoError(t, err)
	assert.Equal(t, out.InsertedIDs, again.InsertedIDs)
}

func TestStoreQuestionsQueueFailureStillStores(t *testing.T) {
	prep := newFakePreprocessing()
	svc := NewPreprocessService(prep, newFakeAudio(), &fakeTTS{}, &fakeQueue{err: errors.New("redis down")}, quietLogger())

	out, err := svc.StoreQuestions(context.Background(), StoreQuestionsRequest{CandidateID: "c-1", Questions: []string{"Q"}})
	require.NoError(t, err)
	assert.False(t, out.Queued)
	assert.Contains(t, prep.byID, "c-1")
}

func TestStoreQuestionsValidation(t *testing.T) {
	svc := NewPreprocessService(newFakePreprocessing(), newFakeAudio(), &fakeTTS{}, nil, quietLogger())

	_, err := svc.StoreQuestions(context.Background(), StoreQuestionsRequest{CandidateID: "c-1"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.StoreQuestions(context.Background(), StoreQuestionsRequest{Questions: []string{"Q"}})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestGenerateAudio(t *testing.T) {
	prep := newFakePreprocessing()
	audio := newFakeAudio()
	synth := &fakeTTS{}
	svc := NewPreprocessService(prep, audio, synth, nil, quietLogger())
	ctx := context.Background()

	_, err := svc.StoreQuestions(ctx, StoreQuestionsRequest{CandidateID: "c-1", Greeting: "Hello", Questions: []string{"Q1", "Q2"}})
	require.NoError(t, err)

	require.NoError(t, svc.GenerateAudio(ctx, "c-1", "en"))
	assert.Equal(t, 3, synth.calls)
	assert.Equal(t, []string{"c-1_greeting.mp3", "c-1_q1.mp3", "c-1_q2.mp3"}, audio.names)

	rec := prep.byID["c-1"]
	assert.Equal(t, models.PreprocessReady, rec.Status)
	require.NotNil(t, rec.AudioFileGreetings)
	for _, q := range rec.Questions {
		require.NotNil(t, q.AudioFileQuestionNumber)
	}
	assert.Equal(t, []string{models.PreprocessProcessing, models.PreprocessReady}, prep.statuses)

	status, err := svc.Status(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, models.PreprocessReady, status)

	// the generated blobs are what the speech resolver serves
	speech := NewSpeechService(prep, audio, synth, nil, 0, quietLogger())
	b, err := speech.ResolveByIndex(ctx, "c-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "mp3:en-US:Q2", string(b))
}

func TestGenerateAudioFailureMarksFailed(t *testing.T) {
	prep := newFakePreprocessing()
	svc := NewPreprocessService(prep, newFakeAudio(), &fakeTTS{err: errors.New("quota")}, nil, quietLogger())
	ctx := context.Background()

	_, err := svc.StoreQuestions(ctx, StoreQuestionsRequest{CandidateID: "c-1", Questions: []string{"Q1"}})
	require.NoError(t, err)

	err = svc.GenerateAudio(ctx, "c-1", "en")
	assert.True(t, utils.IsCode(err, utils.CodeOracleFailure))
	assert.Equal(t, models.PreprocessFailed, prep.byID["c-1"].Status)

	err = svc.GenerateAudio(ctx, "c-404", "en")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = svc.Status(ctx, "c-404")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestGenerateAudioDiscardedWhenQuestionsReplaced(t *testing.T) {
	prep := newFakePreprocessing()
	audio := newFakeAudio()
	synth := &fakeTTS{}
	svc := NewPreprocessService(prep, audio, synth, nil, quietLogger())
	ctx := context.Background()

	_, err := svc.StoreQuestions(ctx, StoreQuestionsRequest{CandidateID: "c-1", Questions: []string{"old question"}})
	require.NoError(t, err)

	replaced := false
	synth.onSynth = func(text string) {
		if replaced {
			return
		}
		replaced = true
		_, err := svc.StoreQuestions(ctx, StoreQuestionsRequest{CandidateID: "c-1", Questions: []string{"new question"}})
		require.NoError(t, err)
	}

	err = svc.GenerateAudio(ctx, "c-1", "en")
	require.ErrorIs(t, err, ErrSuperseded)
	assert.ErrorIs(t, err, utils.ErrStale)

	rec := prep.byID["c-1"]
	assert.Equal(t, models.PreprocessPending, rec.Status)
	require.Len(t, rec.Questions, 1)
	assert.Equal(t, "new question", rec.Questions[0].Text)
	assert.Nil(t, rec.Questions[0].AudioFileQuestionNumber)
	assert.Equal(t, []string{models.PreprocessProcessing}, prep.statuses)

	// the newer job runs against the replaced questions
	synth.onSynth = nil
	require.NoError(t, svc.GenerateAudio(ctx, "c-1", "en"))
	assert.Equal(t, models.PreprocessReady, prep.byID["c-1"].Status)
	assert.Equal(t, "new question", prep.byID["c-1"].Questions[0].Text)
}
