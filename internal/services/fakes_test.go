package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/aieta/internal/logger"
	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/oracle"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/utils"
)

func quietLogger() *logrus.Logger { return logger.Discard() }

func intp(v int) *int { return &v }

type fakeCandidates struct {
	byID map[string]*models.Candidate
	err  error
}

func (f *fakeCandidates) List(context.Context) ([]models.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Candidate{}
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCandidates) GetByID(_ context.Context, id string) (*models.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return c, nil
}

type fakeTemplates struct {
	mu    sync.Mutex
	byID  map[string]models.InterviewTemplate
	saves int
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{byID: map[string]models.InterviewTemplate{}}
}

func (f *fakeTemplates) GetByCandidateID(_ context.Context, id string) (*models.InterviewTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTemplates) Save(_ context.Context, t *models.InterviewTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.byID[t.CandidateID] = *t
	return nil
}

type fakePreprocessing struct {
	mu       sync.Mutex
	byID     map[string]*models.PreprocessingRecord
	statuses []string
	err      error
}

func newFakePreprocessing() *fakePreprocessing {
	return &fakePreprocessing{byID: map[string]*models.PreprocessingRecord{}}
}

func (f *fakePreprocessing) GetByCandidateID(_ context.Context, id string) (*models.PreprocessingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *r
	cp.Questions = append([]models.PreprocessedQuestion(nil), r.Questions...)
	return &cp, nil
}

func (f *fakePreprocessing) UpsertQuestions(_ context.Context, id, greeting string, qs []models.PreprocessedQuestion) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		r = &models.PreprocessingRecord{ID: primitive.NewObjectID(), CandidateID: id}
		f.byID[id] = r
	}
	r.Questions = qs
	r.Status = models.PreprocessPending
	r.Revision++
	if greeting != "" {
		r.GreetingsText = greeting
		r.AudioFileGreetings = nil
	}
	return r.ID, nil
}

func (f *fakePreprocessing) SaveAudio(_ context.Context, id string, rev int64, greeting *primitive.ObjectID, qs []models.PreprocessedQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	if r.Revision != rev {
		return utils.ErrStale
	}
	r.Questions = qs
	if greeting != nil {
		r.AudioFileGreetings = greeting
	}
	r.Status = models.PreprocessReady
	f.statuses = append(f.statuses, models.PreprocessReady)
	return nil
}

func (f *fakePreprocessing) SetStatus(_ context.Context, id string, rev int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	if r.Revision != rev {
		return utils.ErrStale
	}
	r.Status = status
	f.statuses = append(f.statuses, status)
	return nil
}

type fakeAudio struct {
	mu    sync.Mutex
	blobs map[primitive.ObjectID][]byte
	names []string
	err   error
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{blobs: map[primitive.ObjectID][]byte{}}
}

func (f *fakeAudio) Put(_ context.Context, name string, data []byte) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	f.blobs[id] = data
	f.names = append(f.names, name)
	return id, nil
}

func (f *fakeAudio) Get(_ context.Context, id primitive.ObjectID) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.blobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return b, nil
}

func (f *fakeAudio) add(data string) *primitive.ObjectID {
	id := primitive.NewObjectID()
	f.blobs[id] = []byte(data)
	return &id
}

type fakeSessions struct {
	byID     map[string]models.InterviewSession
	inserts  int
	replaces int
	stats    *mongorepo.SessionStats
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]models.InterviewSession{}}
}

func (f *fakeSessions) GetByCandidateID(_ context.Context, id string) (*models.InterviewSession, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessions) Insert(_ context.Context, s *models.InterviewSession) (primitive.ObjectID, error) {
	f.inserts++
	s.ID = primitive.NewObjectID()
	f.byID[s.CandidateID] = *s
	return s.ID, nil
}

func (f *fakeSessions) Replace(_ context.Context, s *models.InterviewSession) error {
	f.replaces++
	f.byID[s.CandidateID] = *s
	return nil
}

func (f *fakeSessions) DeleteByCandidateID(_ context.Context, id string) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

func (f *fakeSessions) Stats(context.Context) (*mongorepo.SessionStats, error) {
	if f.stats == nil {
		return nil, errors.New("no stats")
	}
	cp := *f.stats
	return &cp, nil
}

type fakeLegacy struct {
	interviews map[string]*models.LegacyInterview
	results    map[string]*models.InterviewResult
}

func (f *fakeLegacy) GetInterview(_ context.Context, id string) (*models.LegacyInterview, error) {
	if r, ok := f.interviews[id]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeLegacy) GetResult(_ context.Context, id string) (*models.InterviewResult, error) {
	if r, ok := f.results[id]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

type fakeQuestionOracle struct {
	out   *oracle.GeneratedInterview
	err   error
	calls int
}

func (f *fakeQuestionOracle) GenerateInterview(context.Context, *models.Candidate) (*oracle.GeneratedInterview, error) {
	f.calls++
	return f.out, f.err
}

type fakeEvaluator struct {
	ev      *oracle.Evaluation
	err     error
	answers []string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, _, answer string) (*oracle.Evaluation, error) {
	f.answers = append(f.answers, answer)
	return f.ev, f.err
}

type fakeFollowUps struct {
	q     string
	err   error
	calls int
}

func (f *fakeFollowUps) FollowUp(context.Context, string, string) (string, error) {
	f.calls++
	return f.q, f.err
}

type fakeAnswerLog struct {
	rows []models.AnswerLog
	err  error
}

func (f *fakeAnswerLog) Insert(_ context.Context, row *models.AnswerLog) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeAnswerLog) ListByCandidate(_ context.Context, id string, _ int) ([]models.AnswerLog, error) {
	var out []models.AnswerLog
	for _, r := range f.rows {
		if r.CandidateID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTTS struct {
	mu    sync.Mutex
	calls int
	err   error
	// onSynth runs before each synthesis, outside the lock.
	onSynth func(text string)
}

func (f *fakeTTS) Synthesize(_ context.Context, text, lang string, _ bool) ([]byte, error) {
	if f.onSynth != nil {
		f.onSynth(text)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + lang + ":" + text), nil
}

func (f *fakeTTS) Close() error { return nil }

type fakeQueue struct {
	jobs []string
	err  error
}

func (f *fakeQueue) Enqueue(_ context.Context, id, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, id)
	return nil
}

type fakeUploader struct {
	names []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	f.names = append(f.names, name)
	return "gs://bucket/" + name, nil
}
