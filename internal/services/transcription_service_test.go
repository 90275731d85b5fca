package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/aieta/internal/providers/stt"
	"github.com/yoockh/aieta/internal/utils"
)

type fakeSTT struct {
	got stt.Audio
	err error
}

func (f *fakeSTT) Transcribe(_ context.Context, a stt.Audio) (string, float64, error) {
	f.got = a
	if f.err != nil {
		return "", 0, f.err
	}
	return "hello world", 0.9, nil
}

func (f *fakeSTT) Close() error { return nil }

func TestTranscribeStripsDataURL(t *testing.T) {
	p := &fakeSTT{}
	svc := NewTranscriptionService(p)

	payload := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString([]byte("pcm"))
	out, err := svc.Transcribe(context.Background(), TranscribeRequest{AudioBase64: payload, Language: "id", Encoding: "webm_opus"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.Text)
	assert.Equal(t, []byte("pcm"), p.got.Content)
	assert.Equal(t, "id-ID", p.got.Language)
	assert.Equal(t, "webm_opus", p.got.Encoding)
}

func TestTranscribeErrors(t *testing.T) {
	audio := base64.StdEncoding.EncodeToString([]byte("pcm"))

	_, err := NewTranscriptionService(&fakeSTT{}).Transcribe(context.Background(), TranscribeRequest{AudioBase64: "  "})
	assert.Equal(t, http.StatusBadRequest, utils.HTTPStatus(err))

	_, err = NewTranscriptionService(&fakeSTT{}).Transcribe(context.Background(), TranscribeRequest{AudioBase64: "%%%"})
	assert.Equal(t, http.StatusBadRequest, utils.HTTPStatus(err))

	// no provider configured surfaces as a plain 500
	_, err = NewTranscriptionService(nil).Transcribe(context.Background(), TranscribeRequest{AudioBase64: audio})
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, utils.HTTPStatus(err))

	_, err = NewTranscriptionService(&fakeSTT{err: errors.New("quota")}).Transcribe(context.Background(), TranscribeRequest{AudioBase64: audio})
	assert.True(t, utils.IsCode(err, utils.CodeOracleFailure))
	assert.Equal(t, http.StatusInternalServerError, utils.HTTPStatus(err))
}
