package services

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/yoockh/aieta/internal/providers/stt"
	"github.com/yoockh/aieta/internal/providers/tts"
	"github.com/yoockh/aieta/internal/utils"
)

type TranscribeRequest struct {
	AudioBase64  string `json:"audio_base64"`
	Language     string `json:"language"`
	Encoding     string `json:"encoding,omitempty"`
	SampleRateHz int32  `json:"sample_rate,omitempty"`
}

type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type TranscriptionService interface {
	Transcribe(ctx context.Context, req TranscribeRequest) (*Transcript, error)
}

type transcriptionService struct {
	stt stt.Provider
}

func NewTranscriptionService(p stt.Provider) TranscriptionService {
	return &transcriptionService{stt: p}
}

func (s *transcriptionService) Transcribe(ctx context.Context, req TranscribeRequest) (*Transcript, error) {
	const op = "TranscriptionService.Transcribe"

	raw := strings.TrimSpace(req.AudioBase64)
	if raw == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio_base64 is required", nil)
	}
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // strip data:...;base64,
	}
	audio, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid audio_base64", err)
	}
	if s.stt == nil {
		return nil, utils.E(utils.CodeInternal, op, "speech recognition is not configured", nil)
	}

	text, conf, err := s.stt.Transcribe(ctx, stt.Audio{
		Content:      audio,
		Language:     tts.NormalizeLanguage(req.Language),
		Encoding:     req.Encoding,
		SampleRateHz: req.SampleRateHz,
	})
	if err != nil {
		return nil, utils.E(utils.CodeOracleFailure, op, "transcription failed", err)
	}
	return &Transcript{Text: text, Confidence: conf}, nil
}
