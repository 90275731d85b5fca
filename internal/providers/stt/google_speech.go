package stt

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/yoockh/aieta/internal/providers/tts"
)

type GoogleSpeech struct {
	c *speech.Client
}

func NewGoogleSpeech(ctx context.Context, opts ...option.ClientOption) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{c: c}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func encodingOf(name string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "webm", "webm_opus":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case "ogg", "ogg_opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "flac":
		return speechpb.RecognitionConfig_FLAC
	case "mp3":
		return speechpb.RecognitionConfig_MP3
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio Audio) (string, float64, error) {
	cfg := &speechpb.RecognitionConfig{
		Encoding:                   encodingOf(audio.Encoding),
		LanguageCode:               tts.NormalizeLanguage(audio.Language),
		EnableAutomaticPunctuation: true,
	}
	if audio.SampleRateHz > 0 {
		cfg.SampleRateHertz = audio.SampleRateHz
	} else if cfg.Encoding == speechpb.RecognitionConfig_LINEAR16 {
		cfg.SampleRateHertz = 16000
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Content},
		},
	})
	if err != nil {
		return "", 0, err
	}

	// results are consecutive segments; keep the best alternative of each
	var parts []string
	var confSum float64
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		best := r.Alternatives[0]
		for _, alt := range r.Alternatives[1:] {
			if alt.Confidence > best.Confidence {
				best = alt
			}
		}
		if best.Transcript == "" {
			continue
		}
		parts = append(parts, strings.TrimSpace(best.Transcript))
		confSum += float64(best.Confidence)
	}
	if len(parts) == 0 {
		return "", 0, nil
	}
	return strings.Join(parts, " "), confSum / float64(len(parts)), nil
}
