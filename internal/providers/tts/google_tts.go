package tts

import (
	"context"
	"errors"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

const slowSpeakingRate = 0.75

type GoogleTTS struct {
	c *texttospeech.Client
}

func NewGoogleTTS(ctx context.Context, opts ...option.ClientOption) (*GoogleTTS, error) {
	c, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleTTS{c: c}, nil
}

func (g *GoogleTTS) Close() error { return g.c.Close() }

func (g *GoogleTTS) Synthesize(ctx context.Context, text, language string, slow bool) ([]byte, error) {
	rate := 1.0
	if slow {
		rate = slowSpeakingRate
	}

	resp, err := g.c.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: NormalizeLanguage(language),
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  rate,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.AudioContent) == 0 {
		return nil, errors.New("empty audio content")
	}
	return resp.AudioContent, nil
}
