package tts

import (
	"context"
	"errors"
	"strings"
)

var ErrUnavailable = errors.New("text-to-speech is not configured")

type Provider interface {
	// Synthesize returns mp3 audio for text.
	Synthesize(ctx context.Context, text, language string, slow bool) ([]byte, error)
	Close() error
}

// Unavailable stands in when the speech client could not be created; every
// request falls back to whatever pre-generated audio exists.
type Unavailable struct{}

func (Unavailable) Synthesize(context.Context, string, string, bool) ([]byte, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Close() error { return nil }

// NormalizeLanguage turns the short codes the frontend sends ("en", "id")
// into BCP-47 tags accepted by the speech APIs.
func NormalizeLanguage(v string) string {
	v = strings.TrimSpace(v)
	switch v {
	case "", "en", "en-US":
		return "en-US"
	case "en-GB", "uk":
		return "en-GB"
	case "en-IN":
		return "en-IN"
	case "id", "id-ID", "in": // "in" is the retired ISO 639 code for Indonesian
		return "id-ID"
	case "hi", "hi-IN":
		return "hi-IN"
	default:
		return v
	}
}
