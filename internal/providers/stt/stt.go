package stt

import "context"

// Audio is one recorded answer as uploaded by the browser.
type Audio struct {
	Content      []byte
	Language     string
	Encoding     string // linear16|webm_opus|ogg_opus|mp3|flac
	SampleRateHz int32
}

type Provider interface {
	Transcribe(ctx context.Context, audio Audio) (text string, confidence float64, err error)
	Close() error
}
