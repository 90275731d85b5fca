package stt

import (
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
)

func TestEncodingOf(t *testing.T) {
	assert.Equal(t, speechpb.RecognitionConfig_WEBM_OPUS, encodingOf("webm"))
	assert.Equal(t, speechpb.RecognitionConfig_OGG_OPUS, encodingOf("OGG_OPUS"))
	assert.Equal(t, speechpb.RecognitionConfig_MP3, encodingOf("mp3"))
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, encodingOf(""))
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, encodingOf("wav"))
}
