package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	model     *vertexgenai.GenerativeModel
	jsonModel *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string, opts ...option.ClientOption) (*VertexGemini, error) {
	if projectID == "" {
		return nil, errors.New("GOOGLE_CLOUD_PROJECT is not set")
	}
	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.SetTemperature(0.7)
	m.SetMaxOutputTokens(1024)

	// scoring and question sets should be stable across calls
	jm := c.GenerativeModel(modelName)
	jm.SetTemperature(0.2)
	jm.SetMaxOutputTokens(2048)
	jm.ResponseMIMEType = "application/json"

	return &VertexGemini{client: c, model: m, jsonModel: jm}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Generate(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, v.model, prompt)
}

func (v *VertexGemini) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return generate(ctx, v.jsonModel, prompt)
}

func generate(ctx context.Context, m *vertexgenai.GenerativeModel, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response candidates returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(vertexgenai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("empty model response")
	}
	return b.String(), nil
}
