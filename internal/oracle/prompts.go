package oracle

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

type promptFile struct {
	QuestionGeneration string `yaml:"question_generation"`
	Evaluation         string `yaml:"evaluation"`
	FollowUp           string `yaml:"follow_up"`
}

type Prompts struct {
	questionGeneration *template.Template
	evaluation         *template.Template
	followUp           *template.Template
}

type questionVars struct {
	Summary       string
	Profile       string
	QuestionCount int
}

type answerVars struct {
	Question string
	Answer   string
}

func DefaultPrompts() (*Prompts, error) {
	return LoadPrompts(defaultPrompts)
}

// LoadPrompts parses a YAML prompt file; every prompt is required.
func LoadPrompts(data []byte) (*Prompts, error) {
	var f promptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	if f.QuestionGeneration == "" || f.Evaluation == "" || f.FollowUp == "" {
		return nil, errors.New("prompts: question_generation, evaluation and follow_up are required")
	}

	p := &Prompts{}
	var err error
	if p.questionGeneration, err = parse("question_generation", f.QuestionGeneration); err != nil {
		return nil, err
	}
	if p.evaluation, err = parse("evaluation", f.Evaluation); err != nil {
		return nil, err
	}
	if p.followUp, err = parse("follow_up", f.FollowUp); err != nil {
		return nil, err
	}
	return p, nil
}

func parse(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}
	return t, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
