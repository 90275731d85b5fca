package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/yoockh/aieta/internal/models"
	"github.com/yoockh/aieta/internal/providers/llm"
	"github.com/yoockh/aieta/internal/utils"
)

const (
	MinScore = 0
	MaxScore = 10

	defaultQuestionCount = 2
)

type GeneratedInterview struct {
	GreetingScript string
	Questions      []string
}

type Evaluation struct {
	Score    int
	Feedback []string
}

type QuestionOracle interface {
	GenerateInterview(ctx context.Context, c *models.Candidate) (*GeneratedInterview, error)
}

type EvaluationOracle interface {
	Evaluate(ctx context.Context, question, answer string) (*Evaluation, error)
}

type FollowUpOracle interface {
	FollowUp(ctx context.Context, question, answer string) (string, error)
}

// LLMOracle implements all three oracles on top of one llm.Provider. Model
// output is validated against a fixed schema; anything else is an ORACLE_FAILURE.
type LLMOracle struct {
	llm           llm.Provider
	prompts       *Prompts
	questionCount int
}

func New(provider llm.Provider, prompts *Prompts, questionCount int) *LLMOracle {
	if questionCount <= 0 {
		questionCount = defaultQuestionCount
	}
	return &LLMOracle{llm: provider, prompts: prompts, questionCount: questionCount}
}

func (o *LLMOracle) GenerateInterview(ctx context.Context, c *models.Candidate) (*GeneratedInterview, error) {
	const op = "Oracle.GenerateInterview"

	if c == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate is required", nil)
	}
	summary, _ := json.Marshal(c.Summary())
	profile, _ := json.Marshal(c)

	prompt, err := render(o.prompts.questionGeneration, questionVars{
		Summary:       string(summary),
		Profile:       string(profile),
		QuestionCount: o.questionCount,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to render prompt", err)
	}

	raw, err := o.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, utils.E(utils.CodeOracleFailure, op, "question generation failed", err)
	}
	out, err := ParseInterview(raw)
	if err != nil {
		return nil, utils.E(utils.CodeOracleFailure, op, "unparseable question set", err)
	}
	return out, nil
}

func (o *LLMOracle) Evaluate(ctx context.Context, question, answer string) (*Evaluation, error) {
	const op = "Oracle.Evaluate"

	prompt, err := render(o.prompts.evaluation, answerVars{Question: question, Answer: answer})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to render prompt", err)
	}

	raw, err := o.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, utils.E(utils.CodeOracleFailure, op, "evaluation failed", err)
	}
	out, err := ParseEvaluation(raw)
	if err != nil {
		return nil, utils.E(utils.CodeOracleFailure, op, "unparseable evaluation", err)
	}
	return out, nil
}

func (o *LLMOracle) FollowUp(ctx context.Context, question, answer string) (string, error) {
	const op = "Oracle.FollowUp"

	prompt, err := render(o.prompts.followUp, answerVars{Question: question, Answer: answer})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to render prompt", err)
	}

	raw, err := o.llm.Generate(ctx, prompt)
	if err != nil {
		return "", utils.E(utils.CodeOracleFailure, op, "follow-up generation failed", err)
	}
	q := ParseFollowUp(raw)
	if q == "" {
		return "", utils.E(utils.CodeOracleFailure, op, "empty follow-up question", nil)
	}
	return q, nil
}

type interviewEnvelope struct {
	Interview *struct {
		GreetingScript string   `json:"greeting_script"`
		Questions      []string `json:"questions"`
	} `json:"interview"`
}

func ParseInterview(raw string) (*GeneratedInterview, error) {
	var env interviewEnvelope
	if err := decodeJSON(raw, &env); err != nil {
		return nil, err
	}
	if env.Interview == nil {
		return nil, errors.New(`missing "interview" object`)
	}

	out := &GeneratedInterview{GreetingScript: strings.TrimSpace(env.Interview.GreetingScript)}
	for _, q := range env.Interview.Questions {
		if q = strings.TrimSpace(q); q != "" {
			out.Questions = append(out.Questions, q)
		}
	}
	if out.GreetingScript == "" {
		return nil, errors.New("empty greeting_script")
	}
	if len(out.Questions) == 0 {
		return nil, errors.New("no questions")
	}
	return out, nil
}

type evaluationEnvelope struct {
	Evaluation *struct {
		Score    *float64 `json:"score"`
		Feedback []string `json:"feedback"`
	} `json:"evaluation"`
}

func ParseEvaluation(raw string) (*Evaluation, error) {
	var env evaluationEnvelope
	if err := decodeJSON(raw, &env); err != nil {
		return nil, err
	}
	if env.Evaluation == nil {
		return nil, errors.New(`missing "evaluation" object`)
	}
	if env.Evaluation.Score == nil {
		return nil, errors.New("missing score")
	}

	s := *env.Evaluation.Score
	if s != math.Trunc(s) || s < MinScore || s > MaxScore {
		return nil, fmt.Errorf("score %v is not an integer in [%d,%d]", s, MinScore, MaxScore)
	}

	out := &Evaluation{Score: int(s)}
	for _, f := range env.Evaluation.Feedback {
		if f = strings.TrimSpace(f); f != "" {
			out.Feedback = append(out.Feedback, f)
		}
	}
	if len(out.Feedback) == 0 {
		return nil, errors.New("empty feedback")
	}
	return out, nil
}

func ParseFollowUp(raw string) string {
	q := strings.TrimSpace(stripFences(raw))
	q = strings.Trim(q, "\"'")
	return strings.TrimSpace(q)
}

// decodeJSON tolerates markdown fences and chatter around the object.
func decodeJSON(raw string, dst any) error {
	s := stripFences(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return errors.New("no JSON object in response")
	}
	return json.Unmarshal([]byte(s[start:end+1]), dst)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return s
}
