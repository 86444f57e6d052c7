// Package judge is an async keyword check backed by an OpenAI-compatible
// chat model. The model decides whether the typed text satisfies a
// criterion written in plain language.
package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/tools"
)

var ErrNotConfigured = errors.New("judge is not configured: add a profile or set OPENAI_API_KEY")

const systemPrompt = `You guard a destructive action. The user must type text that satisfies a criterion before the action runs.
Decide strictly. Reply with a single JSON object and nothing else: {"success": <true|false>, "reason": "<one short sentence>"}.`

// Judge implements tools.Check.
type Judge struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

type Option func(*Judge)

func WithLogger(l *zap.Logger) Option {
	return func(j *Judge) {
		if l != nil {
			j.logger = l
		}
	}
}

func New(apiKey, baseURL, model string, opts ...Option) *Judge {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	j := &Judge{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// NewFromConfig uses the active profile, with environment overrides.
func NewFromConfig(f *config.File, opts ...Option) (*Judge, error) {
	if !f.IsJudgeConfigured() {
		return nil, ErrNotConfigured
	}
	return New(f.GetAPIKey(), f.GetBaseURL(), f.GetModel(), opts...), nil
}

func (j *Judge) Name() string {
	return "judge"
}

func (j *Judge) Description() string {
	return "Ask a chat model whether the input satisfies a criterion"
}

func (j *Judge) Build(spec config.CheckSpec) (models.Predicate, error) {
	criterion := strings.TrimSpace(spec.Criterion)
	if criterion == "" {
		return nil, fmt.Errorf("criterion is required")
	}

	return func(ctx context.Context, input string) (models.Outcome, error) {
		return j.decide(ctx, criterion, input)
	}, nil
}

func (j *Judge) decide(ctx context.Context, criterion, input string) (models.Outcome, error) {
	req := openai.ChatCompletionRequest{
		Model:       j.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Criterion: %s\nTyped text: %q", criterion, input)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := j.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Outcome{}, fmt.Errorf("judge returned no choices")
	}

	content := stripFences(resp.Choices[0].Message.Content)
	outcome, err := tools.ParseOutcome([]byte(content))
	if err != nil {
		return models.Outcome{}, fmt.Errorf("judge reply: %w", err)
	}

	j.logger.Debug("judge decided",
		zap.Bool("success", outcome.Success),
		zap.Any("data", outcome.Data))
	return outcome, nil
}

// stripFences drops a ```json ... ``` wrapper some models add anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
