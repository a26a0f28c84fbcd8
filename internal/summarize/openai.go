package summarize

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/deusflow/ainews/internal/article"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI summarizes with the chat completions API.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAI(opts Options) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model, maxTokens: maxTokens}
}

func (o *OpenAI) Name() string  { return ProviderOpenAI }
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Summarize(ctx context.Context, title, content string) (Summary, error) {
	text, tokens, err := o.complete(ctx, buildArticlePrompt(title, content))
	if err != nil {
		return Summary{}, err
	}
	return Summary{Text: Sanitize(text), Provider: ProviderOpenAI, Model: o.model, Tokens: tokens}, nil
}

func (o *OpenAI) Digest(ctx context.Context, articles []article.Article) (string, error) {
	text, _, err := o.complete(ctx, buildDigestPrompt(articles))
	return text, err
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, int, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return "", 0, err
	}
	if len(resp.Choices) == 0 {
		return "", 0, errors.New("no response from OpenAI")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", 0, errors.New("empty response from OpenAI")
	}
	return text, resp.Usage.TotalTokens, nil
}
