package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/ainews/internal/article"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini summarizes with Google Gemini.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model, maxTokens: opts.MaxTokens}, nil
}

func (g *Gemini) Name() string  { return ProviderGemini }
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *Gemini) Summarize(ctx context.Context, title, content string) (Summary, error) {
	text, tokens, err := g.generate(ctx, buildArticlePrompt(title, content))
	if err != nil {
		return Summary{}, err
	}
	return Summary{Text: Sanitize(text), Provider: ProviderGemini, Model: g.model, Tokens: tokens}, nil
}

func (g *Gemini) Digest(ctx context.Context, articles []article.Article) (string, error) {
	text, _, err := g.generate(ctx, buildDigestPrompt(articles))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, int, error) {
	model := g.client.GenerativeModel(g.model)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(g.maxTokens))
	}
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, int, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", 0, fmt.Errorf("no response from Gemini")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", 0, fmt.Errorf("empty response from Gemini")
	}
	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return b.String(), tokens, nil
}
