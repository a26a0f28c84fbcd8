package summarize

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/article"
)

func TestSanitizeRemovesInlineDisclaimer(t *testing.T) {
	out := Sanitize("Summary: Chipmaker raises guidance.\n(Note: This summary may contain errors.) Shares rose 4%.")
	assert.NotContains(t, strings.ToLower(out), "note:")
	assert.NotContains(t, out, "Summary:")
	assert.Contains(t, out, "Shares rose 4%.")
}

func TestSanitizeRemovesFullLineNote(t *testing.T) {
	out := Sanitize("Note: generated by a model.\nThe regulator fined the bank.")
	assert.Equal(t, "The regulator fined the bank.", out)
}

func TestSanitizeRemovesBracketedDisclaimer(t *testing.T) {
	out := Sanitize("[Note: machine summary] Launch delayed to July.")
	assert.Equal(t, "Launch delayed to July.", out)
}

func TestPrepareContentTruncates(t *testing.T) {
	short := "  A   short\r\ntext. "
	assert.Equal(t, "A short text.", prepareContent(short))

	long := strings.Repeat("This is one sentence. ", 200)
	out := prepareContent(long)
	assert.True(t, strings.HasSuffix(out, "\n[TRUNCATED]"))
	assert.LessOrEqual(t, len([]rune(out)), maxContentChars+len("\n[TRUNCATED]"))
	assert.True(t, strings.HasSuffix(strings.TrimSuffix(out, "\n[TRUNCATED]"), "."))
}

func TestFallbackSummary(t *testing.T) {
	s := FallbackSummary("Title", "First sentence here. Second one! Third is dropped.")
	assert.Equal(t, "First sentence here. Second one!", s.Text)
	assert.True(t, s.Fallback)
	assert.Equal(t, ProviderNone, s.Provider)

	assert.Equal(t, "Title", FallbackSummary("Title", "Summary unavailable.").Text)

	long := FallbackSummary("T", strings.Repeat("abcdefg ", 60))
	assert.True(t, strings.HasSuffix(long.Text, "…"))
	assert.Equal(t, 301, len([]rune(long.Text)))
}

func published(day int) *time.Time {
	t := time.Date(2025, 6, day, 9, 0, 0, 0, time.UTC)
	return &t
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "recent days", Period(nil))
	assert.Equal(t, "June 01, 2025", Period([]article.Article{{Published: published(1)}}))
	assert.Equal(t, "Jun 01 - Jun 03, 2025", Period([]article.Article{{Published: published(3)}, {Published: published(1)}, {}}))
}

func TestFallbackDigestGroupsByCategory(t *testing.T) {
	arts := []article.Article{
		{Title: "A", Outlet: "Reuters", Category: "ai_headlines", Summary: "Alpha. Beta.", Published: published(1)},
		{Title: "B", Outlet: "Wired", Category: "cybersecurity", Summary: "Gamma."},
		{Title: "C", Outlet: "Ars", Category: "ai_headlines", Summary: "Delta."},
	}
	d := FallbackDigest(arts)
	assert.True(t, strings.HasPrefix(d, "# News digest: June 01, 2025"))
	assert.Less(t, strings.Index(d, "## ai_headlines"), strings.Index(d, "## cybersecurity"))
	assert.Less(t, strings.Index(d, "**C**"), strings.Index(d, "## cybersecurity"))
	assert.Contains(t, d, "- **A** (Reuters): Alpha. Beta.")
}

func TestDigestPromptListsArticles(t *testing.T) {
	p := buildDigestPrompt([]article.Article{{Title: "Chip export rules", Outlet: "Reuters", Category: "world_news", Summary: "New rules."}})
	assert.Contains(t, p, "these 1 articles")
	assert.Contains(t, p, "### Chip export rules")
	assert.Contains(t, p, "- Source: Reuters")
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world")}},
		}},
		UsageMetadata: &genai.UsageMetadata{TotalTokenCount: 7},
	}
	text, tokens, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, 7, tokens)

	_, _, err = responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Options{Provider: ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(context.Background(), Options{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p.Name())
	assert.Equal(t, defaultOpenAIModel, p.Model())

	_, err = NewProvider(context.Background(), Options{Provider: ProviderGemini})
	assert.Error(t, err)

	_, err = NewProvider(context.Background(), Options{Provider: "claude"})
	assert.Error(t, err)
}
