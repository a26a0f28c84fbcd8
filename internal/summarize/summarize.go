// Package summarize turns articles into short AI summaries and digests.
package summarize

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deusflow/ainews/internal/article"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"

	maxContentChars = 2000
	maxDigestItems  = 50
)

// Summary is generated text plus where it came from.
type Summary struct {
	Text     string
	Provider string
	Model    string
	Tokens   int
	Fallback bool
}

// Summarizer writes article summaries and multi-article digests.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (Summary, error)
	Digest(ctx context.Context, articles []article.Article) (string, error)
}

// Provider is a Summarizer backed by a remote model.
type Provider interface {
	Summarizer
	Name() string
	Model() string
}

// Options select and configure a provider.
type Options struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// NewProvider builds the configured provider. ProviderNone and an empty
// name return a nil Provider.
func NewProvider(ctx context.Context, opts Options) (Provider, error) {
	switch opts.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderGemini:
		return NewGemini(ctx, opts)
	case ProviderOpenAI:
		return NewOpenAI(opts), nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", opts.Provider)
	}
}

const articlePrompt = `Summarize this news article in 2-3 concise sentences.
Focus on the key facts and why it matters.

Title: %s

Content:
%s

Summary:`

const digestPrompt = `Create a news digest summarizing these %d articles from %s.

Group by theme when possible. Highlight the most important stories first.
Use markdown formatting with headers and bullet points.

Articles:
%s

Generate a professional news digest:`

func buildArticlePrompt(title, content string) string {
	return fmt.Sprintf(articlePrompt, title, prepareContent(content))
}

func buildDigestPrompt(articles []article.Article) string {
	if len(articles) > maxDigestItems {
		articles = articles[:maxDigestItems]
	}
	var b strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&b, "\n### %s\n- Source: %s\n- Category: %s\n- Summary: %s\n",
			a.Title, a.Outlet, a.Category, prepareContent(a.Summary))
	}
	return fmt.Sprintf(digestPrompt, len(articles), Period(articles), b.String())
}

// prepareContent collapses whitespace and cuts long text on a sentence
// boundary where one is close enough.
func prepareContent(content string) string {
	content = strings.Join(strings.Fields(strings.ReplaceAll(content, "\r", "")), " ")
	if utf8.RuneCountInString(content) <= maxContentChars {
		return content
	}
	trimmed := string([]rune(content)[:maxContentChars])
	if idx := strings.LastIndex(trimmed, ". "); idx > maxContentChars/5 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed + "\n[TRUNCATED]"
}

// Period describes the publication range of articles, e.g. "Jun 01 - Jun 03, 2025".
func Period(articles []article.Article) string {
	var times []time.Time
	for _, a := range articles {
		if a.Published != nil {
			times = append(times, a.Published.UTC())
		}
	}
	if len(times) == 0 {
		return "recent days"
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	first, last := times[0], times[len(times)-1]
	if first.YearDay() == last.YearDay() && first.Year() == last.Year() {
		return last.Format("January 02, 2006")
	}
	return first.Format("Jan 02") + " - " + last.Format("Jan 02, 2006")
}

var (
	disclaimerInline = regexp.MustCompile(`(?i)[\(\[]\s*note:[^\)\]]*[\)\]]`)
	disclaimerLine   = regexp.MustCompile(`(?im)^\s*note:.*$`)
	summaryLabel     = regexp.MustCompile(`(?i)^\s*(summary|tl;dr)\s*:\s*`)
)

// Sanitize strips model chatter: "Note:" disclaimers and a leading
// "Summary:" label.
func Sanitize(text string) string {
	text = disclaimerInline.ReplaceAllString(text, "")
	text = disclaimerLine.ReplaceAllString(text, "")
	text = summaryLabel.ReplaceAllString(strings.TrimSpace(text), "")

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// FallbackSummary builds a summary without a model: the first two sentences
// of content, at most 300 characters.
func FallbackSummary(title, content string) Summary {
	content = strings.Join(strings.Fields(content), " ")
	if content == "" || content == "Summary unavailable." {
		return Summary{Text: title, Provider: ProviderNone, Fallback: true}
	}

	var out strings.Builder
	sentences := 0
	for _, r := range content {
		out.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentences++
			if sentences == 2 {
				break
			}
		}
	}
	text := strings.TrimSpace(out.String())
	if utf8.RuneCountInString(text) > 300 {
		text = strings.TrimSpace(string([]rune(text)[:300])) + "…"
	}
	return Summary{Text: text, Provider: ProviderNone, Fallback: true}
}

// FallbackDigest lists the articles as a markdown digest grouped by category
// in first-seen order.
func FallbackDigest(articles []article.Article) string {
	if len(articles) == 0 {
		return "No articles found for this period."
	}
	var (
		order  []string
		groups = make(map[string][]article.Article)
	)
	for _, a := range articles {
		if _, ok := groups[a.Category]; !ok {
			order = append(order, a.Category)
		}
		groups[a.Category] = append(groups[a.Category], a)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# News digest: %s\n", Period(articles))
	for _, cat := range order {
		fmt.Fprintf(&b, "\n## %s\n\n", cat)
		for _, a := range groups[cat] {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", a.Title, a.Outlet, FallbackSummary(a.Title, a.Summary).Text)
		}
	}
	return b.String()
}
