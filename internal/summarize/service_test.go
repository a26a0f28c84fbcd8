package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/ratelimit"
)

type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-1" }

func (f *fakeProvider) Summarize(ctx context.Context, title, content string) (Summary, error) {
	f.calls++
	if f.err != nil {
		return Summary{}, f.err
	}
	return Summary{Text: "model: " + title, Provider: "fake", Model: "fake-1"}, nil
}

func (f *fakeProvider) Digest(ctx context.Context, articles []article.Article) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "model digest", nil
}

type memCache struct {
	mu sync.Mutex
	m  map[string]Summary
}

func (c *memCache) Get(_ context.Context, url string) (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.m[url]
	return s, ok
}

func (c *memCache) Put(_ context.Context, url string, s Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[url] = s
}

func TestServiceWithoutProviderFallsBack(t *testing.T) {
	s := NewService(nil, nil, nil, metrics.New(), nil)
	assert.False(t, s.Enabled())
	assert.Equal(t, ProviderNone, s.ProviderName())

	sum, err := s.Summarize(context.Background(), "T", "One. Two. Three.")
	require.NoError(t, err)
	assert.True(t, sum.Fallback)
	assert.Equal(t, "One. Two.", sum.Text)
}

func TestServiceBudget(t *testing.T) {
	p := &fakeProvider{}
	m := metrics.New()
	budget := ratelimit.NewBudget(map[string]int{"fake": 2}, 0, 0)
	s := NewService(p, budget, nil, m, nil)

	for i := 0; i < 3; i++ {
		_, err := s.Summarize(context.Background(), "T", "Body.")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, int64(2), m.SummariesGenerated)

	d, err := s.Digest(context.Background(), []article.Article{{Title: "A", Category: "c"}})
	require.NoError(t, err)
	assert.Contains(t, d, "**A**")
}

func TestServiceProviderErrorFallsBack(t *testing.T) {
	m := metrics.New()
	s := NewService(&fakeProvider{err: errors.New("boom")}, nil, nil, m, nil)

	sum, err := s.Summarize(context.Background(), "T", "Body text.")
	require.NoError(t, err)
	assert.True(t, sum.Fallback)
	assert.Equal(t, int64(1), m.SummariesFailed)

	d, err := s.Digest(context.Background(), []article.Article{{Title: "A", Category: "c"}})
	require.NoError(t, err)
	assert.Contains(t, d, "# News digest")
}

func TestServiceArticleUsesCache(t *testing.T) {
	p := &fakeProvider{}
	c := &memCache{m: map[string]Summary{}}
	s := NewService(p, nil, c, metrics.New(), nil)
	a := article.Article{URL: "https://a.com/1", Title: "Title", Summary: "Feed summary."}

	first, err := s.Article(context.Background(), a, "")
	require.NoError(t, err)
	assert.Equal(t, "model: Title", first.Text)

	second, err := s.Article(context.Background(), a, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.calls)
}

func TestServiceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewService(&fakeProvider{}, nil, nil, metrics.New(), nil)
	_, err := s.Summarize(ctx, "T", "Body.")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenAISummarize(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Summary: Chip rules tightened."},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer srv.Close()

	o := NewOpenAI(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	sum, err := o.Summarize(context.Background(), "Chip export rules", "The government tightened rules.")
	require.NoError(t, err)
	assert.Equal(t, "Chip rules tightened.", sum.Text)
	assert.Equal(t, 15, sum.Tokens)
	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "Title: Chip export rules")
}

func TestOpenAIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	o := NewOpenAI(Options{APIKey: "k", BaseURL: srv.URL + "/v1"})
	_, err := o.Summarize(context.Background(), "T", "C")
	assert.Error(t, err)
}
