package summarize

import (
	"context"
	"log/slog"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/ratelimit"
)

// Cache remembers summaries per article url across runs.
type Cache interface {
	Get(ctx context.Context, url string) (Summary, bool)
	Put(ctx context.Context, url string, s Summary)
}

// Service wraps an optional Provider with a call budget, a cache and
// extractive fallbacks. It never fails because of the provider; only a
// cancelled context is returned as an error.
type Service struct {
	provider Provider
	budget   *ratelimit.Budget
	cache    Cache
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewService creates a Service. provider, budget and cache may be nil.
func NewService(provider Provider, budget *ratelimit.Budget, cache Cache, m *metrics.Metrics, log *slog.Logger) *Service {
	if m == nil {
		m = metrics.Global
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{provider: provider, budget: budget, cache: cache, metrics: m, log: log}
}

// Enabled reports whether a model provider is configured.
func (s *Service) Enabled() bool { return s.provider != nil }

func (s *Service) Summarize(ctx context.Context, title, content string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	if !s.reserve(ctx) {
		return FallbackSummary(title, content), ctx.Err()
	}
	sum, err := s.provider.Summarize(ctx, title, content)
	if err != nil || sum.Text == "" {
		s.metrics.IncrementSummariesFailed()
		s.log.Warn("Summary failed, using fallback", "provider", s.provider.Name(), "title", title, "error", err)
		return FallbackSummary(title, content), ctx.Err()
	}
	s.metrics.IncrementSummariesGenerated()
	return sum, nil
}

// Article summarizes a, consulting the cache by url first. content is the
// text to summarize, usually the scraped body.
func (s *Service) Article(ctx context.Context, a article.Article, content string) (Summary, error) {
	if s.cache != nil {
		if sum, ok := s.cache.Get(ctx, a.URL); ok {
			s.log.Debug("Summary cache hit", "url", a.URL)
			return sum, nil
		}
	}
	if content == "" {
		content = a.Summary
	}
	sum, err := s.Summarize(ctx, a.Title, content)
	if err != nil {
		return sum, err
	}
	if s.cache != nil && !sum.Fallback {
		s.cache.Put(ctx, a.URL, sum)
	}
	return sum, nil
}

func (s *Service) Digest(ctx context.Context, articles []article.Article) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(articles) == 0 {
		return FallbackDigest(nil), nil
	}
	if !s.reserve(ctx) {
		return FallbackDigest(articles), ctx.Err()
	}
	text, err := s.provider.Digest(ctx, articles)
	if err != nil || text == "" {
		s.metrics.IncrementSummariesFailed()
		s.log.Warn("Digest failed, using fallback", "provider", s.provider.Name(), "error", err)
		return FallbackDigest(articles), ctx.Err()
	}
	s.metrics.IncrementSummariesGenerated()
	return text, nil
}

// ProviderName returns the configured provider, or "none".
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ProviderNone
	}
	return s.provider.Name()
}

// ModelName returns the configured model, or "".
func (s *Service) ModelName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Model()
}

func (s *Service) reserve(ctx context.Context) bool {
	if s.provider == nil {
		return false
	}
	if s.budget == nil {
		return true
	}
	return s.budget.Use(ctx, s.provider.Name()) == nil
}

var _ Summarizer = (*Service)(nil)
