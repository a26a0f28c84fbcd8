package app

import (
	"context"
	"log/slog"

	"github.com/deusflow/ainews/internal/storage"
	"github.com/deusflow/ainews/internal/summarize"
)

// summaryStore is the part of the database the summary cache needs.
type summaryStore interface {
	Summary(ctx context.Context, url string) (storage.SummaryRecord, bool, error)
	SaveSummary(ctx context.Context, rec storage.SummaryRecord) error
}

// SummaryCacheAdapter lets the summary service cache through the database.
// Lookup and save errors are logged and treated as misses.
type SummaryCacheAdapter struct {
	store summaryStore
	log   *slog.Logger
}

func NewSummaryCacheAdapter(store summaryStore, log *slog.Logger) *SummaryCacheAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &SummaryCacheAdapter{store: store, log: log}
}

func (s *SummaryCacheAdapter) Get(ctx context.Context, url string) (summarize.Summary, bool) {
	rec, ok, err := s.store.Summary(ctx, url)
	if err != nil {
		s.log.Warn("Summary cache lookup failed", "url", url, "error", err)
		return summarize.Summary{}, false
	}
	if !ok {
		return summarize.Summary{}, false
	}
	return summarize.Summary{Text: rec.Text, Provider: rec.Provider, Model: rec.Model}, true
}

func (s *SummaryCacheAdapter) Put(ctx context.Context, url string, sum summarize.Summary) {
	err := s.store.SaveSummary(ctx, storage.SummaryRecord{
		URL:      url,
		Provider: sum.Provider,
		Model:    sum.Model,
		Text:     sum.Text,
	})
	if err != nil {
		s.log.Warn("Summary cache save failed", "url", url, "error", err)
	}
}

var _ summarize.Cache = (*SummaryCacheAdapter)(nil)
