// Package app wires fetching, curation, enrichment, summaries, storage and
// publishing into one run.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/config"
	"github.com/deusflow/ainews/internal/curate"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/ratelimit"
	"github.com/deusflow/ainews/internal/render"
	"github.com/deusflow/ainews/internal/retry"
	"github.com/deusflow/ainews/internal/rss"
	"github.com/deusflow/ainews/internal/rules"
	"github.com/deusflow/ainews/internal/scraper"
	"github.com/deusflow/ainews/internal/selector"
	"github.com/deusflow/ainews/internal/storage"
	"github.com/deusflow/ainews/internal/summarize"
	"github.com/deusflow/ainews/internal/telegram"
)

// sent markers older than this no longer block a re-post
const sentTTL = 7 * 24 * time.Hour

// Source yields raw feed entries published in [start, end].
type Source interface {
	Fetch(ctx context.Context, feeds []rss.Feed, start, end time.Time) ([]article.Raw, error)
}

// Enricher fills in images and article bodies.
type Enricher interface {
	Images(ctx context.Context, articles []article.Article) ([]article.Article, error)
	Content(ctx context.Context, a article.Article) string
}

// Deps are the collaborators of an App. Telegram and Provider may be nil.
type Deps struct {
	Config   *config.Config
	Rules    *rules.Rules
	Presets  config.Presets
	Feeds    []rss.Feed
	Source   Source
	Enricher Enricher
	Provider summarize.Provider
	Store    *storage.SQLStore
	State    *storage.StateFile
	Telegram *telegram.Client
	Metrics  *metrics.Metrics
	Log      *slog.Logger
	Now      func() time.Time
}

// App runs the news pipeline end to end.
type App struct {
	Deps
}

// New builds an App from configuration, opening the database and loading
// rules, presets, feeds and run state.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	r, err := rules.LoadDir(cfg.RulesDir)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	presets, err := config.LoadPresets(cfg.PresetsPath)
	if err != nil {
		return nil, err
	}
	feeds, err := rss.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		return nil, err
	}

	state := storage.NewStateFile(cfg.StatePath, sentTTL)
	if err := state.Load(); err != nil {
		return nil, err
	}

	provider, err := summarize.NewProvider(ctx, providerOptions(cfg))
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}

	retryCfg := retry.RetryConfig{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}
	deps := Deps{
		Config:  cfg,
		Rules:   r,
		Presets: presets,
		Feeds:   feeds,
		Source: rss.NewFetcher(rss.Options{
			Timeout: cfg.RequestTimeout,
			Retry:   retryCfg,
			Metrics: metrics.Global,
			Log:     log,
		}),
		Enricher: scraper.NewEnricher(
			scraper.NewWithClient(&http.Client{Timeout: cfg.RequestTimeout}),
			cfg.ScrapeConcurrency, cfg.ImageCacheTTL, log),
		Provider: provider,
		Store:    store,
		State:    state,
		Metrics:  metrics.Global,
		Log:      log,
	}
	if cfg.TelegramEnabled() {
		deps.Telegram = telegram.New(cfg.TelegramToken, cfg.TelegramChatID,
			telegram.WithRetry(retryCfg), telegram.WithLogger(log))
	}
	return NewWithDeps(deps), nil
}

func providerOptions(cfg *config.Config) summarize.Options {
	opts := summarize.Options{Provider: cfg.SummaryProvider}
	switch cfg.SummaryProvider {
	case summarize.ProviderGemini:
		opts.APIKey, opts.Model = cfg.GeminiAPIKey, cfg.GeminiModel
	case summarize.ProviderOpenAI:
		opts.APIKey, opts.Model = cfg.OpenAIAPIKey, cfg.OpenAIModel
	}
	return opts
}

// NewWithDeps builds an App from ready collaborators.
func NewWithDeps(d Deps) *App {
	if d.Metrics == nil {
		d.Metrics = metrics.Global
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Presets == nil {
		d.Presets = config.Presets{"default": config.DefaultPreset()}
	}
	return &App{Deps: d}
}

// Close releases the database and model clients.
func (a *App) Close() error {
	if g, ok := a.Provider.(*summarize.Gemini); ok {
		g.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Overrides adjust one run on top of the chosen preset. Zero values keep
// the preset's setting.
type Overrides struct {
	Preset     string
	Hours      int
	Top        int
	Workers    int
	OtherMin   *int
	OtherMax   *int
	Categories []string
	Precision  bool
	NoPublish  bool
}

// Result is what a run produced.
type Result struct {
	Preset       config.Preset
	Start        time.Time
	End          time.Time
	Fetched      int
	Digest       curate.Digest
	Pipeline     *curate.Pipeline
	Summaries    map[string]string
	Overview     string
	Saved        int
	DigestID     string
	MarkdownPath string
	HTMLPath     string
	Sent         int
}

func (a *App) preset(ov Overrides) (config.Preset, error) {
	name := ov.Preset
	if name == "" && a.Config != nil {
		name = a.Config.Preset
	}
	if name == "" {
		name = "default"
	}
	p, err := a.Presets.Get(name)
	if err != nil {
		return config.Preset{}, err
	}
	if ov.Hours > 0 {
		h := ov.Hours
		p.Hours = &h
	}
	if ov.Top > 0 {
		p.TopArticles = ov.Top
	}
	if ov.Workers > 0 {
		p.Workers = ov.Workers
	}
	if ov.OtherMin != nil {
		p.OtherMin = *ov.OtherMin
	}
	if ov.OtherMax != nil {
		p.OtherMax = *ov.OtherMax
	}
	if len(ov.Categories) > 0 {
		p.Categories = ov.Categories
	}
	if ov.Precision {
		p.Precision = true
	}
	return p, nil
}

// Run executes one full pipeline pass. Failures after curation (images,
// summaries, publishing) are logged and do not fail the run; storage and
// output failures do.
func (a *App) Run(ctx context.Context, ov Overrides) (res *Result, err error) {
	defer func() {
		if err != nil && !errors.Is(err, context.Canceled) {
			a.Metrics.SetError(err.Error())
		}
	}()

	p, err := a.preset(ov)
	if err != nil {
		return nil, err
	}
	now := a.Now().UTC()
	res = &Result{Preset: p}
	if d, ok := p.Window(); ok {
		res.Start, res.End = rss.Fixed(d, now)
	} else {
		res.Start, res.End = rss.Lookback(a.State.LastRun(), now)
	}
	a.Log.Info("Run starting", "preset", p.Name, "start", res.Start, "end", res.End, "feeds", len(a.Feeds))

	src := a.Source
	if f, ok := src.(*rss.Fetcher); ok {
		src = f.WithWorkers(p.Workers)
	}
	raws, err := src.Fetch(ctx, a.Feeds, res.Start, res.End)
	if err != nil {
		return nil, fmt.Errorf("fetch feeds: %w", err)
	}
	res.Fetched = len(raws)

	pipeline, err := curate.New(a.Rules, curate.Options{
		WeightsPreset: p.Weights,
		Precision:     p.Precision,
		TopN:          p.TopArticles,
		OtherMin:      p.OtherMin,
		OtherMax:      p.OtherMax,
		Categories:    p.ActiveCategories(a.Rules.Keys()),
		Metrics:       a.Metrics,
	}, a.Log)
	if err != nil {
		return nil, err
	}
	res.Pipeline = pipeline
	if res.Digest, err = pipeline.Run(raws, now); err != nil {
		return nil, err
	}
	a.Log.Info("Curated", "fetched", len(raws), "top", len(res.Digest.Top), "other", len(res.Digest.Other))

	a.enrich(ctx, res)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.summarize(ctx, res)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := a.persist(ctx, res, now); err != nil {
		return nil, err
	}
	if !ov.NoPublish {
		a.publish(ctx, res)
	}

	a.State.MarkRun(now, p.Name, res.DigestID)
	if err := a.State.Save(); err != nil {
		return nil, err
	}
	a.Metrics.SetLastRun()
	return res, nil
}

func (a *App) enrich(ctx context.Context, res *Result) {
	if a.Enricher == nil {
		return
	}
	d := &res.Digest
	if top, err := a.Enricher.Images(ctx, d.Top); err == nil {
		d.Top = top
	} else {
		a.Log.Warn("Image enrichment stopped", "error", err)
	}
	if other, err := a.Enricher.Images(ctx, d.Other); err == nil {
		d.Other = other
	} else {
		a.Log.Warn("Image enrichment stopped", "error", err)
	}
	order := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		order[i] = s.Category
	}
	d.Sections = selector.Sections(d.Top, order)
}

func (a *App) summarize(ctx context.Context, res *Result) {
	var budget *ratelimit.Budget
	limit := 0
	if a.Config != nil {
		limit = a.Config.SummarizeTopArticle
		if a.Provider != nil {
			budget = ratelimit.NewBudget(map[string]int{a.Provider.Name(): a.Config.MaxSummaryRequests},
				a.Config.MaxSummaryRequests, a.Config.SummaryMinInterval)
		}
	}
	var cache summarize.Cache
	if a.Store != nil {
		cache = NewSummaryCacheAdapter(a.Store, a.Log)
	}
	svc := summarize.NewService(a.Provider, budget, cache, a.Metrics, a.Log)

	res.Summaries = make(map[string]string)
	if !svc.Enabled() {
		return
	}
	for i, art := range res.Digest.Top {
		if i >= limit {
			break
		}
		content := art.Summary
		if a.Enricher != nil {
			content = a.Enricher.Content(ctx, art)
		}
		sum, err := svc.Article(ctx, art, content)
		if err != nil {
			return
		}
		if !sum.Fallback {
			res.Summaries[art.URL] = sum.Text
		}
	}
	overview, err := svc.Digest(ctx, res.Digest.Top)
	if err == nil && overview != summarize.FallbackDigest(res.Digest.Top) {
		res.Overview = overview
	}
	if budget != nil {
		a.Log.Info("AI usage", "stats", budget.GetStats())
	}
}

func (a *App) page(res *Result) render.Page {
	return render.Page{
		Start:     res.Start,
		End:       res.End,
		Generated: a.Now().UTC(),
		Sections:  res.Digest.Sections,
		Other:     res.Digest.Other,
		Summaries: res.Summaries,
		Overview:  res.Overview,
	}
}

func (a *App) persist(ctx context.Context, res *Result, now time.Time) error {
	page := a.page(res)
	if a.Config != nil && a.Config.OutputDir != "" {
		md, html, err := render.WriteFiles(a.Config.OutputDir, a.Rules, page)
		if err != nil {
			return err
		}
		res.MarkdownPath, res.HTMLPath = md, html
		a.Log.Info("Digest written", "markdown", md, "html", html)
	}
	if a.Store == nil {
		return nil
	}

	records := make([]storage.Record, 0, len(res.Digest.All))
	for _, art := range res.Digest.All {
		rec := storage.FromArticle(art)
		if text, ok := res.Summaries[art.URL]; ok {
			rec.Summary = text
		}
		records = append(records, rec)
	}
	n, err := a.Store.SaveArticles(ctx, records)
	if err != nil {
		return err
	}
	res.Saved = n

	if a.Config != nil && a.Config.RetentionDays > 0 {
		cutoff := now.AddDate(0, 0, -a.Config.RetentionDays)
		if pruned, err := a.Store.DeleteOlderThan(ctx, cutoff); err != nil {
			a.Log.Warn("Pruning old articles failed", "error", err)
		} else if pruned > 0 {
			a.Log.Info("Pruned old articles", "count", pruned)
		}
	}

	var md bytes.Buffer
	if err := render.Markdown(&md, a.Rules, page); err != nil {
		return err
	}
	provider, model := summarize.ProviderNone, ""
	if a.Provider != nil {
		provider, model = a.Provider.Name(), a.Provider.Model()
	}
	res.DigestID, err = a.Store.SaveDigest(ctx, storage.DigestRecord{
		PeriodStart:  res.Start,
		PeriodEnd:    res.End,
		Preset:       res.Preset.Name,
		Text:         md.String(),
		ArticleCount: len(res.Digest.Top) + len(res.Digest.Other),
		Provider:     provider,
		Model:        model,
	})
	return err
}

// publish posts the digest to Telegram unless every top story went out in
// an earlier run.
func (a *App) publish(ctx context.Context, res *Result) {
	if a.Telegram == nil || len(res.Digest.Top) == 0 {
		return
	}
	fresh := 0
	for _, art := range res.Digest.Top {
		if !a.State.WasSent(art.URL) {
			fresh++
		}
	}
	if fresh == 0 {
		a.Log.Info("Nothing new to publish")
		return
	}

	if lead := res.Digest.Top[0]; lead.ImageURL != "" {
		if err := a.Telegram.SendPhoto(ctx, lead.ImageURL, render.Caption(lead)); err != nil {
			a.Log.Warn("Lead photo not sent", "url", lead.URL, "error", err)
		}
	}
	sent, err := a.Telegram.SendDigest(ctx, render.Telegram(a.Rules, a.page(res)))
	res.Sent = sent
	if err != nil {
		a.Log.Error("Telegram publish failed", "sent", sent, "error", err)
		a.Metrics.SetError(err.Error())
		return
	}
	urls := make([]string, 0, len(res.Digest.Top)+len(res.Digest.Other))
	for _, art := range res.Digest.Top {
		urls = append(urls, art.URL)
	}
	for _, art := range res.Digest.Other {
		urls = append(urls, art.URL)
	}
	a.State.MarkSent(urls...)
}

// Recent returns stored articles created since the given time, best first.
// An empty category means all.
func (a *App) Recent(ctx context.Context, since time.Time, category string, limit int) ([]article.Article, error) {
	if a.Store == nil {
		return nil, errors.New("no database configured")
	}
	recs, err := a.Store.RecentArticles(ctx, since, category, limit)
	if err != nil {
		return nil, err
	}
	out := make([]article.Article, len(recs))
	for i, r := range recs {
		out[i] = r.Article()
	}
	return out, nil
}

// Stats returns stored article counts per category.
func (a *App) Stats(ctx context.Context) (map[string]int, error) {
	if a.Store == nil {
		return nil, errors.New("no database configured")
	}
	return a.Store.CountByCategory(ctx)
}
