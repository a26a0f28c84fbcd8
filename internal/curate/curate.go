// Package curate runs one pass of the curation core over fetched entries:
// score and classify, deduplicate, cluster, select.
package curate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/classify"
	"github.com/deusflow/ainews/internal/cluster"
	"github.com/deusflow/ainews/internal/dedup"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/rules"
	"github.com/deusflow/ainews/internal/scoring"
	"github.com/deusflow/ainews/internal/selector"
)

// Options configure a Pipeline. Zero values take the defaults.
type Options struct {
	WeightsPreset string
	Precision     bool
	TopN          int
	MaxPerSource  int
	OtherMin      int
	OtherMax      int
	// Categories restricts the digest to these keys; empty means all.
	Categories []string
	Metrics    *metrics.Metrics
}

// DedupStats counts what deduplication removed.
type DedupStats struct {
	Input        int `json:"input"`
	Kept         int `json:"kept"`
	DroppedURL   int `json:"dropped_url"`
	DroppedTitle int `json:"dropped_title"`
}

// Digest is the output of one run.
type Digest struct {
	Top      []article.Article
	Other    []article.Article
	Sections []selector.Section
	// Variants are cluster members hidden behind their primary.
	Variants []article.Article
	// All is every article that survived deduplication, primaries first.
	All      []article.Article
	Clusters []cluster.Group

	DedupStats      DedupStats
	ClusterStats    cluster.Stats
	ClassifierStats classify.Stats
	Fallback        bool
	OtherShort      bool
}

// Pipeline holds the stages built from one rules snapshot.
type Pipeline struct {
	rules      *rules.Rules
	scorer     *scoring.Scorer
	classifier *classify.Classifier
	precision  *classify.Precision
	dedup      *dedup.Deduplicator
	clusterer  *cluster.Clusterer
	opts       Options
	log        *slog.Logger
}

// New validates r and builds a Pipeline.
func New(r *rules.Rules, opts Options, log *slog.Logger) (*Pipeline, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("curate: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	top, other := selector.DefaultOptions(nil), selector.DefaultOtherOptions()
	if opts.TopN <= 0 {
		opts.TopN = top.TopN
	}
	if opts.MaxPerSource <= 0 {
		opts.MaxPerSource = top.MaxPerSource
	}
	if opts.OtherMin <= 0 {
		opts.OtherMin = other.Min
	}
	if opts.OtherMax <= 0 {
		opts.OtherMax = other.Max
	}
	if opts.WeightsPreset == "" {
		opts.WeightsPreset = "default"
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Global
	}

	p := &Pipeline{
		rules:      r,
		scorer:     scoring.New(r, opts.WeightsPreset),
		classifier: classify.New(r),
		dedup:      dedup.New(),
		clusterer:  cluster.New(log),
		opts:       opts,
		log:        log,
	}
	if opts.Precision {
		p.precision = classify.NewPrecision(p.classifier, r.Entities)
	}
	return p, nil
}

// Classifier exposes the keyword classifier for diagnostics.
func (p *Pipeline) Classifier() *classify.Classifier { return p.classifier }

// Scorer exposes the scorer for diagnostics.
func (p *Pipeline) Scorer() *scoring.Scorer { return p.scorer }

// Run curates raws as of now. Empty input yields an empty digest.
func (p *Pipeline) Run(raws []article.Raw, now time.Time) (Digest, error) {
	start := time.Now()
	defer func() {
		p.opts.Metrics.RecordProcessingTime(time.Since(start))
	}()

	var d Digest
	if len(raws) == 0 {
		p.log.Info("No articles to curate")
		d.ClusterStats = cluster.ComputeStats(cluster.Result{})
		return d, nil
	}
	p.opts.Metrics.AddArticlesProcessed(len(raws))

	built := make([]article.Article, 0, len(raws))
	results := make([]classify.Result, 0, len(raws))
	for _, raw := range raws {
		a, res := p.build(raw, now)
		if a.Category == "" {
			return Digest{}, fmt.Errorf("curate: article %q left without a category", raw.URL)
		}
		built = append(built, a)
		results = append(results, res)
	}
	d.ClassifierStats = p.classifier.Stats(results)

	dd := p.dedup.Run(built)
	d.DedupStats = DedupStats{
		Input:        len(built),
		Kept:         len(dd.Kept),
		DroppedURL:   dd.DroppedURL,
		DroppedTitle: dd.DroppedTitle,
	}
	p.opts.Metrics.AddDuplicatesFiltered(dd.Dropped())
	p.log.Info("Deduplicated articles", "input", len(built), "kept", len(dd.Kept),
		"dropped_url", dd.DroppedURL, "dropped_title", dd.DroppedTitle)

	cr := p.clusterer.Cluster(dd.Kept)
	d.Clusters = cr.Groups
	d.Variants = cr.Variants
	d.Fallback = cr.Fallback
	d.ClusterStats = cluster.ComputeStats(cr)
	d.All = append(append([]article.Article(nil), cr.Primaries...), cr.Variants...)
	if cr.Fallback {
		p.opts.Metrics.IncrementVectorizationFallbacks()
	}
	p.opts.Metrics.RecordClusters(d.ClusterStats.TotalClusters, d.ClusterStats.MultiSourceClusters)

	candidates := selector.FilterCategories(cr.Primaries, p.opts.Categories)
	order := p.rules.Keys()
	if len(p.opts.Categories) > 0 {
		order = selector.FilterKeys(order, p.opts.Categories)
	}
	d.Top = selector.Top(candidates, selector.Options{
		TopN:         p.opts.TopN,
		MaxPerSource: p.opts.MaxPerSource,
		Categories:   order,
	})
	otherOpts := selector.OtherOptions{Min: p.opts.OtherMin, Max: p.opts.OtherMax, MaxPerSource: selector.DefaultOtherOptions().MaxPerSource}
	d.Other = selector.Other(candidates, d.Top, otherOpts)
	d.OtherShort = selector.Short(d.Other, otherOpts)
	if d.OtherShort {
		p.log.Warn("Other list below target", "got", len(d.Other), "min", otherOpts.Min)
	}
	d.Sections = selector.Sections(d.Top, order)

	p.log.Info("Curation complete", "top", len(d.Top), "other", len(d.Other),
		"clusters", d.ClusterStats.TotalClusters, "multi_source", d.ClusterStats.MultiSourceClusters)
	return d, nil
}

// build scores and classifies one entry. Classification always happens
// before the final score, which depends on the category weight.
func (p *Pipeline) build(raw article.Raw, now time.Time) (article.Article, classify.Result) {
	sig := p.scorer.Signals(raw, now)

	var (
		res classify.Result
		cl  article.Classification
	)
	if p.precision != nil {
		pr := p.precision.Classify(raw.Title, raw.Summary)
		res, cl = pr.Result, pr.Classification()
	} else {
		res = p.classifier.Classify(raw.Title, raw.Summary)
		cl = res.Classification()
	}

	a := article.Build(raw, sig, cl, p.scorer.Final)
	a.Priority = scoring.Priority(sig.Importance, sig.Recency)
	a.WhyMatters = p.scorer.WhyMatters(a.Category)
	return a, res
}
