// Package diagnostics builds read-only reports over curated articles:
// entity counts, standard vs precision classification, confidence spread,
// score breakdowns and per-article classification detail.
package diagnostics

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/classify"
)

const (
	rule            = "============================================================"
	maxDisagreement = 10
	lowConfidence   = 0.5
	highConfidence  = 0.8
)

// report accumulates lines and writes them in one call.
type report struct{ b strings.Builder }

func (r *report) line(format string, args ...any) {
	fmt.Fprintf(&r.b, format, args...)
	r.b.WriteByte('\n')
}

func (r *report) flush(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.b.String())
	return int64(n), err
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}

// EntityStats counts entities found in precision mode.
type EntityStats struct {
	Articles      int            `json:"articles"`
	Total         int            `json:"total"`
	Unique        int            `json:"unique"`
	ByType        map[string]int `json:"by_type"`
	AvgPerArticle float64        `json:"avg_per_article"`
}

// Entities aggregates the entities carried by articles.
func Entities(articles []article.Article) EntityStats {
	s := EntityStats{Articles: len(articles), ByType: make(map[string]int)}
	unique := make(map[string]struct{})
	for _, a := range articles {
		for _, e := range a.Entities {
			s.Total++
			s.ByType[e.Type]++
			unique[e.Text] = struct{}{}
		}
	}
	s.Unique = len(unique)
	if s.Articles > 0 {
		s.AvgPerArticle = float64(s.Total) / float64(s.Articles)
	}
	return s
}

// WriteTo renders the stats as text.
func (s EntityStats) WriteTo(w io.Writer) (int64, error) {
	var r report
	r.line("Entity statistics:")
	r.line("   Total entities: %d (avg %.1f/article, %d unique)", s.Total, s.AvgPerArticle, s.Unique)
	if len(s.ByType) > 0 {
		types := make([]string, 0, len(s.ByType))
		for t := range s.ByType {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool {
			if s.ByType[types[i]] != s.ByType[types[j]] {
				return s.ByType[types[i]] > s.ByType[types[j]]
			}
			return types[i] < types[j]
		})
		parts := make([]string, 0, len(types))
		for _, t := range types {
			parts = append(parts, fmt.Sprintf("%s: %d", t, s.ByType[t]))
		}
		r.line("   %s", strings.Join(parts, " | "))
	}
	return r.flush(w)
}

// Disagreement is an article the two classifiers labelled differently.
type Disagreement struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Standard  string `json:"standard"`
	Precision string `json:"precision"`
}

// Comparison is the result of classifying the same articles in standard and
// precision mode.
type Comparison struct {
	Total               int                       `json:"total"`
	Agreement           int                       `json:"agreement"`
	AgreementRate       float64                   `json:"agreement_rate"`
	Shifts              map[string]map[string]int `json:"shifts"`
	Disagreements       []Disagreement            `json:"disagreements"`
	StandardConfidence  float64                   `json:"standard_confidence_avg"`
	PrecisionConfidence float64                   `json:"precision_confidence_avg"`
}

// CompareClassifiers reclassifies every article with both classifiers.
// Only the first ten disagreements are kept.
func CompareClassifiers(std *classify.Classifier, prec *classify.Precision, articles []article.Article) Comparison {
	c := Comparison{Total: len(articles), Shifts: make(map[string]map[string]int)}
	if len(articles) == 0 {
		return c
	}
	var stdSum, precSum float64
	for _, a := range articles {
		s := std.Classify(a.Title, a.Summary)
		p := prec.Classify(a.Title, a.Summary)
		stdSum += s.Confidence
		precSum += p.Confidence
		if s.Category == p.Category {
			c.Agreement++
			continue
		}
		if c.Shifts[s.Category] == nil {
			c.Shifts[s.Category] = make(map[string]int)
		}
		c.Shifts[s.Category][p.Category]++
		if len(c.Disagreements) < maxDisagreement {
			c.Disagreements = append(c.Disagreements, Disagreement{
				Title:     truncate(a.Title, 60),
				URL:       a.URL,
				Standard:  s.Category,
				Precision: p.Category,
			})
		}
	}
	n := float64(c.Total)
	c.AgreementRate = float64(c.Agreement) / n * 100
	c.StandardConfidence = stdSum / n
	c.PrecisionConfidence = precSum / n
	return c
}

// WriteTo renders the comparison as text.
func (c Comparison) WriteTo(w io.Writer) (int64, error) {
	var r report
	r.line("A/B comparison (standard vs precision):")
	r.line("   Agreement: %.1f%% (%d/%d same category)", c.AgreementRate, c.Agreement, c.Total)
	if len(c.Shifts) > 0 {
		r.line("   Category shifts: %d articles changed", c.Total-c.Agreement)
		from := make([]string, 0, len(c.Shifts))
		for k := range c.Shifts {
			from = append(from, k)
		}
		sort.Strings(from)
		shown := 0
		for _, f := range from {
			for _, to := range sortedByCount(c.Shifts[f]) {
				if shown == 5 {
					break
				}
				r.line("     %s -> %s: %d", f, to, c.Shifts[f][to])
				shown++
			}
		}
	}
	if c.Total > 0 {
		r.line("   Avg confidence: standard %.2f | precision %.2f", c.StandardConfidence, c.PrecisionConfidence)
	}
	for i, d := range c.Disagreements {
		if i == 0 {
			r.line("   Disagreements:")
		}
		r.line("     %s -> %s: %s", d.Standard, d.Precision, d.Title)
	}
	return r.flush(w)
}

func sortedByCount(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ConfidenceStats summarises classification confidence.
type ConfidenceStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Low    int     `json:"low"`
	High   int     `json:"high"`
}

// Confidence computes ConfidenceStats. Low counts values below 0.5, High
// values above 0.8. P95 uses the nearest-rank method.
func Confidence(articles []article.Article) ConfidenceStats {
	s := ConfidenceStats{Count: len(articles)}
	if s.Count == 0 {
		return s
	}
	vals := make([]float64, len(articles))
	sum := 0.0
	for i, a := range articles {
		vals[i] = a.Confidence
		sum += a.Confidence
		switch {
		case a.Confidence < lowConfidence:
			s.Low++
		case a.Confidence > highConfidence:
			s.High++
		}
	}
	sort.Float64s(vals)
	n := len(vals)
	s.Min, s.Max = vals[0], vals[n-1]
	s.Avg = sum / float64(n)
	if n%2 == 1 {
		s.Median = vals[n/2]
	} else {
		s.Median = (vals[n/2-1] + vals[n/2]) / 2
	}
	rank := int(math.Ceil(0.95*float64(n))) - 1
	s.P95 = vals[rank]
	return s
}

// WriteTo renders the stats as text.
func (s ConfidenceStats) WriteTo(w io.Writer) (int64, error) {
	var r report
	r.line("Classification confidence (%d articles):", s.Count)
	r.line("   min %.2f | max %.2f | avg %.2f | median %.2f | p95 %.2f", s.Min, s.Max, s.Avg, s.Median, s.P95)
	r.line("   low (<%.1f): %d | high (>%.1f): %d", lowConfidence, s.Low, highConfidence, s.High)
	return r.flush(w)
}

// Breakdown lists the component scores of the best articles.
type Breakdown struct {
	Articles      []article.Article
	UniqueSources int
	MaxPerSource  int
	MaxSource     string
	Categories    int
}

// ScoreBreakdown takes the n highest-scoring articles and summarises their
// source and category diversity.
func ScoreBreakdown(articles []article.Article, n int) Breakdown {
	sorted := make([]article.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FinalScore > sorted[j].FinalScore })
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}

	b := Breakdown{Articles: sorted}
	sources := make(map[string]int)
	cats := make(map[string]struct{})
	for _, a := range sorted {
		sources[a.OutletKey]++
		cats[a.Category] = struct{}{}
		if c := sources[a.OutletKey]; c > b.MaxPerSource {
			b.MaxPerSource, b.MaxSource = c, a.OutletKey
		}
	}
	b.UniqueSources = len(sources)
	b.Categories = len(cats)
	return b
}

// WriteTo renders the breakdown as text.
func (b Breakdown) WriteTo(w io.Writer) (int64, error) {
	var r report
	r.line(rule)
	r.line("SCORING BREAKDOWN")
	r.line(rule)
	for i, a := range b.Articles {
		r.line("")
		r.line("%d. %q (score: %.3f)", i+1, truncate(a.Title, 50), a.FinalScore)
		r.line("   recency: %.2f | importance: %.2f | source: %.2f", a.RecencyScore, a.ImportanceScore, a.SourceScore)
		if a.Confidence > 0 {
			r.line("   category: %s (conf: %.2f)", a.Category, a.Confidence)
		}
	}
	r.line("")
	r.line("Diversity (top %d):", len(b.Articles))
	r.line("   Unique sources: %d", b.UniqueSources)
	if b.MaxSource != "" {
		r.line("   Max per source: %d (from %s)", b.MaxPerSource, b.MaxSource)
	}
	r.line("   Categories: %d represented", b.Categories)
	r.line(rule)
	return r.flush(w)
}

// Signal is one category score shown in a classification debug view.
type Signal struct {
	Category string
	Score    float64
}

// Debug explains how one article was classified.
type Debug struct {
	Title      string
	Signals    []Signal
	Category   string
	Confidence float64
	RunnerUp   string
	ExcludedBy string
	Ambiguous  bool
	Entities   []article.Entity
}

// ClassificationDebug collects the five strongest category scores and the
// classification fields of a.
func ClassificationDebug(a article.Article) Debug {
	d := Debug{
		Title:      a.Title,
		Category:   a.Category,
		Confidence: a.Confidence,
		RunnerUp:   a.RunnerUp,
		ExcludedBy: a.ExcludedBy,
		Ambiguous:  a.Ambiguous,
		Entities:   a.Entities,
	}
	for cat, score := range a.Scores {
		d.Signals = append(d.Signals, Signal{Category: cat, Score: score})
	}
	sort.Slice(d.Signals, func(i, j int) bool {
		if d.Signals[i].Score != d.Signals[j].Score {
			return d.Signals[i].Score > d.Signals[j].Score
		}
		return d.Signals[i].Category < d.Signals[j].Category
	})
	if len(d.Signals) > 5 {
		d.Signals = d.Signals[:5]
	}
	return d
}

// WriteTo renders the debug view as text.
func (d Debug) WriteTo(w io.Writer) (int64, error) {
	var r report
	r.line("Classification debug:")
	r.line("   Title: %s", truncate(d.Title, 60))
	if len(d.Signals) > 0 {
		r.line("   Signals:")
		for _, s := range d.Signals {
			r.line("     %s = %.2f", s.Category, s.Score)
		}
	}
	r.line("   Final: %s", d.Category)
	r.line("   Confidence: %.2f", d.Confidence)
	if d.RunnerUp != "" {
		r.line("   Runner-up: %s", d.RunnerUp)
	}
	if d.Ambiguous {
		r.line("   Ambiguous")
	}
	if d.ExcludedBy != "" {
		r.line("   Excluded by: %s", d.ExcludedBy)
	}
	for _, e := range d.Entities {
		r.line("   Entity: %s (%s)", e.Text, e.Type)
	}
	return r.flush(w)
}
