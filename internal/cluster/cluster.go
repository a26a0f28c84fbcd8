// Package cluster groups articles from different outlets that cover the same
// story, promotes one primary per group and boosts its score.
package cluster

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/textsim"
)

// Variant is a same-story article attached to a primary.
type Variant struct {
	Article    article.Article
	Similarity float64
}

// Group is one story: a primary and up to MaxVariants variants.
type Group struct {
	ID       string
	Primary  article.Article
	Variants []Variant
}

// Sources is the number of outlets covering the story.
func (g Group) Sources() int { return 1 + len(g.Variants) }

// MultiSource reports whether the group has any variants.
func (g Group) MultiSource() bool { return len(g.Variants) > 0 }

// Result is the clustering output. Primaries and Variants are disjoint and
// together hold every input article.
type Result struct {
	Primaries []article.Article
	Variants  []article.Article
	Groups    []Group
	Fallback  bool
}

// Clusterer holds the clustering parameters.
type Clusterer struct {
	Threshold         float64
	MaxVariants       int
	BoostPerSource    float64
	MaxBoost          float64
	FallbackThreshold float64

	vectorizer *Vectorizer
	log        *slog.Logger
}

// New returns a Clusterer with the default parameters.
func New(log *slog.Logger) *Clusterer {
	if log == nil {
		log = slog.Default()
	}
	return &Clusterer{
		Threshold:         0.75,
		MaxVariants:       2,
		BoostPerSource:    0.15,
		MaxBoost:          0.50,
		FallbackThreshold: 0.55,
		vectorizer:        NewVectorizer(),
		log:               log,
	}
}

// ID derives a stable cluster id from a primary title.
func ID(title string) string {
	sum := md5.Sum([]byte(strings.ToLower(title)))
	return hex.EncodeToString(sum[:])[:8]
}

// Text is the document clustered for an article; the title counts twice.
func Text(a article.Article) string {
	title := strings.ToLower(strings.TrimSpace(a.Title))
	summary := strings.ToLower(strings.TrimSpace(a.Summary))
	return title + " " + title + " " + summary
}

// Cluster groups articles. The input slice and its articles are not modified.
func (c *Clusterer) Cluster(articles []article.Article) Result {
	sorted := make([]article.Article, len(articles))
	for i, a := range articles {
		sorted[i] = a.Clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalScore > sorted[j].FinalScore
	})

	if len(sorted) < 2 {
		return c.finish(c.singletons(sorted), false)
	}

	docs := make([]string, len(sorted))
	for i, a := range sorted {
		docs[i] = Text(a)
	}
	x, _, err := c.vectorizer.FitTransform(docs)
	if err != nil {
		c.log.Warn("TF-IDF vectorization failed, using title similarity", "error", err, "articles", len(sorted))
		return c.finish(c.fallback(sorted), true)
	}

	sim := Similarity(x)
	return c.finish(c.greedy(sorted, func(i, j int) float64 { return sim.At(i, j) }), false)
}

func (c *Clusterer) singletons(sorted []article.Article) []Group {
	groups := make([]Group, len(sorted))
	for i, a := range sorted {
		groups[i] = Group{ID: ID(a.Title), Primary: a}
	}
	return groups
}

type candidate struct {
	idx int
	sim float64
}

func (c *Clusterer) greedy(sorted []article.Article, sim func(i, j int) float64) []Group {
	clustered := make([]bool, len(sorted))
	var groups []Group
	for i, primary := range sorted {
		if clustered[i] {
			continue
		}
		clustered[i] = true
		g := Group{ID: ID(primary.Title), Primary: primary}

		var cands []candidate
		for j, other := range sorted {
			if clustered[j] || other.OutletKey == primary.OutletKey {
				continue
			}
			if s := sim(i, j); s >= c.Threshold {
				cands = append(cands, candidate{idx: j, sim: s})
			}
		}
		sort.SliceStable(cands, func(a, b int) bool { return cands[a].sim > cands[b].sim })
		if len(cands) > c.MaxVariants {
			cands = cands[:c.MaxVariants]
		}
		for _, cand := range cands {
			clustered[cand.idx] = true
			g.Variants = append(g.Variants, Variant{Article: sorted[cand.idx], Similarity: cand.sim})
		}
		groups = append(groups, g)
	}
	return groups
}

// fallback groups by normalized title similarity, taking the first
// qualifying candidates in score order.
func (c *Clusterer) fallback(sorted []article.Article) []Group {
	titles := make([]string, len(sorted))
	for i, a := range sorted {
		titles[i] = article.NormalizeTitle(a.Title)
	}
	clustered := make([]bool, len(sorted))
	var groups []Group
	for i, primary := range sorted {
		if clustered[i] {
			continue
		}
		clustered[i] = true
		g := Group{ID: ID(primary.Title), Primary: primary}
		for j, other := range sorted {
			if len(g.Variants) >= c.MaxVariants {
				break
			}
			if clustered[j] || other.OutletKey == primary.OutletKey {
				continue
			}
			if r := textsim.Ratio(titles[i], titles[j]); r >= c.FallbackThreshold {
				clustered[j] = true
				g.Variants = append(g.Variants, Variant{Article: other, Similarity: r})
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// Boost is the score multiplier for a story covered by sources outlets.
func (c *Clusterer) Boost(sources int) float64 {
	return 1 + math.Min(c.MaxBoost, float64(sources)*c.BoostPerSource)
}

// finish applies cluster fields and boosts and splits primaries from
// variants.
func (c *Clusterer) finish(groups []Group, fallback bool) Result {
	res := Result{Fallback: fallback}
	for gi := range groups {
		g := &groups[gi]
		g.Primary.ClusterID = g.ID
		g.Primary.IsClusterPrimary = true
		if g.MultiSource() {
			related := make([]article.Related, 0, len(g.Variants))
			for vi := range g.Variants {
				v := &g.Variants[vi]
				v.Article.ClusterID = g.ID
				v.Article.IsClusterPrimary = false
				related = append(related, article.Related{Outlet: v.Article.Outlet, URL: v.Article.URL})
				res.Variants = append(res.Variants, v.Article)
			}
			g.Primary.RelatedArticles = related
			g.Primary.FinalScore *= c.Boost(g.Sources())
		}
		res.Primaries = append(res.Primaries, g.Primary)
	}
	res.Groups = groups
	return res
}

// Stats summarises a clustering result.
type Stats struct {
	TotalClusters         int     `json:"total_clusters"`
	TotalArticles         int     `json:"total_articles"`
	MultiSourceClusters   int     `json:"multi_source_clusters"`
	MultiSourcePercentage float64 `json:"multi_source_percentage"`
	AvgVariants           float64 `json:"avg_variants_per_cluster"`
	ReductionRatio        float64 `json:"reduction_ratio"`
}

// ComputeStats derives Stats from res.
func ComputeStats(res Result) Stats {
	if len(res.Groups) == 0 {
		return Stats{ReductionRatio: 1.0}
	}
	s := Stats{TotalClusters: len(res.Groups)}
	variants := 0
	for _, g := range res.Groups {
		s.TotalArticles += g.Sources()
		variants += len(g.Variants)
		if g.MultiSource() {
			s.MultiSourceClusters++
		}
	}
	n := float64(s.TotalClusters)
	s.MultiSourcePercentage = float64(s.MultiSourceClusters) / n * 100
	s.AvgVariants = float64(variants) / n
	s.ReductionRatio = float64(s.TotalArticles) / n
	return s
}
