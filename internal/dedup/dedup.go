// Package dedup removes repeated stories before clustering.
package dedup

import (
	"sort"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/textsim"
)

// DefaultThreshold is the title similarity above which two articles are the
// same story.
const DefaultThreshold = 0.70

// Result is the kept articles plus drop counts.
type Result struct {
	Kept         []article.Article
	DroppedURL   int
	DroppedTitle int
}

// Dropped is the total number of removed articles.
func (r Result) Dropped() int { return r.DroppedURL + r.DroppedTitle }

// Deduplicator keeps the best-scored copy of each story.
type Deduplicator struct {
	Threshold float64
}

// New returns a Deduplicator with the default threshold.
func New() *Deduplicator {
	return &Deduplicator{Threshold: DefaultThreshold}
}

// Run walks articles from highest to lowest final score and drops any whose
// canonical URL was already kept or whose normalized title is too similar to
// a kept title. The input slice is not modified.
func (d *Deduplicator) Run(articles []article.Article) Result {
	sorted := make([]article.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalScore > sorted[j].FinalScore
	})

	var res Result
	seenURL := make(map[string]struct{}, len(sorted))
	keptTitles := make([]string, 0, len(sorted))

	for _, a := range sorted {
		key := article.CanonicalURL(a.URL)
		if _, ok := seenURL[key]; ok {
			res.DroppedURL++
			continue
		}
		title := article.NormalizeTitle(a.Title)
		if d.similarToKept(title, keptTitles) {
			res.DroppedTitle++
			continue
		}
		seenURL[key] = struct{}{}
		keptTitles = append(keptTitles, title)
		res.Kept = append(res.Kept, a.Clone())
	}
	return res
}

func (d *Deduplicator) similarToKept(title string, kept []string) bool {
	for _, k := range kept {
		if textsim.Ratio(title, k) > d.Threshold {
			return true
		}
	}
	return false
}
