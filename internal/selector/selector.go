// Package selector picks the digest's top list and its "other interesting"
// list from clustered articles.
package selector

import (
	"sort"

	"github.com/deusflow/ainews/internal/article"
)

// Options control top-list selection.
type Options struct {
	TopN         int
	MaxPerSource int
	// Categories in canonical order; pass 1 takes one article from each.
	Categories []string
}

// DefaultOptions returns the standard top-list settings for categories.
func DefaultOptions(categories []string) Options {
	return Options{TopN: 30, MaxPerSource: 3, Categories: categories}
}

// OtherOptions control the secondary list.
type OtherOptions struct {
	Min          int
	Max          int
	MaxPerSource int
}

// DefaultOtherOptions returns the standard secondary-list settings.
func DefaultOtherOptions() OtherOptions {
	return OtherOptions{Min: 10, Max: 20, MaxPerSource: 2}
}

func ranked(articles []article.Article) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FinalScore > out[j].FinalScore })
	return out
}

// Top selects up to opts.TopN articles. Pass 1 takes the best article of
// each category whose outlet is under the cap; pass 2 fills by score. No
// outlet ever exceeds opts.MaxPerSource.
func Top(articles []article.Article, opts Options) []article.Article {
	if opts.TopN <= 0 {
		return nil
	}
	byScore := ranked(articles)
	taken := make([]bool, len(byScore))
	perSource := make(map[string]int)
	var out []article.Article

	take := func(i int) {
		taken[i] = true
		perSource[byScore[i].OutletKey]++
		out = append(out, byScore[i])
	}

	for _, cat := range opts.Categories {
		if len(out) >= opts.TopN {
			break
		}
		for i, a := range byScore {
			if taken[i] || a.Category != cat || perSource[a.OutletKey] >= opts.MaxPerSource {
				continue
			}
			take(i)
			break
		}
	}

	for i, a := range byScore {
		if len(out) >= opts.TopN {
			break
		}
		if taken[i] || perSource[a.OutletKey] >= opts.MaxPerSource {
			continue
		}
		take(i)
	}
	return out
}

// Other selects from articles not in top, by score, with a stricter
// per-outlet cap. The cap is never relaxed, so fewer than opts.Min articles
// may be returned; Short reports that.
func Other(articles, top []article.Article, opts OtherOptions) []article.Article {
	inTop := make(map[string]struct{}, len(top))
	for _, a := range top {
		inTop[a.URL] = struct{}{}
	}
	var candidates []article.Article
	for _, a := range articles {
		if _, ok := inTop[a.URL]; !ok {
			candidates = append(candidates, a)
		}
	}

	perSource := make(map[string]int)
	var out []article.Article
	for _, a := range ranked(candidates) {
		if len(out) >= opts.Max {
			break
		}
		if perSource[a.OutletKey] >= opts.MaxPerSource {
			continue
		}
		perSource[a.OutletKey]++
		out = append(out, a)
	}
	return out
}

// Short reports whether an other list fell below its target size.
func Short(other []article.Article, opts OtherOptions) bool {
	return len(other) < opts.Min
}

// Section is one category's slice of the top list.
type Section struct {
	Category string
	Articles []article.Article
}

// Sections groups top by category, in canonical order, skipping empty
// categories. Articles keep their order from top.
func Sections(top []article.Article, categories []string) []Section {
	groups := Group(top)
	var out []Section
	seen := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		seen[cat] = struct{}{}
		if arts := groups[cat]; len(arts) > 0 {
			out = append(out, Section{Category: cat, Articles: arts})
		}
	}
	// categories outside the canonical list go last, by first appearance
	for _, a := range top {
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, Section{Category: a.Category, Articles: groups[a.Category]})
	}
	return out
}

// Group maps each category key to its articles in input order.
func Group(articles []article.Article) map[string][]article.Article {
	out := make(map[string][]article.Article)
	for _, a := range articles {
		out[a.Category] = append(out[a.Category], a)
	}
	return out
}

// FilterCategories keeps articles whose category is listed. An empty list
// keeps everything.
func FilterCategories(articles []article.Article, categories []string) []article.Article {
	if len(categories) == 0 {
		return articles
	}
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}
	var out []article.Article
	for _, a := range articles {
		if _, ok := allowed[a.Category]; ok {
			out = append(out, a)
		}
	}
	return out
}

// FilterKeys keeps the keys of order that appear in allowed, in order.
func FilterKeys(order, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		set[k] = struct{}{}
	}
	var out []string
	for _, k := range order {
		if _, ok := set[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
