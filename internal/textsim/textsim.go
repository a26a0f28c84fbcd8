// Package textsim compares headlines by normalized edit-distance similarity.
package textsim

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/deusflow/ainews/internal/article"
)

var levenshtein = metrics.NewLevenshtein()

// Ratio returns 1 - distance/maxLen for a and b as given. Two empty strings
// are identical.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return strutil.Similarity(a, b, levenshtein)
}

// Titles normalizes both titles before comparing them.
func Titles(a, b string) float64 {
	return Ratio(article.NormalizeTitle(a), article.NormalizeTitle(b))
}
