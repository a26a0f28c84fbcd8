package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/rules"
)

const (
	unknownRecency  = 0.3
	minAgeHours     = 0.1
	halfLifeHours   = 8.0
	decayExponent   = 1.2
	minRecency      = 0.1
	baseScore       = 0.15
	recencyWeight   = 0.25
	importWeight    = 0.35
	sourceWeight    = 0.25
	defaultWhyWorth = "High-signal development with downstream impact."
)

// Scorer computes article scores from a rules snapshot. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	rules   *rules.Rules
	weights map[string]float64
}

// New builds a Scorer using the named category weight preset.
func New(r *rules.Rules, preset string) *Scorer {
	return &Scorer{rules: r, weights: r.Weights(preset)}
}

// Recency decays with age; unknown publish time gets a fixed low score.
func Recency(published *time.Time, now time.Time) float64 {
	if published == nil {
		return unknownRecency
	}
	age := now.Sub(*published).Hours()
	if age < minAgeHours {
		age = minAgeHours
	}
	score := 1.0 / (1.0 + math.Pow(age/halfLifeHours, decayExponent))
	return math.Max(minRecency, score)
}

// Importance sums the weight of every importance keyword present in the text.
func (s *Scorer) Importance(title, summary string) float64 {
	text := strings.ToLower(title + " " + summary)
	total := 0.0
	for _, kw := range s.rules.Importance {
		if strings.Contains(text, kw.Phrase) {
			total += kw.Weight
		}
	}
	return clamp01(total)
}

// SourceReputation looks a domain up in the tier tables.
func (s *Scorer) SourceReputation(domain string) float64 {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return s.rules.DefaultSourceScore
	}
	for _, tier := range s.rules.SourceTiers {
		for _, src := range tier.Sources {
			if src.Domain == domain {
				return src.Score
			}
		}
	}
	for _, tier := range s.rules.SourceTiers {
		for _, src := range tier.Sources {
			if strings.Contains(domain, src.Domain) || strings.Contains(src.Domain, domain) {
				return src.Score
			}
		}
	}
	return s.rules.DefaultSourceScore
}

// Signals computes the category-independent scores for a raw entry.
func (s *Scorer) Signals(raw article.Raw, now time.Time) article.Signals {
	key := raw.OutletKey
	if key == "" {
		key = article.DomainKey(raw.URL)
	}
	return article.Signals{
		Recency:    Recency(raw.Published, now),
		Importance: s.Importance(raw.Title, raw.Summary),
		Source:     s.SourceReputation(key),
	}
}

// Final combines the signals and applies the category weight.
func (s *Scorer) Final(sig article.Signals, category string) float64 {
	base := baseScore + recencyWeight*sig.Recency + importWeight*sig.Importance + sourceWeight*sig.Source
	return base * rules.Weight(s.weights, category)
}

// Priority labels an article from its importance and recency.
func Priority(importance, recency float64) article.Priority {
	switch {
	case importance > 0.5 && recency > 0.8:
		return article.PriorityBreaking
	case importance > 0.3 || recency > 0.7:
		return article.PriorityImportant
	default:
		return article.PriorityNormal
	}
}

// WhyMatters returns the standing explanation for a category.
func (s *Scorer) WhyMatters(category string) string {
	if c, ok := s.rules.Category(category); ok && c.WhyMatters != "" {
		return c.WhyMatters
	}
	return defaultWhyWorth
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
