// Package classify assigns one of the configured categories to an article
// using weighted keyword tiers, boost phrases and exclusion rules.
package classify

import (
	"math"
	"sort"
	"strings"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/rules"
)

const (
	exclusionPenalty = -5.0
	nonAIPenalty     = -3.0
	highHit          = 3.0
	mediumHit        = 1.5
	lowHit           = 0.5

	defaultMaxScore     = 30.0
	defaultMinScore     = 2.0
	defaultAmbiguity    = 0.15
	catchAllConfidence  = 0.25
	secondaryScoreRatio = 0.5
	maxSecondary        = 2
)

// Result is the outcome of classifying one article.
type Result struct {
	Category      string
	Confidence    float64
	Scores        map[string]float64
	ExcludedBy    string
	Ambiguous     bool
	RunnerUp      string
	Secondary     []string
	ExclusionHits map[string]string
}

// Classification converts the result for article.Build.
func (r Result) Classification() article.Classification {
	return article.Classification{
		Category:   r.Category,
		Confidence: r.Confidence,
		RunnerUp:   r.RunnerUp,
		Secondary:  r.Secondary,
		Scores:     r.Scores,
		ExcludedBy: r.ExcludedBy,
		Ambiguous:  r.Ambiguous,
	}
}

type compiled struct {
	key        string
	exclusions []string
	boosts     []rules.Weighted
	high       []string
	medium     []string
	low        []string
	weight     float64
}

// Classifier is built once per rules snapshot and is safe for concurrent use.
type Classifier struct {
	cats      []compiled
	nonAI     []string
	primaryAI string
	catchAll  string

	ambiguity float64
	minScore  float64
	maxScore  float64
}

// Option tunes a Classifier.
type Option func(*Classifier)

// WithAmbiguityThreshold sets how close the runner-up must be, as a fraction
// of the best score, to flag a result as ambiguous.
func WithAmbiguityThreshold(t float64) Option {
	return func(c *Classifier) { c.ambiguity = t }
}

// WithMinScore sets the raw score below which the catch-all category is used.
func WithMinScore(s float64) Option {
	return func(c *Classifier) { c.minScore = s }
}

// New compiles the rule snapshot into a Classifier.
func New(r *rules.Rules, opts ...Option) *Classifier {
	c := &Classifier{
		nonAI:     lowerAll(r.NonAIEntities),
		primaryAI: r.PrimaryAI,
		catchAll:  r.CatchAll,
		ambiguity: defaultAmbiguity,
		minScore:  defaultMinScore,
		maxScore:  defaultMaxScore,
	}
	skip := make(map[string]struct{}, len(r.SkipLowKeywords))
	for _, k := range r.SkipLowKeywords {
		skip[strings.ToLower(k)] = struct{}{}
	}

	for _, cat := range r.Categories {
		cc := compiled{
			key:        cat.Key,
			exclusions: lowerAll(r.ExclusionsFor(cat)),
			high:       lowerAll(cat.High),
			medium:     lowerAll(cat.Medium),
			weight:     cat.Weight,
		}
		if cc.weight == 0 {
			cc.weight = 1.0
		}
		for _, kw := range lowerAll(cat.Low) {
			if _, ok := skip[kw]; ok {
				continue
			}
			cc.low = append(cc.low, kw)
		}
		for _, b := range r.Boosts[cat.Key] {
			cc.boosts = append(cc.boosts, rules.Weighted{Phrase: strings.ToLower(b.Phrase), Weight: b.Weight})
		}
		c.cats = append(c.cats, cc)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories returns the category keys in canonical order.
func (c *Classifier) Categories() []string {
	keys := make([]string, len(c.cats))
	for i, cc := range c.cats {
		keys[i] = cc.key
	}
	return keys
}

// Classify scores every category for the text and picks the best one.
func (c *Classifier) Classify(title, summary string) Result {
	text := strings.ToLower(title + " " + summary)
	scores := make(map[string]float64, len(c.cats))
	hits := make(map[string]string)

	mentionsNonAI := containsAnyPhrase(text, c.nonAI)

	for _, cc := range c.cats {
		score := 0.0

		for _, ex := range cc.exclusions {
			if strings.Contains(text, ex) {
				score += exclusionPenalty
				hits[cc.key] = ex
				break
			}
		}

		if cc.key == c.primaryAI && mentionsNonAI {
			score += nonAIPenalty
		}

		for _, b := range cc.boosts {
			if strings.Contains(text, b.Phrase) {
				score += b.Weight
			}
		}
		score += highHit * float64(countHits(text, cc.high))
		score += mediumHit * float64(countHits(text, cc.medium))
		score += lowHit * float64(countHits(text, cc.low))

		scores[cc.key] = score * cc.weight
	}

	return c.decide(scores, hits, c.maxScore)
}

// decide ranks scores in canonical order and applies the confidence,
// ambiguity and catch-all rules.
func (c *Classifier) decide(scores map[string]float64, hits map[string]string, maxScore float64) Result {
	ranked := c.rank(scores)
	best, bestScore := ranked[0].key, ranked[0].score
	secondScore := 0.0
	if len(ranked) > 1 {
		secondScore = ranked[1].score
	}

	res := Result{
		Category:      best,
		Confidence:    clamp01(bestScore / maxScore),
		Scores:        scores,
		ExclusionHits: hits,
	}
	if secondScore > 0 && bestScore > 0 && secondScore/bestScore > 1.0-c.ambiguity {
		res.Ambiguous = true
	}
	if bestScore < c.minScore {
		res.Category = c.catchAll
		res.Confidence = catchAllConfidence
	}
	res.ExcludedBy = hits[res.Category]
	c.fillRunnersUp(&res, ranked, bestScore)
	return res
}

type ranked struct {
	key   string
	score float64
}

func (c *Classifier) rank(scores map[string]float64) []ranked {
	out := make([]ranked, 0, len(c.cats))
	for _, cc := range c.cats {
		out = append(out, ranked{key: cc.key, score: scores[cc.key]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

func (c *Classifier) fillRunnersUp(res *Result, ranked []ranked, bestScore float64) {
	for _, r := range ranked {
		if r.key == res.Category || r.score <= 0 {
			continue
		}
		if res.RunnerUp == "" {
			res.RunnerUp = r.key
		}
		if bestScore > 0 && r.score >= bestScore*secondaryScoreRatio && len(res.Secondary) < maxSecondary {
			res.Secondary = append(res.Secondary, r.key)
		}
	}
}

func countHits(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}

func containsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
