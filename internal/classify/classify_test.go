package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/rules"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	return New(rules.Default())
}

func TestClassifyClearAIHeadline(t *testing.T) {
	c := newClassifier(t)
	res := c.Classify("OpenAI announces GPT-5", "")

	assert.Equal(t, rules.AIHeadlines, res.Category)
	// boosts 5+6, high keywords 3+3
	assert.InDelta(t, 17.0, res.Scores[rules.AIHeadlines], 1e-9)
	assert.Greater(t, res.Confidence, 0.5)
	assert.Empty(t, res.ExcludedBy)
	assert.False(t, res.Ambiguous)
}

func TestClassifyExclusionPenalty(t *testing.T) {
	c := newClassifier(t)
	clean := c.Classify("OpenAI announces GPT-5", "")
	excluded := c.Classify("OpenAI announces GPT-5 as stock rallies", "")

	assert.Equal(t, "stock", excluded.ExclusionHits[rules.AIHeadlines])
	assert.InDelta(t, clean.Scores[rules.AIHeadlines]-5.0, excluded.Scores[rules.AIHeadlines], 1e-9)
}

func TestClassifyOnePenaltyPerCategory(t *testing.T) {
	c := newClassifier(t)
	one := c.Classify("OpenAI stock", "")
	many := c.Classify("OpenAI stock earnings ipo shares", "")
	assert.Equal(t, one.Scores[rules.AIHeadlines], many.Scores[rules.AIHeadlines])
}

func TestClassifyNonAIEntityPenalty(t *testing.T) {
	c := newClassifier(t)
	plain := c.Classify("Anthropic ships new agent", "")
	penalised := c.Classify("Anthropic ships new agent for Walmart", "")
	assert.InDelta(t, plain.Scores[rules.AIHeadlines]-3.0, penalised.Scores[rules.AIHeadlines], 1e-9)
}

func TestClassifySkipsBareAIToken(t *testing.T) {
	c := newClassifier(t)
	res := c.Classify("ai", "")
	assert.Equal(t, 0.0, res.Scores[rules.AIHeadlines])
}

func TestClassifyCatchAll(t *testing.T) {
	c := newClassifier(t)
	res := c.Classify("", "")
	assert.Equal(t, rules.ViralTrending, res.Category)
	assert.Equal(t, 0.25, res.Confidence)
	assert.Empty(t, res.RunnerUp)
	for _, v := range res.Scores {
		assert.Equal(t, 0.0, v)
	}
}

func TestClassifyAppliesCategoryWeight(t *testing.T) {
	r := rules.Default()
	for i := range r.Categories {
		if r.Categories[i].Key == rules.Cybersecurity {
			r.Categories[i].Weight = 2.0
		}
	}
	base := newClassifier(t).Classify("Ransomware gang hits hospital", "")
	heavy := New(r).Classify("Ransomware gang hits hospital", "")
	assert.InDelta(t, base.Scores[rules.Cybersecurity]/0.95*2.0, heavy.Scores[rules.Cybersecurity], 1e-9)
}

func TestClassifyTiesFollowCanonicalOrder(t *testing.T) {
	r := &rules.Rules{
		Categories: []rules.Category{
			{Key: "b_first", High: []string{"widget"}, Weight: 1},
			{Key: "a_second", High: []string{"widget"}, Weight: 1},
		},
		CatchAll: "a_second",
	}
	res := New(r).Classify("widget", "")
	assert.Equal(t, "b_first", res.Category)
	assert.Equal(t, "a_second", res.RunnerUp)
	assert.True(t, res.Ambiguous)
}

func TestClassifyAmbiguityThresholdConfigurable(t *testing.T) {
	r := &rules.Rules{
		Categories: []rules.Category{
			{Key: "x", High: []string{"alpha", "beta"}, Weight: 1},
			{Key: "y", High: []string{"alpha"}, Medium: []string{"gamma"}, Weight: 1},
		},
		CatchAll: "x",
	}
	// x = 6, y = 4.5, ratio 0.75
	assert.False(t, New(r).Classify("alpha beta gamma", "").Ambiguous)
	assert.True(t, New(r, WithAmbiguityThreshold(0.3)).Classify("alpha beta gamma", "").Ambiguous)
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newClassifier(t)
	first := c.Classify("Nvidia earnings beat as AI chip demand surges", "Wall Street cheers the results")
	for i := 0; i < 20; i++ {
		again := c.Classify("Nvidia earnings beat as AI chip demand surges", "Wall Street cheers the results")
		require.Equal(t, first, again)
	}
}

func TestClassifySecondaryCategories(t *testing.T) {
	c := newClassifier(t)
	res := c.Classify("Hackers exploit zero-day in OpenAI plugin", "")
	require.NotEmpty(t, res.Scores)
	for _, s := range res.Secondary {
		assert.NotEqual(t, res.Category, s)
		assert.GreaterOrEqual(t, res.Scores[s], res.Scores[res.Category]*0.5)
	}
	assert.LessOrEqual(t, len(res.Secondary), 2)
}

func TestClassificationConversion(t *testing.T) {
	c := newClassifier(t)
	res := c.Classify("Bitcoin tumbles after Coinbase outage", "")
	cl := res.Classification()
	assert.Equal(t, res.Category, cl.Category)
	assert.Equal(t, res.Confidence, cl.Confidence)
	assert.Equal(t, res.Scores, cl.Scores)
}

func TestStats(t *testing.T) {
	c := newClassifier(t)
	results := []Result{
		c.Classify("OpenAI announces GPT-5", ""),
		c.Classify("", ""),
		c.Classify("Ransomware attack hits hospital network", "data breach confirmed"),
	}
	s := c.Stats(results)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.ByCategory[rules.AIHeadlines])
	assert.Equal(t, 1, s.CatchAll)
	assert.Equal(t, 0.25, s.MinConfidence)
	assert.InDelta(t, (results[0].Confidence+results[1].Confidence+results[2].Confidence)/3, s.AvgConfidence, 1e-9)

	empty := c.Stats(nil)
	assert.Equal(t, 0, empty.Total)
}
