package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/rules"
)

func TestDetectFromEntityMap(t *testing.T) {
	d := NewEntityDetector(rules.Default().Entities)
	ents := d.Detect("Sam Altman says OpenAI will spend $5 billion on chips in Taiwan")

	assert.Contains(t, ents, article.Entity{Text: "openai", Type: EntityOrg})
	assert.Contains(t, ents, article.Entity{Text: "sam altman", Type: EntityPerson})
	assert.Contains(t, ents, article.Entity{Text: "taiwan", Type: EntityGPE})

	var money []string
	for _, e := range ents {
		if e.Type == EntityMoney {
			money = append(money, e.Text)
		}
	}
	assert.Equal(t, []string{"$5 billion"}, money)
}

func TestDetectMatchesWholeWordsAndAliases(t *testing.T) {
	d := NewEntityDetector(rules.Default().Entities)

	assert.Empty(t, d.Detect("Secondary markets stay calm"), "sec must not match inside a word")
	assert.Equal(t,
		[]article.Entity{{Text: "federal reserve", Type: EntityOrg}},
		d.Detect("The Fed holds steady"))
}

func TestBoostsUseEntityMap(t *testing.T) {
	d := NewEntityDetector(rules.Default().Entities)
	boosts := d.Boosts([]article.Entity{
		{Text: "openai", Type: EntityOrg},
		{Text: "$5 billion", Type: EntityMoney},
		{Text: "unknown corp", Type: EntityOrg},
	})
	assert.InDelta(t, 0.9*5, boosts[rules.AIHeadlines], 1e-9)
	assert.InDelta(t, 0.3*5, boosts[rules.FinanceMarkets], 1e-9)
	assert.Len(t, boosts, 2)
}

func TestBoostsFallbackSets(t *testing.T) {
	d := NewEntityDetector(nil)
	ents := d.Detect("Google and Coinbase react as China moves $2 billion")
	boosts := d.Boosts(ents)

	assert.InDelta(t, 3.0, boosts[rules.AIHeadlines], 1e-9)
	assert.InDelta(t, 3.0, boosts[rules.CryptoBlockchain], 1e-9)
	assert.InDelta(t, 1.5, boosts[rules.WorldNews], 1e-9)
	assert.InDelta(t, 2.0, boosts[rules.FinanceMarkets], 1e-9)
}

func TestPrecisionAddsBoostsAndRescales(t *testing.T) {
	base := New(rules.Default())
	p := NewPrecision(base, rules.Default().Entities)

	std := base.Classify("OpenAI announces GPT-5", "")
	res := p.Classify("OpenAI announces GPT-5", "")

	require.Equal(t, rules.AIHeadlines, res.Category)
	// openai 0.9 and gpt-5 0.9, each times five
	assert.InDelta(t, std.Scores[rules.AIHeadlines]+9.0, res.Scores[rules.AIHeadlines], 1e-9)
	assert.InDelta(t, res.Scores[rules.AIHeadlines]/40, res.Confidence, 1e-9)
	assert.Equal(t, std.Category, res.BaseCategory)
	assert.NotEmpty(t, res.Classification().Entities)
}

func TestPrecisionNoSignalDefaultsToAI(t *testing.T) {
	p := NewPrecision(New(rules.Default()), rules.Default().Entities)
	res := p.Classify("", "")
	assert.Equal(t, rules.AIHeadlines, res.Category)
	assert.Equal(t, 0.3, res.Confidence)
	assert.Empty(t, res.Entities)
}

func TestPrecisionCanChangeCategory(t *testing.T) {
	p := NewPrecision(New(rules.Default()), rules.Default().Entities)
	// no keyword signal, only a country mention
	res := p.Classify("Quiet talks in Taiwan", "")
	assert.Equal(t, rules.ViralTrending, res.BaseCategory)
	assert.Equal(t, rules.WorldNews, res.Category)
}
