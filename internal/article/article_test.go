package article

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalURL(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a?utm_source=x&utm_medium=rss":           "https://example.com/a",
		"https://example.com/a?id=7&fbclid=abc&page=2#comments":       "https://example.com/a?id=7&page=2",
		"https://example.com/a?GCLID=1&ref=hn&src=feed&mc_cid=1":      "https://example.com/a",
		"https://example.com/a?z=1&a=2":                               "https://example.com/a?z=1&a=2",
		"https://example.com/path#frag":                               "https://example.com/path",
		"":                                                            "",
		"https://example.com/a?reference=keep&mc_eid=drop&utm_term=x": "https://example.com/a?reference=keep",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalURL(in), in)
	}
}

func TestDomainKey(t *testing.T) {
	assert.Equal(t, "reuters.com", DomainKey("https://www.Reuters.com/tech/x"))
	assert.Equal(t, "news.ycombinator.com", DomainKey("https://news.ycombinator.com/item?id=1"))
	assert.Equal(t, "example.com", DomainKey("http://example.com:8080/a"))
	assert.Equal(t, "", DomainKey("not a url"))
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "openai ships gpt5", NormalizeTitle("OpenAI ships GPT-5!"))
	assert.Equal(t, "markets rally on fed cut", NormalizeTitle("Markets  rally on Fed cut - Reuters"))
	assert.Equal(t, "chip stocks slide", NormalizeTitle("Chip stocks slide | WSJ"))
	assert.Equal(t, "", NormalizeTitle("  ...  "))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("a few words"))

	long := make([]byte, 0, 5000*2)
	for i := 0; i < 5000; i++ {
		long = append(long, 'w', ' ')
	}
	assert.Equal(t, 15, ReadingTime(string(long)))
}

func TestBuildRequiresClassificationForFinalScore(t *testing.T) {
	pub := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := Raw{
		Title:     "Title",
		URL:       "https://www.example.com/x?utm_source=a",
		Outlet:    "Example",
		Published: &pub,
		Summary:   "Body",
	}
	var seenCategory string
	a := Build(raw, Signals{Recency: 0.5, Importance: 0.2, Source: 0.9},
		Classification{Category: "ai_headlines", Confidence: 0.7, Scores: map[string]float64{"ai_headlines": 21}},
		func(s Signals, category string) float64 {
			seenCategory = category
			return 0.15 + 0.25*s.Recency + 0.35*s.Importance + 0.25*s.Source
		})

	require.Equal(t, "ai_headlines", seenCategory)
	assert.Equal(t, "https://www.example.com/x", a.URL)
	assert.Equal(t, "example.com", a.OutletKey)
	assert.True(t, a.IsClusterPrimary)
	assert.InDelta(t, 0.15+0.125+0.07+0.225, a.FinalScore, 1e-9)

	// mutating the source does not leak into the article
	pub = pub.Add(time.Hour)
	assert.Equal(t, 3, a.Published.Hour())
}

func TestCloneIsDeep(t *testing.T) {
	a := Article{
		Scores:          map[string]float64{"x": 1},
		RelatedArticles: []Related{{Outlet: "A", URL: "u"}},
	}
	b := a.Clone()
	b.Scores["x"] = 2
	b.RelatedArticles[0].Outlet = "B"
	assert.Equal(t, 1.0, a.Scores["x"])
	assert.Equal(t, "A", a.RelatedArticles[0].Outlet)
}
