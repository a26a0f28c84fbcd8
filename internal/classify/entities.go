package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/rules"
)

// Entity types recognised by the detector.
const (
	EntityOrg     = "ORG"
	EntityProduct = "PRODUCT"
	EntityPerson  = "PERSON"
	EntityGPE     = "GPE"
	EntityMoney   = "MONEY"
)

const (
	entityBoostScale    = 5.0
	precisionMaxScore   = 40.0
	precisionNoSignal   = 0.3
	fallbackOrgBoost    = 3.0
	fallbackGPEBoost    = 1.5
	fallbackMoneyBoost  = 2.0
	fallbackAISetName   = "ai"
	fallbackFinanceName = "finance"
	fallbackCryptoName  = "crypto"
)

var moneyPattern = regexp.MustCompile(`(?i)(?:[$€£]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:trillion|billion|million|bn|mn|[mbk])\b)?|\b\d[\d,]*(?:\.\d+)?\s(?:trillion|billion|million)\s(?:dollars|usd|euros))`)

type surface struct {
	typ     string
	name    string
	set     string
	pattern *regexp.Regexp
	rule    rules.EntityRule
}

// EntityDetector finds named entities by whole-word gazetteer lookup. With
// an empty entity map it uses the built-in company, finance, crypto and
// country sets.
type EntityDetector struct {
	surfaces []surface
	money    *rules.EntityRule
	fallback bool
}

// NewEntityDetector compiles the gazetteer for m.
func NewEntityDetector(m rules.EntityMap) *EntityDetector {
	d := &EntityDetector{}
	if len(m) == 0 {
		d.fallback = true
		d.addSet(EntityOrg, fallbackAISetName, rules.AICompanies)
		d.addSet(EntityOrg, fallbackFinanceName, rules.FinanceEntities)
		d.addSet(EntityOrg, fallbackCryptoName, rules.CryptoEntities)
		d.addSet(EntityGPE, "", rules.Countries)
		return d
	}

	types := make([]string, 0, len(m))
	for typ := range m {
		types = append(types, typ)
	}
	sort.Strings(types)

	for _, typ := range types {
		names := make([]string, 0, len(m[typ]))
		for name := range m[typ] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rule := m[typ][name]
			if name == rules.DefaultEntityKey {
				if typ == EntityMoney {
					r := rule
					d.money = &r
				}
				continue
			}
			for _, form := range append([]string{name}, rule.Aliases...) {
				d.surfaces = append(d.surfaces, surface{
					typ:     typ,
					name:    strings.ToLower(name),
					pattern: wordPattern(form),
					rule:    rule,
				})
			}
		}
	}
	return d
}

func (d *EntityDetector) addSet(typ, set string, names []string) {
	for _, n := range names {
		d.surfaces = append(d.surfaces, surface{typ: typ, name: n, set: set, pattern: wordPattern(n)})
	}
}

func wordPattern(form string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(form))) + `\b`)
}

// Detect returns the distinct entities mentioned in text, in gazetteer
// order followed by money amounts.
func (d *EntityDetector) Detect(text string) []article.Entity {
	var out []article.Entity
	seen := make(map[article.Entity]struct{})
	add := func(e article.Entity) {
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	for _, s := range d.surfaces {
		if s.pattern.MatchString(text) {
			add(article.Entity{Text: s.name, Type: s.typ})
		}
	}
	for _, m := range moneyPattern.FindAllString(text, -1) {
		add(article.Entity{Text: strings.TrimSpace(m), Type: EntityMoney})
	}
	return out
}

// Boosts converts detected entities into per-category score additions.
func (d *EntityDetector) Boosts(ents []article.Entity) map[string]float64 {
	boosts := make(map[string]float64)
	if d.fallback {
		d.fallbackBoosts(ents, boosts)
		return boosts
	}
	for _, e := range ents {
		if e.Type == EntityMoney {
			if d.money != nil {
				boosts[d.money.Category] += d.money.Boost * entityBoostScale
			}
			continue
		}
		for _, s := range d.surfaces {
			if s.typ == e.Type && s.name == e.Text {
				boosts[s.rule.Category] += s.rule.Boost * entityBoostScale
				break
			}
		}
	}
	return boosts
}

func (d *EntityDetector) fallbackBoosts(ents []article.Entity, boosts map[string]float64) {
	sets := make(map[string]string, len(d.surfaces))
	for _, s := range d.surfaces {
		if s.set != "" {
			sets[s.name] = s.set
		}
	}
	for _, e := range ents {
		switch e.Type {
		case EntityOrg:
			switch sets[e.Text] {
			case fallbackAISetName:
				boosts[rules.AIHeadlines] += fallbackOrgBoost
			case fallbackFinanceName:
				boosts[rules.FinanceMarkets] += fallbackOrgBoost
			case fallbackCryptoName:
				boosts[rules.CryptoBlockchain] += fallbackOrgBoost
			}
		case EntityGPE:
			boosts[rules.WorldNews] += fallbackGPEBoost
		case EntityMoney:
			boosts[rules.FinanceMarkets] += fallbackMoneyBoost
		}
	}
}

// PrecisionResult extends a keyword result with entity evidence.
type PrecisionResult struct {
	Result
	Entities     []article.Entity
	EntityBoosts map[string]float64
	BaseCategory string
}

// Classification converts the result for article.Build, entities included.
func (r PrecisionResult) Classification() article.Classification {
	c := r.Result.Classification()
	c.Entities = r.Entities
	return c
}

// Precision layers entity boosts over the keyword classifier.
type Precision struct {
	base     *Classifier
	detector *EntityDetector
}

// NewPrecision builds a precision classifier on top of base.
func NewPrecision(base *Classifier, m rules.EntityMap) *Precision {
	return &Precision{base: base, detector: NewEntityDetector(m)}
}

// Classify runs keyword classification, then adds entity boosts and re-ranks.
func (p *Precision) Classify(title, summary string) PrecisionResult {
	base := p.base.Classify(title, summary)
	ents := p.detector.Detect(title + " " + summary)
	boosts := p.detector.Boosts(ents)

	scores := make(map[string]float64, len(base.Scores))
	for k, v := range base.Scores {
		scores[k] = v + boosts[k]
	}

	ranked := p.base.rank(scores)
	best, bestScore := ranked[0].key, ranked[0].score

	res := Result{
		Category:      best,
		Confidence:    clamp01(bestScore / precisionMaxScore),
		Scores:        scores,
		ExclusionHits: base.ExclusionHits,
	}
	if len(ranked) > 1 {
		second := ranked[1].score
		if second > 0 && bestScore > 0 && second/bestScore > 1.0-p.base.ambiguity {
			res.Ambiguous = true
		}
	}
	if bestScore <= 0 {
		res.Category = p.base.primaryAI
		res.Confidence = precisionNoSignal
	}
	res.ExcludedBy = base.ExclusionHits[res.Category]
	p.base.fillRunnersUp(&res, ranked, bestScore)

	return PrecisionResult{
		Result:       res,
		Entities:     ents,
		EntityBoosts: boosts,
		BaseCategory: base.Category,
	}
}
