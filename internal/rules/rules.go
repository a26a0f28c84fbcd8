// Package rules holds the hand-tuned tables that drive scoring and
// classification. A Rules value is an immutable snapshot for one pipeline
// run; overrides are read from YAML files at startup.
package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category defines one topical bucket and its keyword tiers.
type Category struct {
	Key        string   `yaml:"key"`
	Icon       string   `yaml:"icon"`
	Title      string   `yaml:"title"`
	High       []string `yaml:"keywords_high"`
	Medium     []string `yaml:"keywords_medium"`
	Low        []string `yaml:"keywords_low"`
	ExcludeIf  []string `yaml:"exclude_if"`
	// Weight multiplies classifier scores; 0 means unset and counts as 1.
	// Preset weights in CategoryWeights can mute a category with 0.
	Weight     float64  `yaml:"weight"`
	Tier       int      `yaml:"tier"`
	WhyMatters string   `yaml:"why_matters"`
}

// Source is a known outlet domain and its reputation.
type Source struct {
	Domain string  `yaml:"domain"`
	Score  float64 `yaml:"score"`
}

// Tier is an ordered group of sources; earlier tiers win substring ties.
type Tier struct {
	Name    string   `yaml:"name"`
	Sources []Source `yaml:"sources"`
}

// Weighted is a phrase with a weight.
type Weighted struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

// Rules is the full rule snapshot.
type Rules struct {
	Categories         []Category                    `yaml:"categories"`
	SourceTiers        []Tier                        `yaml:"source_tiers"`
	DefaultSourceScore float64                       `yaml:"default_source_score"`
	Importance         []Weighted                    `yaml:"importance_keywords"`
	NonAIEntities      []string                      `yaml:"non_ai_entities"`
	GlobalExclusions   map[string][]string           `yaml:"global_exclusions"`
	Boosts             map[string][]Weighted         `yaml:"boost_patterns"`
	Exclusions         map[string][]string           `yaml:"exclusions"`
	CategoryWeights    map[string]map[string]float64 `yaml:"category_weights"`
	Entities           EntityMap                     `yaml:"entity_map"`
	SkipLowKeywords    []string                      `yaml:"skip_low_keywords"`
	CatchAll           string                        `yaml:"catch_all"`
	PrimaryAI          string                        `yaml:"primary_ai"`
}

// GlobalKey selects exclusions that apply to every category.
const GlobalKey = "global"

// Default returns a fresh copy of the built-in tables.
func Default() *Rules {
	return &Rules{
		Categories:         defaultCategories(),
		SourceTiers:        defaultSourceTiers(),
		DefaultSourceScore: 0.45,
		Importance:         defaultImportance(),
		NonAIEntities:      defaultNonAIEntities(),
		GlobalExclusions:   defaultGlobalExclusions(),
		Boosts:             defaultBoosts(),
		Exclusions:         map[string][]string{},
		CategoryWeights:    defaultCategoryWeights(),
		Entities:           defaultEntityMap(),
		SkipLowKeywords:    []string{"ai"},
		CatchAll:           ViralTrending,
		PrimaryAI:          AIHeadlines,
	}
}

// Keys returns category keys in canonical order.
func (r *Rules) Keys() []string {
	keys := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		keys[i] = c.Key
	}
	return keys
}

// Category looks up a category by key.
func (r *Rules) Category(key string) (Category, bool) {
	for _, c := range r.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Weights resolves a category weight preset, falling back to "default".
// Unknown categories weigh 1.0 through Weight.
func (r *Rules) Weights(preset string) map[string]float64 {
	if w, ok := r.CategoryWeights[preset]; ok {
		return w
	}
	return r.CategoryWeights["default"]
}

// Weight returns the multiplier for category in weights, or 1.0 when the
// category is absent. A listed weight of 0 mutes the category.
func Weight(weights map[string]float64, category string) float64 {
	if w, ok := weights[category]; ok {
		return w
	}
	return 1.0
}

// ExclusionsFor merges static, global and configured exclusions for a
// category in a fixed order without duplicates.
func (r *Rules) ExclusionsFor(c Category) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(list []string) {
		for _, p := range list {
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	add(c.ExcludeIf)
	add(r.GlobalExclusions[c.Key])
	add(r.Exclusions[c.Key])
	add(r.Exclusions[GlobalKey])
	return out
}

// Presets lists configured category weight preset names, sorted.
func (r *Rules) Presets() []string {
	names := make([]string, 0, len(r.CategoryWeights))
	for name := range r.CategoryWeights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the snapshot for mistakes that would break classification.
func (r *Rules) Validate() error {
	if len(r.Categories) == 0 {
		return errors.New("rules: no categories defined")
	}
	seen := make(map[string]struct{}, len(r.Categories))
	for _, c := range r.Categories {
		if c.Key == "" {
			return errors.New("rules: category with empty key")
		}
		if _, dup := seen[c.Key]; dup {
			return fmt.Errorf("rules: duplicate category %q", c.Key)
		}
		seen[c.Key] = struct{}{}
		if c.Weight < 0 {
			return fmt.Errorf("rules: category %q has negative weight", c.Key)
		}
	}
	if _, ok := seen[r.CatchAll]; !ok {
		return fmt.Errorf("rules: catch-all category %q is not defined", r.CatchAll)
	}
	for name, weights := range r.CategoryWeights {
		for key, w := range weights {
			if w < 0 {
				return fmt.Errorf("rules: preset %q weight for %q is negative", name, key)
			}
		}
	}
	for typ, rulesByName := range r.Entities {
		for name, er := range rulesByName {
			if _, ok := seen[er.Category]; !ok {
				return fmt.Errorf("rules: entity %s/%s maps to unknown category %q", typ, name, er.Category)
			}
		}
	}
	return nil
}

// Override file names looked up by LoadDir.
const (
	ExclusionsFile      = "exclusions.yaml"
	EntityMapFile       = "entity_map.yaml"
	CategoryWeightsFile = "category_weights.yaml"
	RulesFile           = "rules.yaml"
)

// LoadDir starts from the built-in tables and applies any override files
// present in dir. Missing files are not an error.
func LoadDir(dir string) (*Rules, error) {
	r := Default()
	if dir == "" {
		return r, nil
	}

	if err := overlay(filepath.Join(dir, RulesFile), r); err != nil {
		return nil, err
	}

	var excl map[string]any
	if ok, err := readYAML(filepath.Join(dir, ExclusionsFile), &excl); err != nil {
		return nil, err
	} else if ok {
		parsed, err := phraseLists(excl)
		if err != nil {
			return nil, fmt.Errorf("rules: %s: %w", ExclusionsFile, err)
		}
		r.Exclusions = parsed
	}

	var ents EntityMap
	if ok, err := readYAML(filepath.Join(dir, EntityMapFile), &ents); err != nil {
		return nil, err
	} else if ok {
		r.Entities = ents
	}

	var weights map[string]map[string]float64
	if ok, err := readYAML(filepath.Join(dir, CategoryWeightsFile), &weights); err != nil {
		return nil, err
	} else if ok {
		for name, w := range weights {
			r.CategoryWeights[name] = w
		}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// overlay decodes a full rules file over r; fields absent from the file keep
// their current values.
func overlay(path string, r *Rules) error {
	_, err := readYAML(path, r)
	return err
}

func readYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("rules: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	return true, nil
}

// phraseLists converts a loosely decoded exclusions document. Keys starting
// with an underscore are comments and skipped.
func phraseLists(in map[string]any) (map[string][]string, error) {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		if len(k) > 0 && k[0] == '_' {
			continue
		}
		if v == nil {
			out[k] = nil
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("key %q: expected a list of phrases", k)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("key %q: phrase %v is not a string", k, item)
			}
			out[k] = append(out[k], s)
		}
	}
	return out, nil
}
