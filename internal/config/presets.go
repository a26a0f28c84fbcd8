package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Preset is a named bundle of run settings.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Hours fixes the lookback window; nil means the window since the last
	// run.
	Hours       *int     `yaml:"hours"`
	TopArticles int      `yaml:"top_articles"`
	OtherMin    int      `yaml:"other_min"`
	OtherMax    int      `yaml:"other_max"`
	Workers     int      `yaml:"workers"`
	Categories  []string `yaml:"categories"`
	Weights     string   `yaml:"weights"`
	Precision   bool     `yaml:"precision"`
}

// DefaultPreset is used when no presets file exists or a field is unset.
func DefaultPreset() Preset {
	return Preset{
		Name:        "default",
		Description: "All categories, smart lookback",
		TopArticles: 30,
		OtherMin:    10,
		OtherMax:    20,
		Workers:     25,
		Weights:     "default",
	}
}

// Window returns the fixed lookback duration and whether one is set.
func (p Preset) Window() (time.Duration, bool) {
	if p.Hours == nil || *p.Hours <= 0 {
		return 0, false
	}
	return time.Duration(*p.Hours) * time.Hour, true
}

// ActiveCategories keeps the preset categories present in known. "all" or
// an empty list, or no known match, means every category and returns nil.
func (p Preset) ActiveCategories(known []string) []string {
	valid := make(map[string]struct{}, len(known))
	for _, k := range known {
		valid[k] = struct{}{}
	}
	var out []string
	for _, c := range p.Categories {
		if c == "all" {
			return nil
		}
		if _, ok := valid[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (p Preset) withDefaults(name string) Preset {
	d := DefaultPreset()
	if p.Name == "" {
		p.Name = name
	}
	if p.TopArticles <= 0 {
		p.TopArticles = d.TopArticles
	}
	if p.OtherMin <= 0 {
		p.OtherMin = d.OtherMin
	}
	if p.OtherMax <= 0 {
		p.OtherMax = d.OtherMax
	}
	if p.Workers <= 0 {
		p.Workers = d.Workers
	}
	if p.Weights == "" {
		p.Weights = d.Weights
	}
	return p
}

// Presets maps preset keys to settings.
type Presets map[string]Preset

// LoadPresets reads a YAML presets file. A missing file yields only the
// default preset.
func LoadPresets(path string) (Presets, error) {
	out := Presets{"default": DefaultPreset()}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	var raw map[string]Preset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	for key, p := range raw {
		out[key] = p.withDefaults(key)
	}
	return out, nil
}

// Get returns the preset named key.
func (p Presets) Get(key string) (Preset, error) {
	preset, ok := p[key]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %v)", key, p.Names())
	}
	return preset, nil
}

// Names lists preset keys alphabetically.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
