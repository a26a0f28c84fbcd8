// Package rss loads the feed list and fetches feed entries as raw articles.
package rss

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/ainews/internal/article"
)

// Feed is one feed URL with the outlet domain it was seeded from.
type Feed struct {
	URL    string `yaml:"url"`
	Domain string `yaml:"domain"`
}

// UnmarshalYAML accepts either a mapping or a plain URL string.
func (f *Feed) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		f.URL = strings.TrimSpace(n.Value)
		return nil
	}
	type plain Feed
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*f = Feed(p)
	return nil
}

// FeedsConfig is YAML config structure
//
//	feeds:
//	  - https://...
//	  - url: https://...
//	    domain: reuters.com
type FeedsConfig struct {
	Feeds []Feed `yaml:"feeds"`
}

// LoadFeeds reads the feed list. Blank and repeated URLs are dropped and a
// missing domain is taken from the URL.
func LoadFeeds(path string) ([]Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse feeds %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(cfg.Feeds))
	out := make([]Feed, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		feed.URL = strings.TrimSpace(feed.URL)
		if feed.URL == "" {
			continue
		}
		if _, dup := seen[feed.URL]; dup {
			continue
		}
		seen[feed.URL] = struct{}{}
		if feed.Domain == "" {
			feed.Domain = article.DomainKey(feed.URL)
		}
		out = append(out, feed)
	}
	return out, nil
}
