// Package render writes a curated digest as Markdown, HTML or Telegram
// message text.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/rules"
	"github.com/deusflow/ainews/internal/selector"
)

const maxRelatedShown = 2

// Page is everything a rendered digest shows.
type Page struct {
	Start     time.Time
	End       time.Time
	Generated time.Time
	Sections  []selector.Section
	Other     []article.Article
	// Summaries replace the feed summary, keyed by article url.
	Summaries map[string]string
	// Overview is an optional model-written digest shown above the sections.
	Overview string
}

// Sources counts distinct outlets across sections and other.
func (p Page) Sources() int {
	seen := make(map[string]bool)
	for _, s := range p.Sections {
		for _, a := range s.Articles {
			seen[a.OutletKey] = true
		}
	}
	for _, a := range p.Other {
		seen[a.OutletKey] = true
	}
	return len(seen)
}

// TopCount is the number of articles in all sections.
func (p Page) TopCount() int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Articles)
	}
	return n
}

func (p Page) summary(a article.Article) string {
	if s, ok := p.Summaries[a.URL]; ok && s != "" {
		return s
	}
	return a.Summary
}

func heading(r *rules.Rules, key string) (icon, title string) {
	if c, ok := r.Category(key); ok {
		return c.Icon, c.Title
	}
	return "📰", key
}

func dateStr(a article.Article) string {
	if a.Published == nil {
		return "undated"
	}
	return a.Published.UTC().Format("Jan 02")
}

// Markdown writes the digest as Markdown.
func Markdown(w io.Writer, r *rules.Rules, p Page) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# News digest: %s\n\n", p.End.UTC().Format("January 02, 2006"))
	fmt.Fprintf(&b, "_%s → %s · %d main stories · %d other · %d sources_\n",
		p.Start.UTC().Format("Jan 02 15:04"), p.End.UTC().Format("Jan 02 15:04"),
		p.TopCount(), len(p.Other), p.Sources())

	if p.Overview != "" {
		fmt.Fprintf(&b, "\n## Overview\n\n%s\n", strings.TrimSpace(p.Overview))
	}

	for _, s := range p.Sections {
		icon, title := heading(r, s.Category)
		fmt.Fprintf(&b, "\n## %s %s\n\n", icon, title)
		for _, a := range s.Articles {
			fmt.Fprintf(&b, "### [%s](%s)\n\n", mdEscape(a.Title), a.URL)
			fmt.Fprintf(&b, "%s · %s · %d min", dateStr(a), a.Outlet, a.ReadingTimeMin)
			switch a.Priority {
			case article.PriorityBreaking:
				b.WriteString(" · 🔴 Breaking")
			case article.PriorityImportant:
				b.WriteString(" · 🟠 Important")
			}
			b.WriteString("\n\n")
			if s := p.summary(a); s != "" {
				fmt.Fprintf(&b, "%s\n\n", s)
			}
			if a.WhyMatters != "" {
				fmt.Fprintf(&b, "> %s\n\n", a.WhyMatters)
			}
			if rel := relatedLinks(a, func(o, u string) string { return fmt.Sprintf("[%s](%s)", o, u) }); rel != "" {
				fmt.Fprintf(&b, "Also on: %s\n\n", rel)
			}
		}
	}

	if len(p.Other) > 0 {
		b.WriteString("\n## 📋 Other Interesting News\n\n")
		for i, a := range p.Other {
			_, title := heading(r, a.Category)
			fmt.Fprintf(&b, "%d. [%s](%s) · %s · %s · %s\n", i+1, mdEscape(a.Title), a.URL, dateStr(a), a.Outlet, title)
		}
	}

	fmt.Fprintf(&b, "\n---\nGenerated %s\n", p.Generated.UTC().Format(time.RFC3339))
	_, err := io.WriteString(w, b.String())
	return err
}

func relatedLinks(a article.Article, link func(outlet, url string) string) string {
	rel := a.RelatedArticles
	if len(rel) > maxRelatedShown {
		rel = rel[:maxRelatedShown]
	}
	parts := make([]string, 0, len(rel))
	for _, r := range rel {
		parts = append(parts, link(r.Outlet, r.URL))
	}
	return strings.Join(parts, ", ")
}

var mdReplacer = strings.NewReplacer("[", `\[`, "]", `\]`)

func mdEscape(s string) string { return mdReplacer.Replace(s) }

// WriteFiles renders Markdown and HTML into dir as ainews_<date>.md and
// ainews_<date>.html and returns both paths.
func WriteFiles(dir string, r *rules.Rules, p Page) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("render: create output dir: %w", err)
	}
	base := filepath.Join(dir, "ainews_"+p.End.UTC().Format("2006-01-02"))

	mdPath, htmlPath := base+".md", base+".html"
	if err := writeFile(mdPath, func(w io.Writer) error { return Markdown(w, r, p) }); err != nil {
		return "", "", err
	}
	if err := writeFile(htmlPath, func(w io.Writer) error { return HTML(w, r, p) }); err != nil {
		return "", "", err
	}
	return mdPath, htmlPath, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return f.Close()
}
