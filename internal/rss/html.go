package rss

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxSummaryRunes    = 500
	summaryUnavailable = "Summary unavailable."
)

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed.
func StripHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	var b strings.Builder
	collectText(doc.Selection, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			b.WriteString(c.Text())
			b.WriteByte(' ')
		case "script", "style", "#comment":
		default:
			collectText(c, b)
		}
	})
}

func cleanSummary(html string) string {
	s := StripHTML(html)
	if s == "" {
		return summaryUnavailable
	}
	if r := []rune(s); len(r) > maxSummaryRunes {
		s = string(r[:maxSummaryRunes]) + "…"
	}
	return s
}

// cleanTitle drops a trailing " - Outlet" when the suffix is short.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled"
	}
	if i := strings.LastIndex(title, " - "); i >= 0 {
		if suffix := title[i+3:]; len(suffix) < 50 {
			return strings.TrimSpace(title[:i])
		}
	}
	return title
}
