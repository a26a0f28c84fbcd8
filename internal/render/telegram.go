package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/rules"
)

// Telegram formats the digest with Telegram's HTML subset. Blocks are
// separated by blank lines so the sender can split on them.
func Telegram(r *rules.Rules, p Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📰 News digest — %s</b>\n", p.End.UTC().Format("January 02, 2006"))
	fmt.Fprintf(&b, "<i>%d main stories · %d other · %d sources</i>\n", p.TopCount(), len(p.Other), p.Sources())

	for _, s := range p.Sections {
		icon, title := heading(r, s.Category)
		fmt.Fprintf(&b, "\n<b>%s %s</b>\n", icon, html.EscapeString(title))
		for _, a := range s.Articles {
			b.WriteString("\n")
			switch a.Priority {
			case article.PriorityBreaking:
				b.WriteString("🔴 ")
			case article.PriorityImportant:
				b.WriteString("🟠 ")
			}
			fmt.Fprintf(&b, "<a href=\"%s\">%s</a> — <i>%s</i>\n", html.EscapeString(a.URL), html.EscapeString(a.Title), html.EscapeString(a.Outlet))
			if s := p.summary(a); s != "" {
				fmt.Fprintf(&b, "%s\n", html.EscapeString(s))
			}
			if rel := relatedLinks(a, func(o, u string) string {
				return fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(u), html.EscapeString(o))
			}); rel != "" {
				fmt.Fprintf(&b, "Also on: %s\n", rel)
			}
		}
	}

	if len(p.Other) > 0 {
		b.WriteString("\n<b>📋 Other Interesting News</b>\n")
		for i, a := range p.Other {
			fmt.Fprintf(&b, "\n%d. <a href=\"%s\">%s</a> — %s", i+1, html.EscapeString(a.URL), html.EscapeString(a.Title), html.EscapeString(a.Outlet))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Caption is the photo caption for a lead story: bold linked title, outlet
// and summary. The sender trims it to Telegram's caption limit.
func Caption(a article.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b><a href=\"%s\">%s</a></b>\n<i>%s</i>",
		html.EscapeString(a.URL), html.EscapeString(a.Title), html.EscapeString(a.Outlet))
	if a.Summary != "" {
		fmt.Fprintf(&b, "\n\n%s", html.EscapeString(a.Summary))
	}
	return b.String()
}
