package render

import (
	"html/template"
	"io"
	"time"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/rules"
)

// sections with fewer articles are grouped into one compact block
const minGridSection = 3

type cardView struct {
	article.Article
	Date    string
	Text    string
	Icon    string
	CatName string
}

type sectionView struct {
	Key   string
	Icon  string
	Title string
	Cards []cardView
}

type pageView struct {
	Today     string
	Start     string
	Generated string
	TopCount  int
	Other     []cardView
	Sources   int
	Overview  string
	Nav       []sectionView
	Grid      []sectionView
	Compact   []cardView
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>News digest — {{.Today}}</title>
<style>
body { font-family: system-ui, sans-serif; background: #0a0a0f; color: #f0f0f5; line-height: 1.6; margin: 0; }
.wrap { max-width: 1200px; margin: 0 auto; padding: 0 1.5rem; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr)); gap: 1.25rem; }
article, .compact-card, .other-item { background: #1a1a24; border: 1px solid #2a2a3a; border-radius: 1rem; padding: 1rem; }
article img { width: 100%; height: 160px; object-fit: cover; border-radius: .5rem; }
.chip { font-size: .7rem; padding: .15rem .5rem; border-radius: 999px; background: #12121a; margin-right: .3rem; }
.breaking { color: #f87171; } .important { color: #fbbf24; }
a { color: #818cf8; }
</style>
</head>
<body>
<header class="wrap">
<h1>📰 News digest — {{.Today}}</h1>
<p><span class="chip">📅 {{.Start}} → {{.Today}}</span><span class="chip">📰 {{.TopCount}} main stories</span><span class="chip">📋 {{len .Other}} other stories</span><span class="chip">🌐 {{.Sources}} sources</span></p>
<nav>{{range .Nav}}<a href="#{{.Key}}">{{.Icon}} {{.Title}}</a> {{end}}<a href="#other">📋 Other Interesting</a></nav>
</header>
<main class="wrap">
{{if .Overview}}<section id="overview"><h2>Overview</h2><p>{{.Overview}}</p></section>{{end}}
{{range .Grid}}
<section id="{{.Key}}">
<h2>{{.Icon}} {{.Title}}</h2>
<div class="grid">
{{range .Cards}}<article>
{{if .ImageURL}}<img src="{{.ImageURL}}" alt="" loading="lazy">{{end}}
<div><span class="chip">{{.Date}}</span><span class="chip">{{.Outlet}}</span>{{if .ReadingTimeMin}}<span class="chip">⏱️ {{.ReadingTimeMin}} min</span>{{end}}{{if eq .Priority "breaking"}}<span class="chip breaking">🔴 Breaking</span>{{else if eq .Priority "important"}}<span class="chip important">🟠 Important</span>{{end}}</div>
<h3><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a></h3>
<p>{{.Text}}</p>
{{range $i, $r := .RelatedArticles}}{{if lt $i 2}}<a class="chip" href="{{$r.URL}}" target="_blank" rel="noopener" title="Also on {{$r.Outlet}}">{{$r.Outlet}}</a>{{end}}{{end}}
</article>{{end}}
</div>
</section>
{{end}}
{{if .Compact}}
<section id="more-news">
<h2>📌 More Top Stories</h2>
{{range .Compact}}<div class="compact-card">
<span>{{.Icon}}</span> <span class="chip">{{.Date}}</span><span class="chip">{{.Outlet}}</span>
<h3><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a></h3>
<p>{{.Text}}</p>
</div>{{end}}
</section>
{{end}}
<section id="other">
<h2>📋 Other Interesting News</h2>
<ol>
{{range .Other}}<li class="other-item"><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a><br><small>{{.Date}} • {{.Outlet}} • {{.Icon}} {{.CatName}}</small></li>
{{end}}</ol>
</section>
</main>
<footer class="wrap"><p><small>Generated: {{.Generated}}</small></p></footer>
</body>
</html>
`))

// HTML writes the digest as a standalone HTML page.
func HTML(w io.Writer, r *rules.Rules, p Page) error {
	v := pageView{
		Today:     p.End.UTC().Format("January 02, 2006"),
		Start:     p.Start.UTC().Format("January 02, 2006"),
		Generated: p.Generated.UTC().Format(time.RFC1123),
		TopCount:  p.TopCount(),
		Sources:   p.Sources(),
		Overview:  p.Overview,
	}
	card := func(a article.Article) cardView {
		icon, title := heading(r, a.Category)
		return cardView{Article: a, Date: dateStr(a), Text: p.summary(a), Icon: icon, CatName: title}
	}

	for _, s := range p.Sections {
		icon, title := heading(r, s.Category)
		sv := sectionView{Key: s.Category, Icon: icon, Title: title}
		for _, a := range s.Articles {
			sv.Cards = append(sv.Cards, card(a))
		}
		v.Nav = append(v.Nav, sv)
		if len(s.Articles) >= minGridSection {
			v.Grid = append(v.Grid, sv)
		} else {
			v.Compact = append(v.Compact, sv.Cards...)
		}
	}
	for _, a := range p.Other {
		v.Other = append(v.Other, card(a))
	}
	return pageTmpl.Execute(w, v)
}
