package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) ainews/1.0"
	maxContentChars = 1800
	keepContentTo   = 1600
	maxBodyBytes    = 4 << 20
)

// ArticleContent is full article content
type ArticleContent struct {
	Title   string
	Content string
	URL     string
}

// Scraper fetches article pages.
type Scraper struct {
	client *http.Client
}

func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{client: &http.Client{Timeout: timeout}}
}

// NewWithClient uses client for every request.
func NewWithClient(client *http.Client) *Scraper {
	return &Scraper{client: client}
}

func (s *Scraper) document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	return doc, nil
}

// OGImage returns the page's og:image, or twitter:image when there is none.
// Only absolute http(s) URLs are accepted and logos are skipped. An empty
// string with a nil error means the page has no usable image.
func (s *Scraper) OGImage(ctx context.Context, url string) (string, error) {
	doc, err := s.document(ctx, url)
	if err != nil {
		return "", err
	}
	return ogImage(doc), nil
}

func ogImage(doc *goquery.Document) string {
	for _, prop := range []string{"og:image", "twitter:image"} {
		sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, prop, prop)).First()
		img, _ := sel.Attr("content")
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if strings.HasPrefix(img, "http") && !strings.Contains(strings.ToLower(img), "logo") {
			return img
		}
	}
	return ""
}

// ExtractFullArticle gets full text of article by URL
func (s *Scraper) ExtractFullArticle(ctx context.Context, url string) (*ArticleContent, error) {
	doc, err := s.document(ctx, url)
	if err != nil {
		return nil, err
	}

	content := cleanContent(extractContent(doc, url))
	if content == "" {
		return nil, fmt.Errorf("can't get content")
	}

	return &ArticleContent{
		Title:   extractTitle(doc),
		Content: content,
		URL:     url,
	}, nil
}

// siteSelectors are tried before the generic cascade for known outlets.
var siteSelectors = map[string][]string{
	"reuters.com":     {`[data-testid="paragraph"]`, ".article-body__content p"},
	"theverge.com":    {".duet--article--article-body-component p"},
	"arstechnica.com": {".post-content p", ".article-content p"},
	"techcrunch.com":  {".entry-content p", ".article-content p"},
	"wired.com":       {".body__inner-container p"},
}

var genericSelectors = []string{
	"article p",
	".article p",
	".article-body p",
	".content p",
	".post-content p",
	".entry-content p",
	"main p",
	"#content p",
	"p",
}

// extractContent tries outlet selectors, then the generic cascade, and stops
// at the first selector that yields three paragraphs.
func extractContent(doc *goquery.Document, url string) string {
	var selectors []string
	for site, sels := range siteSelectors {
		if strings.Contains(url, site) {
			selectors = append(selectors, sels...)
		}
	}
	selectors = append(selectors, genericSelectors...)

	var best []string
	for _, selector := range selectors {
		var paragraphs []string
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > len(best) {
			best = paragraphs
		}
		if len(best) >= 3 {
			break
		}
	}
	return strings.Join(best, "\n\n")
}

// extractTitle gets article title
func extractTitle(doc *goquery.Document) string {
	for _, selector := range []string{"h1", ".article-title", ".headline", ".entry-title", "title"} {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}
	return ""
}

var junkIndicators = []string{
	"cookie", "gdpr", "subscribe", "sign up for", "newsletter",
	"advertisement", "read more:", "related:", "all rights reserved",
}

// cleanContent drops boilerplate paragraphs and trims the text to whole
// paragraphs when it is long.
func cleanContent(content string) string {
	var kept []string
	for _, p := range strings.Split(content, "\n\n") {
		p = strings.Join(strings.Fields(p), " ")
		if len(p) <= 30 {
			continue
		}
		lower := strings.ToLower(p)
		junk := false
		for _, ind := range junkIndicators {
			if strings.Contains(lower, ind) {
				junk = true
				break
			}
		}
		if !junk {
			kept = append(kept, p)
		}
	}

	text := strings.Join(kept, "\n\n")
	if len(text) <= maxContentChars {
		return text
	}

	var selected []string
	total := 0
	for _, p := range kept {
		if total+len(p) >= keepContentTo {
			break
		}
		selected = append(selected, p)
		total += len(p) + 2
	}
	if len(selected) == 0 {
		return string([]rune(text)[:keepContentTo])
	}
	return strings.Join(selected, "\n\n")
}
