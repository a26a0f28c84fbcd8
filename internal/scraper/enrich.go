package scraper

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/cache"
)

// Enricher fills in missing images and fetches full text for selected
// articles, caching page lookups by URL.
type Enricher struct {
	scraper     *Scraper
	images      *cache.Cache[string]
	contents    *cache.Cache[string]
	ttl         time.Duration
	concurrency int
	log         *slog.Logger
}

func NewEnricher(s *Scraper, concurrency int, ttl time.Duration, log *slog.Logger) *Enricher {
	if concurrency <= 0 {
		concurrency = 8
	}
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{
		scraper:     s,
		images:      cache.New[string](),
		contents:    cache.New[string](),
		ttl:         ttl,
		concurrency: concurrency,
		log:         log,
	}
}

// Images returns copies of articles with ImageURL filled from og:image where
// it was empty. Lookup failures leave the image empty.
func (e *Enricher) Images(ctx context.Context, articles []article.Article) ([]article.Article, error) {
	out := make([]article.Article, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, a := range articles {
		out[i] = a.Clone()
		if a.ImageURL != "" {
			continue
		}
		i := i
		g.Go(func() error {
			out[i].ImageURL = e.image(gctx, out[i].URL)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Enricher) image(ctx context.Context, url string) string {
	if img, ok := e.images.Get(url); ok {
		return img
	}
	img, err := e.scraper.OGImage(ctx, url)
	if err != nil {
		e.log.Debug("No og:image", "url", url, "error", err)
		if ctx.Err() != nil {
			return ""
		}
	}
	e.images.Set(url, img, e.ttl)
	return img
}

// Content returns the article body text, falling back to the feed summary
// when the page cannot be extracted.
func (e *Enricher) Content(ctx context.Context, a article.Article) string {
	if text, ok := e.contents.Get(a.URL); ok {
		return text
	}
	text := a.Summary
	full, err := e.scraper.ExtractFullArticle(ctx, a.URL)
	if err != nil {
		e.log.Debug("Can't get content", "url", a.URL, "error", err)
	} else if len(full.Content) > len(text) {
		text = full.Content
	}
	if ctx.Err() == nil {
		e.contents.Set(a.URL, text, e.ttl)
	}
	return text
}
