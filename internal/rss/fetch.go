package rss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/deusflow/ainews/internal/article"
	"github.com/deusflow/ainews/internal/cache"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/ratelimit"
	"github.com/deusflow/ainews/internal/retry"
)

const (
	maxItemsPerFeed = 50
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) ainews/1.0"
	resolveTTL      = 24 * time.Hour
	googleNewsHost  = "news.google.com"
)

// Options configure a Fetcher. Zero values take defaults.
type Options struct {
	Workers      int
	Timeout      time.Duration
	Retry        retry.RetryConfig
	HostInterval time.Duration
	Client       *http.Client
	Metrics      *metrics.Metrics
	Log          *slog.Logger
}

// Fetcher downloads feeds concurrently and turns their items into raw
// articles.
type Fetcher struct {
	client   *http.Client
	workers  int
	retry    retry.RetryConfig
	hosts    *ratelimit.Hosts
	resolved *cache.Cache[string]
	metrics  *metrics.Metrics
	log      *slog.Logger

	// hosts whose links are redirects to the real article
	redirectHosts []string
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Workers <= 0 {
		opts.Workers = 25
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 12 * time.Second
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Global
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	return &Fetcher{
		client:        opts.Client,
		workers:       opts.Workers,
		retry:         opts.Retry,
		hosts:         ratelimit.NewHosts(opts.HostInterval, 2),
		resolved:      cache.New[string](),
		metrics:       opts.Metrics,
		log:           opts.Log,
		redirectHosts: []string{googleNewsHost},
	}
}

// WithWorkers returns a copy of f that fetches n feeds at a time.
func (f *Fetcher) WithWorkers(n int) *Fetcher {
	c := *f
	if n > 0 {
		c.workers = n
	}
	return &c
}

// Fetch downloads every feed and returns the items published within
// [start, end], plus items with no date. Failing feeds are logged and
// counted; only context cancellation is returned as an error.
func (f *Fetcher) Fetch(ctx context.Context, feeds []Feed, start, end time.Time) ([]article.Raw, error) {
	results := make([][]article.Raw, len(feeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			raws, err := f.fetchFeed(gctx, feed, start, end)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				f.metrics.IncrementFeedsFailed()
				f.log.Warn("Error parsing feed", "feed", feed.URL, "error", err)
				return nil
			}
			f.metrics.IncrementFeedsFetched()
			f.log.Debug("Loaded feed", "feed", feed.URL, "items", len(raws))
			results[i] = raws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []article.Raw
	for _, r := range results {
		out = append(out, r...)
	}
	f.log.Info("Processed feeds", "feeds", len(feeds), "articles", len(out))
	return out, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feed Feed, start, end time.Time) ([]article.Raw, error) {
	if err := f.hosts.Wait(ctx, article.DomainKey(feed.URL)); err != nil {
		return nil, err
	}
	parsed, err := retry.Do(ctx, f.retry, func() (*gofeed.Feed, error) {
		p := gofeed.NewParser()
		p.Client = f.client
		p.UserAgent = userAgent
		parsed, err := p.ParseURLWithContext(feed.URL, ctx)
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode < 500 {
			return nil, retry.Permanent(err)
		}
		return parsed, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feed.URL, err)
	}

	items := parsed.Items
	if len(items) > maxItemsPerFeed {
		items = items[:maxItemsPerFeed]
	}
	out := make([]article.Raw, 0, len(items))
	for _, item := range items {
		raw, ok := f.toRaw(ctx, parsed, item, feed, start, end)
		if ok {
			out = append(out, raw)
		}
	}
	return out, nil
}

func (f *Fetcher) toRaw(ctx context.Context, feed *gofeed.Feed, item *gofeed.Item, seed Feed, start, end time.Time) (article.Raw, bool) {
	link := article.CanonicalURL(item.Link)
	if link == "" {
		return article.Raw{}, false
	}
	if f.isRedirect(link) {
		link = f.resolve(ctx, link)
		if f.isRedirect(link) {
			return article.Raw{}, false
		}
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published != nil {
		p := published.UTC()
		if p.Before(start) || p.After(end) {
			return article.Raw{}, false
		}
		published = &p
	}

	outlet := itemOutlet(item)
	if outlet == "" {
		outlet = strings.TrimSpace(feed.Title)
	}
	if outlet == "" {
		outlet = seed.Domain
	}
	key := article.DomainKey(link)
	if key == "" {
		key = seed.Domain
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}

	img := itemImage(feed, item)
	if strings.Contains(img, googleNewsHost) || strings.Contains(img, "googleusercontent.com") {
		img = ""
	}

	return article.Raw{
		Title:     cleanTitle(item.Title),
		URL:       link,
		Outlet:    outlet,
		OutletKey: key,
		Published: published,
		Summary:   cleanSummary(description),
		ImageURL:  img,
	}, true
}

func itemOutlet(item *gofeed.Item) string {
	if dc := item.DublinCoreExt; dc != nil && len(dc.Publisher) > 0 {
		return strings.TrimSpace(dc.Publisher[0])
	}
	return ""
}

func itemImage(feed *gofeed.Feed, item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, e := range media[name] {
				if u := e.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	if feed.Image != nil {
		return feed.Image.URL
	}
	return ""
}

func (f *Fetcher) isRedirect(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	for _, h := range f.redirectHosts {
		if host == h {
			return true
		}
	}
	return false
}

// resolve follows redirects from an aggregator link. Results, including
// failures, are cached.
func (f *Fetcher) resolve(ctx context.Context, link string) string {
	if v, ok := f.resolved.Get(link); ok {
		return v
	}
	final := link
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err == nil {
		req.Header.Set("User-Agent", userAgent)
		if resp, err := f.client.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode < 400 {
				final = article.CanonicalURL(resp.Request.URL.String())
			}
		}
	}
	f.resolved.Set(link, final, resolveTTL)
	return final
}
