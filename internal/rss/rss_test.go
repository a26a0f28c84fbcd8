package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/retry"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLoadFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
feeds:
  - https://www.reuters.com/technology/rss
  - url: https://feeds.arstechnica.com/arstechnica/index
    domain: arstechnica.com
  - https://www.reuters.com/technology/rss
  - ""
`), 0o644))

	feeds, err := LoadFeeds(path)
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, "reuters.com", feeds[0].Domain)
	assert.Equal(t, "arstechnica.com", feeds[1].Domain)
}

func TestLoadFeedsMissing(t *testing.T) {
	_, err := LoadFeeds(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestStripHTMLAndSummary(t *testing.T) {
	assert.Equal(t, "Hello big world", StripHTML("<p>Hello <b>big</b></p><p>world</p><script>x()</script>"))
	assert.Equal(t, summaryUnavailable, cleanSummary("<p> </p>"))

	long := cleanSummary(strings.Repeat("a", 600))
	assert.Equal(t, 501, len([]rune(long)))
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "OpenAI ships GPT-5", cleanTitle("OpenAI ships GPT-5 - Reuters"))
	assert.Equal(t, "Untitled", cleanTitle("  "))
	suffix := strings.Repeat("x", 60)
	assert.Equal(t, "A - "+suffix, cleanTitle("A - "+suffix))
}

func TestLookback(t *testing.T) {
	start, end := Lookback(nil, now)
	assert.Equal(t, now, end)
	assert.Equal(t, 48*time.Hour, end.Sub(start))

	recent := now.Add(-3 * time.Hour)
	start, _ = Lookback(&recent, now)
	assert.Equal(t, 24*time.Hour, now.Sub(start))

	old := now.Add(-90 * 24 * time.Hour)
	start, _ = Lookback(&old, now)
	assert.Equal(t, 30*24*time.Hour, now.Sub(start))

	mid := now.Add(-72 * time.Hour)
	start, _ = Lookback(&mid, now)
	assert.Equal(t, mid, start)

	start, _ = Fixed(6*time.Hour, now)
	assert.Equal(t, now.Add(-6*time.Hour), start)
}

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Example Wire</title>
<item>
  <title>Ransomware hits hospital - Example Wire</title>
  <link>%[1]s/story/1?utm_source=rss</link>
  <description>&lt;p&gt;A &lt;b&gt;ransomware&lt;/b&gt; attack.&lt;/p&gt;</description>
  <pubDate>Sun, 01 Jun 2025 10:00:00 GMT</pubDate>
  <media:content url="https://img.example.com/1.jpg" medium="image"/>
</item>
<item>
  <title>Too old</title>
  <link>%[1]s/story/2</link>
  <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
</item>
<item>
  <title>Redirected story</title>
  <link>%[2]s/go/3</link>
  <pubDate>Sun, 01 Jun 2025 09:00:00 GMT</pubDate>
</item>
<item>
  <title>Dead redirect</title>
  <link>%[2]s/dead</link>
</item>
</channel>
</rss>`

func TestFetch(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, target.URL+"/real/3", http.StatusFound)
	}))
	defer redirector.Close()

	var feedURL string
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, feedTemplate, target.URL, redirector.URL)
	}))
	defer feedSrv.Close()
	feedURL = feedSrv.URL + "/rss"

	m := metrics.New()
	f := NewFetcher(Options{Workers: 2, Metrics: m, Retry: retry.RetryConfig{MaxAttempts: 1}})
	f.redirectHosts = []string{strings.TrimPrefix(redirector.URL, "http://")}

	raws, err := f.Fetch(context.Background(), []Feed{{URL: feedURL, Domain: "example.com"}}, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	first := raws[0]
	assert.Equal(t, "Ransomware hits hospital", first.Title)
	assert.Equal(t, target.URL+"/story/1", first.URL)
	assert.Equal(t, "Example Wire", first.Outlet)
	assert.Equal(t, "A ransomware attack.", first.Summary)
	assert.Equal(t, "https://img.example.com/1.jpg", first.ImageURL)
	require.NotNil(t, first.Published)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), *first.Published)

	assert.Equal(t, target.URL+"/real/3", raws[1].URL)
	assert.Equal(t, summaryUnavailable, raws[1].Summary)
	assert.Equal(t, int64(1), m.FeedsFetched)
}

func TestFetchCountsFailedFeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	m := metrics.New()
	f := NewFetcher(Options{Metrics: m, Retry: retry.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}})
	raws, err := f.Fetch(context.Background(), []Feed{{URL: srv.URL}}, now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.Empty(t, raws)
	assert.Equal(t, int64(1), m.FeedsFailed)
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFetcher(Options{Metrics: metrics.New()})
	_, err := f.Fetch(ctx, []Feed{{URL: "http://127.0.0.1:1/rss"}}, now.Add(-time.Hour), now)
	assert.Error(t, err)
}
