package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/ainews/internal/article"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(url, category string, score float64, published time.Time) Record {
	return FromArticle(article.Article{
		URL:              url,
		Title:            "Title for " + url,
		Outlet:           "Reuters",
		OutletKey:        "reuters",
		Category:         category,
		Published:        &published,
		Summary:          "summary",
		FinalScore:       score,
		Priority:         article.PriorityNormal,
		IsClusterPrimary: true,
		RelatedArticles:  []article.Related{{Outlet: "TechCrunch", URL: url + "/tc"}},
	})
}

func TestURLHash(t *testing.T) {
	h := URLHash("https://example.com/a")
	assert.Len(t, h, 16)
	assert.Equal(t, h, URLHash("https://example.com/a"))
	assert.NotEqual(t, h, URLHash("https://example.com/b"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x", nil)
	assert.Error(t, err)
}

func TestPlaceholderPerDriver(t *testing.T) {
	for driver, want := range map[string]string{
		DriverSQLite:   "SELECT url FROM articles WHERE url_hash = ? AND category = ?",
		DriverPostgres: "SELECT url FROM articles WHERE url_hash = $1 AND category = $2",
	} {
		ph, err := placeholderFor(driver)
		require.NoError(t, err)
		query, args, err := sq.StatementBuilder.PlaceholderFormat(ph).
			Select("url").From("articles").
			Where(sq.Eq{"url_hash": "h"}).Where(sq.Eq{"category": "c"}).ToSql()
		require.NoError(t, err)
		assert.Equal(t, want, query, driver)
		assert.Len(t, args, 2)
	}

	_, err := placeholderFor("mysql")
	assert.Error(t, err)
}

func TestSaveAndQueryArticles(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	n, err := s.SaveArticles(ctx, []Record{
		sample("https://a.com/1", "ai_headlines", 0.9, now.Add(-time.Hour)),
		sample("https://a.com/2", "cybersecurity", 0.5, now.Add(-2*time.Hour)),
		sample("https://a.com/3", "ai_headlines", 0.7, now.Add(-72*time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	recent, err := s.RecentArticles(ctx, now.Add(-time.Hour), "", 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "https://a.com/1", recent[0].URL)
	assert.Equal(t, "https://a.com/3", recent[1].URL)
	assert.Equal(t, []article.Related{{Outlet: "TechCrunch", URL: "https://a.com/1/tc"}}, recent[0].Related)
	assert.True(t, recent[0].IsClusterPrimary)
	require.NotNil(t, recent[0].Published)
	assert.Equal(t, now.Add(-time.Hour), *recent[0].Published)
	assert.Equal(t, now, recent[0].CreatedAt)

	onlyAI, err := s.RecentArticles(ctx, now.Add(-time.Hour), "ai_headlines", 1)
	require.NoError(t, err)
	require.Len(t, onlyAI, 1)
	assert.Equal(t, "https://a.com/1", onlyAI[0].URL)

	window, err := s.ArticlesSince(ctx, now.Add(-24*time.Hour), now, 0)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "https://a.com/1", window[0].URL)

	counts, err := s.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ai_headlines": 2, "cybersecurity": 1}, counts)

	ok, err := s.ArticleExists(ctx, "https://a.com/2")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.ArticleExists(ctx, "https://a.com/9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveArticlesUpserts(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	first := sample("https://a.com/1", "ai_headlines", 0.4, now)
	_, err := s.SaveArticles(ctx, []Record{first})
	require.NoError(t, err)

	later := now.Add(time.Hour)
	s.now = func() time.Time { return later }
	second := first
	second.Title = "Updated"
	second.FinalScore = 0.8
	second.Related = nil
	_, err = s.SaveArticles(ctx, []Record{second})
	require.NoError(t, err)

	got, err := s.RecentArticles(ctx, now.Add(-time.Hour), "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Updated", got[0].Title)
	assert.InDelta(t, 0.8, got[0].FinalScore, 1e-9)
	assert.Empty(t, got[0].Related)
	assert.Equal(t, now, got[0].CreatedAt)
	assert.Equal(t, later, got[0].UpdatedAt)
}

func TestDeleteOlderThan(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, err := s.SaveArticles(ctx, []Record{sample("https://a.com/old", "ai_headlines", 0.1, now)})
	require.NoError(t, err)
	s.now = func() time.Time { return now.Add(100 * 24 * time.Hour) }
	_, err = s.SaveArticles(ctx, []Record{sample("https://a.com/new", "ai_headlines", 0.1, now)})
	require.NoError(t, err)

	n, err := s.DeleteOlderThan(ctx, now.Add(90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := s.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["ai_headlines"])
}

func TestSummaryCache(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, ok, err := s.Summary(ctx, "https://a.com/1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveSummary(ctx, SummaryRecord{URL: "https://a.com/1", Provider: "gemini", Model: "m1", Text: "first"}))
	require.NoError(t, s.SaveSummary(ctx, SummaryRecord{URL: "https://a.com/1", Provider: "openai", Model: "m2", Text: "second"}))

	rec, ok, err := s.Summary(ctx, "https://a.com/1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", rec.Text)
	assert.Equal(t, "openai", rec.Provider)
	assert.Equal(t, now, rec.CreatedAt)
}

func TestSaveDigest(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	id, err := s.SaveDigest(ctx, DigestRecord{
		PeriodStart:  now.Add(-48 * time.Hour),
		PeriodEnd:    now,
		Preset:       "default",
		Text:         "# Digest",
		ArticleCount: 30,
	})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	digests, err := s.RecentDigests(ctx, 5)
	require.NoError(t, err)
	require.Len(t, digests, 1)
	assert.Equal(t, id, digests[0].ID)
	assert.Equal(t, 30, digests[0].ArticleCount)
	assert.Equal(t, now.Add(-48*time.Hour), digests[0].PeriodStart)
	assert.Equal(t, "default", digests[0].Preset)
}

func TestRecordArticleRoundTrip(t *testing.T) {
	published := now
	a := article.Article{
		URL:              "https://a.com/x",
		Title:            "X",
		Category:         "world_news",
		Published:        &published,
		FinalScore:       0.42,
		Priority:         article.PriorityBreaking,
		ClusterID:        "c1",
		IsClusterPrimary: true,
	}
	b := FromArticle(a).Article()
	assert.Equal(t, a.URL, b.URL)
	assert.Equal(t, a.Priority, b.Priority)
	assert.Equal(t, a.ClusterID, b.ClusterID)
	assert.Equal(t, *a.Published, *b.Published)
}
