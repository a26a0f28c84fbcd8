package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var articleColumns = []string{
	"url", "url_hash", "title", "outlet", "outlet_key", "category", "published_at",
	"summary", "image_url", "recency_score", "importance_score", "source_score",
	"final_score", "priority", "why_matters", "reading_time_min", "cluster_id",
	"is_cluster_primary", "related_articles_json", "created_at", "updated_at",
}

// created_at is kept from the first insert.
const articleUpsert = `ON CONFLICT (url) DO UPDATE SET
	title = excluded.title,
	outlet = excluded.outlet,
	outlet_key = excluded.outlet_key,
	category = excluded.category,
	published_at = excluded.published_at,
	summary = excluded.summary,
	image_url = excluded.image_url,
	recency_score = excluded.recency_score,
	importance_score = excluded.importance_score,
	source_score = excluded.source_score,
	final_score = excluded.final_score,
	priority = excluded.priority,
	why_matters = excluded.why_matters,
	reading_time_min = excluded.reading_time_min,
	cluster_id = excluded.cluster_id,
	is_cluster_primary = excluded.is_cluster_primary,
	related_articles_json = excluded.related_articles_json,
	updated_at = excluded.updated_at`

// SQLStore keeps curated articles, cached summaries and published digests in
// SQLite or Postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
	now    func() time.Time
	log    *slog.Logger
}

func placeholderFor(driver string) (sq.PlaceholderFormat, error) {
	switch driver {
	case DriverSQLite:
		return sq.Question, nil
	case DriverPostgres:
		return sq.Dollar, nil
	}
	return nil, fmt.Errorf("storage: unknown driver %q", driver)
}

// Open connects to the database and creates the schema if needed. For
// sqlite the dsn is a file path or ":memory:".
func Open(ctx context.Context, driver, dsn string, log *slog.Logger) (*SQLStore, error) {
	if log == nil {
		log = slog.Default()
	}
	placeholder, err := placeholderFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if driver == DriverSQLite {
		// a single connection keeps ":memory:" databases and transactions consistent
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}

	s := &SQLStore{
		db:     db,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		now:    time.Now,
		log:    log,
	}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}
	log.Info("Database ready", "driver", driver)
	return s, nil
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	id, float := "INTEGER PRIMARY KEY AUTOINCREMENT", "REAL"
	if s.driver == DriverPostgres {
		id, float = "BIGSERIAL PRIMARY KEY", "DOUBLE PRECISION"
	}
	if s.driver == DriverSQLite {
		if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return err
		}
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id ` + id + `,
			url TEXT UNIQUE NOT NULL,
			url_hash TEXT NOT NULL,
			title TEXT NOT NULL,
			outlet TEXT NOT NULL DEFAULT '',
			outlet_key TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			published_at BIGINT,
			summary TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			recency_score ` + float + ` NOT NULL DEFAULT 0,
			importance_score ` + float + ` NOT NULL DEFAULT 0,
			source_score ` + float + ` NOT NULL DEFAULT 0,
			final_score ` + float + ` NOT NULL DEFAULT 0,
			priority TEXT NOT NULL DEFAULT 'normal',
			why_matters TEXT NOT NULL DEFAULT '',
			reading_time_min INTEGER NOT NULL DEFAULT 0,
			cluster_id TEXT NOT NULL DEFAULT '',
			is_cluster_primary INTEGER NOT NULL DEFAULT 1,
			related_articles_json TEXT NOT NULL DEFAULT '[]',
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_url_hash ON articles(url_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_score ON articles(final_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			url_hash TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			summary_text TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS digests (
			id TEXT PRIMARY KEY,
			period_start BIGINT NOT NULL,
			period_end BIGINT NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			digest_text TEXT NOT NULL,
			article_count INTEGER NOT NULL DEFAULT 0,
			provider TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_digests_period ON digests(period_start, period_end)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveArticles upserts records by url in one transaction and returns how
// many were written.
func (s *SQLStore) SaveArticles(ctx context.Context, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC().Unix()
	for _, r := range records {
		related, err := encodeRelated(r.Related)
		if err != nil {
			return 0, fmt.Errorf("storage: encode related for %s: %w", r.URL, err)
		}
		hash := r.URLHash
		if hash == "" {
			hash = URLHash(r.URL)
		}
		query, args, err := s.sb.Insert("articles").
			Columns(articleColumns...).
			Values(r.URL, hash, r.Title, r.Outlet, r.OutletKey, r.Category, unixOrNil(r.Published),
				r.Summary, r.ImageURL, r.RecencyScore, r.ImportanceScore, r.SourceScore,
				r.FinalScore, r.Priority, r.WhyMatters, r.ReadingTimeMin, r.ClusterID,
				boolInt(r.IsClusterPrimary), related, now, now).
			Suffix(articleUpsert).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("storage: build upsert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("storage: save article %s: %w", r.URL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: commit: %w", err)
	}
	return len(records), nil
}

// ArticleExists reports whether url was stored before.
func (s *SQLStore) ArticleExists(ctx context.Context, url string) (bool, error) {
	query, args, err := s.sb.Select("1").From("articles").
		Where(sq.Eq{"url_hash": URLHash(url), "url": url}).
		Limit(1).ToSql()
	if err != nil {
		return false, err
	}
	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: article exists: %w", err)
	}
	return true, nil
}

// RecentArticles returns articles stored since the given time, best first.
// An empty category matches all.
func (s *SQLStore) RecentArticles(ctx context.Context, since time.Time, category string, limit int) ([]Record, error) {
	q := s.sb.Select(articleSelect...).From("articles").
		Where(sq.GtOrEq{"created_at": since.UTC().Unix()})
	if category != "" {
		q = q.Where(sq.Eq{"category": category})
	}
	return s.queryArticles(ctx, q.OrderBy("final_score DESC", "id"), limit)
}

// ArticlesSince returns articles published in [start, end], best first.
func (s *SQLStore) ArticlesSince(ctx context.Context, start, end time.Time, limit int) ([]Record, error) {
	q := s.sb.Select(articleSelect...).From("articles").
		Where(sq.GtOrEq{"published_at": start.UTC().Unix()}).
		Where(sq.LtOrEq{"published_at": end.UTC().Unix()}).
		OrderBy("final_score DESC", "id")
	return s.queryArticles(ctx, q, limit)
}

var articleSelect = append([]string{"id"}, articleColumns...)

func (s *SQLStore) queryArticles(ctx context.Context, q sq.SelectBuilder, limit int) ([]Record, error) {
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("storage: build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query articles: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan article: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		r         Record
		published sql.NullInt64
		primary   int
		related   string
		created   int64
		updated   int64
	)
	err := rows.Scan(&r.ID, &r.URL, &r.URLHash, &r.Title, &r.Outlet, &r.OutletKey, &r.Category,
		&published, &r.Summary, &r.ImageURL, &r.RecencyScore, &r.ImportanceScore,
		&r.SourceScore, &r.FinalScore, &r.Priority, &r.WhyMatters, &r.ReadingTimeMin,
		&r.ClusterID, &primary, &related, &created, &updated)
	if err != nil {
		return Record{}, err
	}
	if published.Valid {
		p := time.Unix(published.Int64, 0).UTC()
		r.Published = &p
	}
	r.IsClusterPrimary = primary != 0
	if r.Related, err = decodeRelated(related); err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.Unix(created, 0).UTC()
	r.UpdatedAt = time.Unix(updated, 0).UTC()
	return r, nil
}

// CountByCategory returns the number of stored articles per category.
func (s *SQLStore) CountByCategory(ctx context.Context) (map[string]int, error) {
	query, args, err := s.sb.Select("category", "COUNT(*)").From("articles").GroupBy("category").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: count by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			category string
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("storage: count by category: %w", err)
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

// DeleteOlderThan removes articles stored before cutoff.
func (s *SQLStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := s.sb.Delete("articles").Where(sq.Lt{"created_at": cutoff.UTC().Unix()}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("storage: delete old articles: %w", err)
	}
	return res.RowsAffected()
}

// SaveSummary caches a generated summary for url, replacing any older one.
func (s *SQLStore) SaveSummary(ctx context.Context, rec SummaryRecord) error {
	query, args, err := s.sb.Insert("summaries").
		Columns("url_hash", "url", "provider", "model", "summary_text", "created_at").
		Values(URLHash(rec.URL), rec.URL, rec.Provider, rec.Model, rec.Text, s.now().UTC().Unix()).
		Suffix(`ON CONFLICT (url_hash) DO UPDATE SET
			provider = excluded.provider,
			model = excluded.model,
			summary_text = excluded.summary_text,
			created_at = excluded.created_at`).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("storage: save summary: %w", err)
	}
	return nil
}

// Summary returns the cached summary for url. ok is false when there is none.
func (s *SQLStore) Summary(ctx context.Context, url string) (rec SummaryRecord, ok bool, err error) {
	query, args, err := s.sb.Select("url", "provider", "model", "summary_text", "created_at").
		From("summaries").Where(sq.Eq{"url_hash": URLHash(url)}).ToSql()
	if err != nil {
		return rec, false, err
	}
	var created int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rec.URL, &rec.Provider, &rec.Model, &rec.Text, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return SummaryRecord{}, false, nil
	}
	if err != nil {
		return SummaryRecord{}, false, fmt.Errorf("storage: get summary: %w", err)
	}
	rec.CreatedAt = time.Unix(created, 0).UTC()
	return rec, true, nil
}

// SaveDigest stores a digest under a new id and returns it.
func (s *SQLStore) SaveDigest(ctx context.Context, d DigestRecord) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	query, args, err := s.sb.Insert("digests").
		Columns("id", "period_start", "period_end", "preset", "digest_text", "article_count", "provider", "model", "created_at").
		Values(d.ID, d.PeriodStart.UTC().Unix(), d.PeriodEnd.UTC().Unix(), d.Preset, d.Text,
			d.ArticleCount, d.Provider, d.Model, s.now().UTC().Unix()).
		ToSql()
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("storage: save digest: %w", err)
	}
	return d.ID, nil
}

// RecentDigests returns the latest digests, newest first.
func (s *SQLStore) RecentDigests(ctx context.Context, limit int) ([]DigestRecord, error) {
	q := s.sb.Select("id", "period_start", "period_end", "preset", "digest_text", "article_count", "provider", "model", "created_at").
		From("digests").OrderBy("created_at DESC", "period_end DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: recent digests: %w", err)
	}
	defer rows.Close()

	var out []DigestRecord
	for rows.Next() {
		var (
			d                      DigestRecord
			start, end, createdAt int64
		)
		if err := rows.Scan(&d.ID, &start, &end, &d.Preset, &d.Text, &d.ArticleCount, &d.Provider, &d.Model, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: scan digest: %w", err)
		}
		d.PeriodStart = time.Unix(start, 0).UTC()
		d.PeriodEnd = time.Unix(end, 0).UTC()
		d.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Unix()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
