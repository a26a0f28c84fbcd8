package storage

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/deusflow/ainews/internal/article"
)

// Record is a stored article.
type Record struct {
	ID        int64
	URL       string
	URLHash   string
	Title     string
	Outlet    string
	OutletKey string
	Category  string
	Published *time.Time
	Summary   string
	ImageURL  string

	RecencyScore    float64
	ImportanceScore float64
	SourceScore     float64
	FinalScore      float64

	Priority       string
	WhyMatters     string
	ReadingTimeMin int

	ClusterID        string
	IsClusterPrimary bool
	Related          []article.Related

	CreatedAt time.Time
	UpdatedAt time.Time
}

// URLHash is the short lookup key stored next to every url.
func URLHash(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:16]
}

// FromArticle converts a curated article into a record.
func FromArticle(a article.Article) Record {
	r := Record{
		URL:              a.URL,
		URLHash:          URLHash(a.URL),
		Title:            a.Title,
		Outlet:           a.Outlet,
		OutletKey:        a.OutletKey,
		Category:         a.Category,
		Summary:          a.Summary,
		ImageURL:         a.ImageURL,
		RecencyScore:     a.RecencyScore,
		ImportanceScore:  a.ImportanceScore,
		SourceScore:      a.SourceScore,
		FinalScore:       a.FinalScore,
		Priority:         string(a.Priority),
		WhyMatters:       a.WhyMatters,
		ReadingTimeMin:   a.ReadingTimeMin,
		ClusterID:        a.ClusterID,
		IsClusterPrimary: a.IsClusterPrimary,
		Related:          append([]article.Related(nil), a.RelatedArticles...),
	}
	if a.Published != nil {
		p := a.Published.UTC()
		r.Published = &p
	}
	return r
}

// Article converts the record back. Classification details that are not
// stored (confidence, secondary categories, entities) stay empty.
func (r Record) Article() article.Article {
	a := article.Article{
		URL:              r.URL,
		Title:            r.Title,
		Outlet:           r.Outlet,
		OutletKey:        r.OutletKey,
		Category:         r.Category,
		Summary:          r.Summary,
		ImageURL:         r.ImageURL,
		RecencyScore:     r.RecencyScore,
		ImportanceScore:  r.ImportanceScore,
		SourceScore:      r.SourceScore,
		FinalScore:       r.FinalScore,
		Priority:         article.Priority(r.Priority),
		WhyMatters:       r.WhyMatters,
		ReadingTimeMin:   r.ReadingTimeMin,
		ClusterID:        r.ClusterID,
		IsClusterPrimary: r.IsClusterPrimary,
		RelatedArticles:  append([]article.Related(nil), r.Related...),
	}
	if r.Published != nil {
		p := *r.Published
		a.Published = &p
	}
	return a
}

func encodeRelated(rel []article.Related) (string, error) {
	if len(rel) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(rel)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeRelated(s string) ([]article.Related, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var rel []article.Related
	if err := json.Unmarshal([]byte(s), &rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// SummaryRecord is a generated summary cached by article url.
type SummaryRecord struct {
	URL       string
	Provider  string
	Model     string
	Text      string
	CreatedAt time.Time
}

// DigestRecord is one published digest.
type DigestRecord struct {
	ID           string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Preset       string
	Text         string
	ArticleCount int
	Provider     string
	Model        string
	CreatedAt    time.Time
}
