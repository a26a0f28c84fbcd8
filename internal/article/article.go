package article

import (
	"time"
)

// Priority is the editorial urgency of an article.
type Priority string

const (
	PriorityBreaking  Priority = "breaking"
	PriorityImportant Priority = "important"
	PriorityNormal    Priority = "normal"
)

// Raw is one feed entry as delivered by the fetch service.
type Raw struct {
	Title     string
	URL       string
	Outlet    string
	OutletKey string
	Published *time.Time
	Summary   string
	ImageURL  string
}

// Related is a same-story variant shown under a cluster primary.
type Related struct {
	Outlet string `json:"outlet"`
	URL    string `json:"url"`
}

// Entity is a named entity found in precision mode.
type Entity struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Signals are the category-independent component scores.
type Signals struct {
	Recency    float64
	Importance float64
	Source     float64
}

// Classification is what an article needs from the classifier before it can
// receive a final score.
type Classification struct {
	Category   string
	Confidence float64
	RunnerUp   string
	Secondary  []string
	Scores     map[string]float64
	ExcludedBy string
	Ambiguous  bool
	Entities   []Entity
}

// Article is a scored and classified news item. Stages pass it by value and
// return modified copies.
type Article struct {
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Outlet    string     `json:"outlet"`
	OutletKey string     `json:"outlet_key"`
	Summary   string     `json:"summary"`
	Published *time.Time `json:"published,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`

	Category            string             `json:"category"`
	Confidence          float64            `json:"classification_confidence"`
	RunnerUp            string             `json:"classification_runner_up,omitempty"`
	SecondaryCategories []string           `json:"secondary_categories,omitempty"`
	Scores              map[string]float64 `json:"scores,omitempty"`
	ExcludedBy          string             `json:"excluded_by,omitempty"`
	Ambiguous           bool               `json:"is_ambiguous"`
	Entities            []Entity           `json:"entities,omitempty"`

	RecencyScore    float64 `json:"recency_score"`
	ImportanceScore float64 `json:"importance_score"`
	SourceScore     float64 `json:"source_score"`
	FinalScore      float64 `json:"final_score"`

	Priority       Priority `json:"priority"`
	WhyMatters     string   `json:"why_matters"`
	ReadingTimeMin int      `json:"reading_time_min"`

	ClusterID        string    `json:"cluster_id,omitempty"`
	IsClusterPrimary bool      `json:"is_cluster_primary"`
	RelatedArticles  []Related `json:"related_articles,omitempty"`
}

// Build assembles an Article from a raw entry, its signals and its
// classification. The final score is computed by the caller-supplied
// function so that a category is always known before scoring.
func Build(raw Raw, s Signals, c Classification, final func(Signals, string) float64) Article {
	a := Article{
		URL:       CanonicalURL(raw.URL),
		Title:     raw.Title,
		Outlet:    raw.Outlet,
		OutletKey: raw.OutletKey,
		Summary:   raw.Summary,
		ImageURL:  raw.ImageURL,

		Category:            c.Category,
		Confidence:          c.Confidence,
		RunnerUp:            c.RunnerUp,
		SecondaryCategories: append([]string(nil), c.Secondary...),
		Scores:              copyScores(c.Scores),
		ExcludedBy:          c.ExcludedBy,
		Ambiguous:           c.Ambiguous,
		Entities:            append([]Entity(nil), c.Entities...),

		RecencyScore:    s.Recency,
		ImportanceScore: s.Importance,
		SourceScore:     s.Source,

		IsClusterPrimary: true,
		ReadingTimeMin:   ReadingTime(raw.Title + " " + raw.Summary),
	}
	if raw.Published != nil {
		p := *raw.Published
		a.Published = &p
	}
	if a.OutletKey == "" {
		a.OutletKey = DomainKey(a.URL)
	}
	a.FinalScore = final(s, c.Category)
	return a
}

// Clone returns a deep copy.
func (a Article) Clone() Article {
	b := a
	b.SecondaryCategories = append([]string(nil), a.SecondaryCategories...)
	b.Scores = copyScores(a.Scores)
	b.Entities = append([]Entity(nil), a.Entities...)
	b.RelatedArticles = append([]Related(nil), a.RelatedArticles...)
	if a.Published != nil {
		p := *a.Published
		b.Published = &p
	}
	return b
}

// Signals returns the component scores the article was built with.
func (a Article) Signals() Signals {
	return Signals{Recency: a.RecencyScore, Importance: a.ImportanceScore, Source: a.SourceScore}
}

func copyScores(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
