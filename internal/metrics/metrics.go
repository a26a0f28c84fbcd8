package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesProcessed      int64
	DuplicatesFiltered     int64
	ClustersFormed         int64
	MultiSourceClusters    int64
	VectorizationFallbacks int64
	FeedsFetched           int64
	FeedsFailed            int64
	SummariesGenerated     int64
	SummariesFailed        int64
	TelegramMessagesSent   int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

// New returns an empty, healthy Metrics.
func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) add(field *int64, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*field += int64(n)
}

func (m *Metrics) AddArticlesProcessed(n int)  { m.add(&m.ArticlesProcessed, n) }
func (m *Metrics) AddDuplicatesFiltered(n int) { m.add(&m.DuplicatesFiltered, n) }

func (m *Metrics) RecordClusters(total, multiSource int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClustersFormed += int64(total)
	m.MultiSourceClusters += int64(multiSource)
}

func (m *Metrics) IncrementVectorizationFallbacks() { m.add(&m.VectorizationFallbacks, 1) }
func (m *Metrics) IncrementFeedsFetched()           { m.add(&m.FeedsFetched, 1) }
func (m *Metrics) IncrementFeedsFailed()            { m.add(&m.FeedsFailed, 1) }
func (m *Metrics) IncrementSummariesGenerated()     { m.add(&m.SummariesGenerated, 1) }
func (m *Metrics) IncrementSummariesFailed()        { m.add(&m.SummariesFailed, 1) }
func (m *Metrics) IncrementTelegramMessagesSent()   { m.add(&m.TelegramMessagesSent, 1) }

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_processed":         m.ArticlesProcessed,
		"duplicates_filtered":        m.DuplicatesFiltered,
		"clusters_formed":            m.ClustersFormed,
		"multi_source_clusters":      m.MultiSourceClusters,
		"vectorization_fallbacks":    m.VectorizationFallbacks,
		"feeds_fetched":              m.FeedsFetched,
		"feeds_failed":               m.FeedsFailed,
		"summaries_generated":        m.SummariesGenerated,
		"summaries_failed":           m.SummariesFailed,
		"telegram_messages_sent":     m.TelegramMessagesSent,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
