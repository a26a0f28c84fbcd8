package classify

// Stats summarises a batch of classification results.
type Stats struct {
	Total         int
	ByCategory    map[string]int
	AvgConfidence float64
	MinConfidence float64
	MaxConfidence float64
	Ambiguous     int
	AmbiguousPct  float64
	Excluded      int
	CatchAll      int
}

// Stats aggregates results produced by this classifier.
func (c *Classifier) Stats(results []Result) Stats {
	s := Stats{ByCategory: make(map[string]int)}
	if len(results) == 0 {
		return s
	}
	s.Total = len(results)
	s.MinConfidence = results[0].Confidence
	sum := 0.0
	for _, r := range results {
		s.ByCategory[r.Category]++
		sum += r.Confidence
		if r.Confidence < s.MinConfidence {
			s.MinConfidence = r.Confidence
		}
		if r.Confidence > s.MaxConfidence {
			s.MaxConfidence = r.Confidence
		}
		if r.Ambiguous {
			s.Ambiguous++
		}
		if r.ExcludedBy != "" {
			s.Excluded++
		}
		if r.Category == c.catchAll {
			s.CatchAll++
		}
	}
	s.AvgConfidence = sum / float64(s.Total)
	s.AmbiguousPct = float64(s.Ambiguous) / float64(s.Total) * 100
	return s
}
