package app

import (
	"fmt"
	"io"

	"github.com/deusflow/ainews/internal/classify"
	"github.com/deusflow/ainews/internal/diagnostics"
)

// ReportOptions pick the diagnostic sections printed after a run.
type ReportOptions struct {
	Explain     bool
	Metrics     bool
	ABPrecision bool
}

// Report prints a run summary and the requested diagnostics to w.
func (a *App) Report(w io.Writer, res *Result, opts ReportOptions) error {
	d := res.Digest
	fmt.Fprintf(w, "Window:   %s .. %s (preset %s)\n",
		res.Start.Format("2006-01-02 15:04"), res.End.Format("2006-01-02 15:04"), res.Preset.Name)
	fmt.Fprintf(w, "Fetched:  %d, kept %d after dedup (url %d, title %d)\n",
		res.Fetched, d.DedupStats.Kept, d.DedupStats.DroppedURL, d.DedupStats.DroppedTitle)
	fmt.Fprintf(w, "Clusters: %d, multi-source %d\n", d.ClusterStats.TotalClusters, d.ClusterStats.MultiSourceClusters)
	fmt.Fprintf(w, "Digest:   %d top, %d other\n", len(d.Top), len(d.Other))
	if d.Fallback {
		fmt.Fprintln(w, "Note:     top list was filled from unclassified articles")
	}
	if res.MarkdownPath != "" {
		fmt.Fprintf(w, "Output:   %s, %s\n", res.MarkdownPath, res.HTMLPath)
	}
	if res.Sent > 0 {
		fmt.Fprintf(w, "Telegram: %d message(s)\n", res.Sent)
	}

	if opts.Metrics {
		fmt.Fprintln(w)
		if _, err := diagnostics.Entities(d.All).WriteTo(w); err != nil {
			return err
		}
		if _, err := diagnostics.Confidence(d.All).WriteTo(w); err != nil {
			return err
		}
	}
	if opts.Explain {
		fmt.Fprintln(w)
		if _, err := diagnostics.ScoreBreakdown(d.Top, 10).WriteTo(w); err != nil {
			return err
		}
		for i, art := range d.Top {
			if i >= 5 {
				break
			}
			if _, err := diagnostics.ClassificationDebug(art).WriteTo(w); err != nil {
				return err
			}
		}
	}
	if opts.ABPrecision && res.Pipeline != nil {
		fmt.Fprintln(w)
		prec := classify.NewPrecision(res.Pipeline.Classifier(), a.Rules.Entities)
		if _, err := diagnostics.CompareClassifiers(res.Pipeline.Classifier(), prec, d.All).WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}
