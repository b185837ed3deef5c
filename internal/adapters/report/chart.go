package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/webopt/internal/core/domain"
)

// NewChart builds a bar chart of original vs optimized bytes per file.
// Failed and skipped files are left out since they have no measurement.
func NewChart(run *domain.Run) *charts.Bar {
	var names []string
	var before, after []opts.BarData

	for _, r := range run.Results {
		if r.Status == domain.StatusFailed || r.Status == domain.StatusSkipped {
			continue
		}
		name := r.Path
		if rel, err := filepath.Rel(run.Root, r.Path); err == nil {
			name = filepath.ToSlash(rel)
		}
		names = append(names, name)
		before = append(before, opts.BarData{Value: r.OriginalSize})
		after = append(after, opts.BarData{Value: r.OptimizedSize})
	}

	original, optimized := run.Bytes()
	subtitle := fmt.Sprintf("%d files, %d → %d bytes (%.1f%% smaller)",
		len(names), original, optimized, domain.Reduction(original, optimized))
	if run.DryRun {
		subtitle += ", dry run"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "webopt report",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Asset sizes",
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("Original", before).
		AddSeries("Optimized", after)

	return bar
}

// WriteChart renders the chart page as HTML
func WriteChart(w io.Writer, run *domain.Run) error {
	if err := NewChart(run).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// SaveChart writes the chart page to path
func SaveChart(path string, run *domain.Run) error {
	return save(path, func(w io.Writer) error { return WriteChart(w, run) })
}
