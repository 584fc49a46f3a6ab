package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Plot renders the delta of every iteration of the reports as an HTML line
// chart, one series per report
func Plot(w io.Writer, reports ...*Report) error {
	iterations := 0
	for _, r := range reports {
		if len(r.Trace) > iterations {
			iterations = len(r.Trace)
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Convergence",
			Subtitle: "largest value change per iteration",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, 0, iterations)
	for i := 1; i <= iterations; i++ {
		steps = append(steps, fmt.Sprintf("%d", i))
	}
	line = line.SetXAxis(steps)
	for _, r := range reports {
		items := make([]opts.LineData, 0, len(r.Trace))
		for _, step := range r.Trace {
			items = append(items, opts.LineData{Value: step.Delta})
		}
		line.AddSeries(r.Algorithm, items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

// PlotFile writes the chart of Plot to path, creating its directory
func PlotFile(path string, reports ...*Report) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Plot(f, reports...)
}
