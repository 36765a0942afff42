package trackers

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is a named sequence of per-episode data, as loaded by LoadData
type Series struct {
	Name string
	Data []float64
}

// Smooth returns the trailing moving average of data over window
// episodes. The first window-1 points average over all episodes seen
// so far.
func Smooth(data []float64, window int) []float64 {
	if window <= 1 {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	out := make([]float64, len(data))
	for i := range data {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = stat.Mean(data[start:i+1], nil)
	}
	return out
}

// PlotReturns plots each series against the episode number, smoothed
// over window episodes, and saves the plot to filename. The image
// format is chosen by the extension of filename.
func PlotReturns(filename, title, yLabel string, window int,
	series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("plotReturns: no data to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = yLabel

	for i, s := range series {
		smoothed := Smooth(s.Data, window)
		points := make(plotter.XYs, len(smoothed))
		for j, v := range smoothed {
			points[j] = plotter.XY{X: float64(j + 1), Y: v}
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("plotReturns: series %v: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 5*vg.Inch, filename); err != nil {
		return fmt.Errorf("plotReturns: %w", err)
	}
	return nil
}
