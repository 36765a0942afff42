// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar printing to out
func NewManualProgressBar(out io.Writer, width, max int) *ManualProgressBar {
	return &ManualProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Display prints the progress bar over the previously printed one
func (p *ManualProgressBar) Display() {
	fmt.Fprintf(p.out, "\n\033[1A\033[K%v", render(p.currentProgress,
		p.maxProgress, p.width, time.Since(p.startTime)))
}

// render draws a progress bar of the given width
func render(current, max, width float64, elapsed time.Duration) string {
	fraction := 1.0
	if max > 0 {
		fraction = current / max
	}

	var bar strings.Builder
	bar.WriteString("|")
	filled := fraction * width
	for i := 0.0; i < filled; i++ {
		bar.WriteString("█")
	}
	for i := filled; i < width; i++ {
		bar.WriteString(" ")
	}
	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]", fraction*100,
		elapsed.Truncate(time.Second))
	return bar.String()
}
