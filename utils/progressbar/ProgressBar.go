package progressbar

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressBar implements a concurrent progress bar. Increment may be
// called from any goroutine; a separate goroutine redraws the bar at a
// fixed interval once Display has been called.
type ProgressBar struct {
	out         io.Writer
	width       float64
	maxProgress float64
	updateEvery time.Duration

	mu              sync.Mutex
	currentProgress float64
	startTime       time.Time

	closeEvent chan struct{}
	wg         sync.WaitGroup
	once       sync.Once
}

// NewProgressBar returns a new progress bar that is width characters
// wide and reaches 100% capacity after max Increment() calls.
func NewProgressBar(out io.Writer, width, max int,
	updateEvery time.Duration) *ProgressBar {
	return &ProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		updateEvery: updateEvery,
		startTime:   time.Now(),
		closeEvent:  make(chan struct{}),
	}
}

// Increment increments the interal progress counter
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of Increment calls made so far
func (p *ProgressBar) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxProgress == 0 {
		return 1
	}
	return p.currentProgress / p.maxProgress
}

// String returns the current rendering of the bar
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return render(p.currentProgress, p.maxProgress, p.width,
		time.Since(p.startTime))
}

// Display starts redrawing the progress bar. It should only be called
// once.
func (p *ProgressBar) Display() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		for {
			select {
			case <-tick.C:
				fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.String())
			case <-p.closeEvent:
				return
			}
		}
	}()
}

// Close stops redrawing the bar, drawing it a final time. Close is
// safe to call more than once.
func (p *ProgressBar) Close() {
	p.once.Do(func() {
		close(p.closeEvent)
		p.wg.Wait()
		fmt.Fprintf(p.out, "\n\033[1A\033[K%v\n", p.String())
	})
}
