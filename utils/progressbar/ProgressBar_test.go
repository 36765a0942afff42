package progressbar

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	assert.Equal(t, "|█████     | [50.00% | elapsed: 1s]",
		render(5, 10, 10, 1500*time.Millisecond))
	assert.Equal(t, "|    | [0.00% | elapsed: 0s]", render(0, 3, 4, 0))
	assert.Equal(t, "|██| [100.00% | elapsed: 0s]", render(0, 0, 2, 0))
}

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 4, 2)
	for i := 0; i < 5; i++ {
		p.Increment()
	}
	p.Display()
	assert.Contains(t, out.String(), "|████| [100.00%")
}

// syncBuffer is a bytes.Buffer safe for concurrent use
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestProgressBarConcurrent(t *testing.T) {
	var out syncBuffer
	p := NewProgressBar(&out, 10, 100, time.Millisecond)
	p.Display()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 30; j++ {
				p.Increment()
			}
		}()
	}
	wg.Wait()
	p.Close()
	p.Close()

	assert.Equal(t, 1.0, p.Progress())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines[len(lines)-1], "[100.00%")
}
