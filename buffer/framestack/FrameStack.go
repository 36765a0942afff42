// Package framestack implements a fixed-capacity stack of the most
// recent observation frames, as used for frame stacking in
// reinforcement learning environments.
package framestack

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/ZararB/DogWalker/utils/floatutils"
)

// FrameStack is a ring buffer holding the most recent frames. All
// frames have the same length. Once the stack is full, pushing a frame
// evicts the oldest one.
type FrameStack struct {
	capacity int
	frameLen int

	// frames is a ring of capacity*frameLen values; start indexes the
	// oldest frame and size counts stored frames
	frames []float64
	start  int
	size   int
}

// New creates and returns a new FrameStack holding at most capacity
// frames of frameLen values each
func New(capacity, frameLen int) (*FrameStack, error) {
	if capacity <= 0 {
		return nil, &FrameStackError{Op: "new", Err: errCapacity}
	}
	if frameLen <= 0 {
		return nil, &FrameStackError{
			Op:  "new",
			Err: fmt.Errorf("%w: frame length %v", errFrameLength, frameLen),
		}
	}

	return &FrameStack{
		capacity: capacity,
		frameLen: frameLen,
		frames:   make([]float64, capacity*frameLen),
	}, nil
}

// Push appends a copy of frame to the stack
func (f *FrameStack) Push(frame []float64) error {
	if len(frame) != f.frameLen {
		return &FrameStackError{
			Op:  "push",
			Err: fmt.Errorf("%w: expected %v values, got %v",
				errFrameLength, f.frameLen, len(frame)),
		}
	}

	var slot int
	if f.size < f.capacity {
		slot = (f.start + f.size) % f.capacity
		f.size++
	} else {
		slot = f.start
		f.start = (f.start + 1) % f.capacity
	}
	copy(f.frames[slot*f.frameLen:(slot+1)*f.frameLen], frame)

	return nil
}

// Len returns the number of frames currently stored
func (f *FrameStack) Len() int {
	return f.size
}

// Cap returns the maximum number of frames stored
func (f *FrameStack) Cap() int {
	return f.capacity
}

// FrameLen returns the number of values in each frame
func (f *FrameStack) FrameLen() int {
	return f.frameLen
}

// Clear removes all frames
func (f *FrameStack) Clear() {
	f.start = 0
	f.size = 0
	for i := range f.frames {
		f.frames[i] = 0
	}
}

// Frames returns copies of the stored frames, oldest first
func (f *FrameStack) Frames() [][]float64 {
	frames := make([][]float64, f.size)
	for i := 0; i < f.size; i++ {
		slot := (f.start + i) % f.capacity
		frame := make([]float64, f.frameLen)
		copy(frame, f.frames[slot*f.frameLen:(slot+1)*f.frameLen])
		frames[i] = frame
	}
	return frames
}

// Observation returns the stack as a (capacity, frameLen) tensor with
// rows ordered oldest to newest. When fewer than capacity frames are
// stored, the leading rows are zero. Values are divided by the largest
// absolute value in the stack, so they lie in [-1, 1]; an empty or
// all-zero stack yields zeros.
func (f *FrameStack) Observation() *tensor.Dense {
	data := make([]float64, f.capacity*f.frameLen)

	offset := (f.capacity - f.size) * f.frameLen
	for i := 0; i < f.size; i++ {
		slot := (f.start + i) % f.capacity
		copy(data[offset+i*f.frameLen:offset+(i+1)*f.frameLen],
			f.frames[slot*f.frameLen:(slot+1)*f.frameLen])
	}

	if max := floatutils.AbsMax(data); max > 0 {
		for i := range data {
			data[i] /= max
		}
	}

	return tensor.New(
		tensor.WithShape(f.capacity, f.frameLen),
		tensor.WithBacking(data),
	)
}
