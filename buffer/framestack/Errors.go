package framestack

import "errors"

// FrameStackError implements errors unique to a frame stack
type FrameStackError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (f *FrameStackError) Error() string {
	return f.Op + ": " + f.Err.Error()
}

// Unwrap returns the underlying error
func (f *FrameStackError) Unwrap() error {
	return f.Err
}

var errFrameLength = errors.New("frame has the wrong length")

var errCapacity = errors.New("capacity must be positive")

// IsFrameLength returns whether or not an error reports that a frame
// pushed onto a stack had the wrong length.
func IsFrameLength(err error) bool {
	return errors.Is(err, errFrameLength)
}
