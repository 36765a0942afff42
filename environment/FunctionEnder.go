package environment

import "github.com/ZararB/DogWalker/timestep"

// FunctionEnder ends an episode whenever a predicate returns true. The
// predicate usually closes over environment state that is not part of
// the observation, such as the robot's pose or contact flags.
type FunctionEnder struct {
	end     func(*timestep.TimeStep) bool
	endType timestep.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(*timestep.TimeStep) bool,
	endType timestep.EndType) *FunctionEnder {
	return &FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (f *FunctionEnder) End(t *timestep.TimeStep) bool {
	if f.end(t) {
		t.StepType = timestep.Last
		t.SetEnd(f.endType)
		return true
	}
	return false
}

// AnyEnder combines Enders. Every Ender is consulted on each call so
// that none is skipped; the first one to end the episode determines
// the recorded EndType.
type AnyEnder []Ender

// End implements the Ender interface
func (a AnyEnder) End(t *timestep.TimeStep) bool {
	ended := false
	for _, e := range a {
		if e.End(t) {
			ended = true
		}
	}
	return ended
}
