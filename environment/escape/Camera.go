package escape

import (
	"math"

	"github.com/ZararB/DogWalker/physics"
)

// Camera turns the state of the robot after a tick into a single
// observation frame. Every frame of a Camera has the same length.
type Camera interface {
	FrameLen() int
	Frame(pose physics.Pose) []float64
}

// PoseCamera observes the planar state of the robot:
// [x, y, sin(yaw), cos(yaw), vx, vy, yaw rate]
type PoseCamera struct{}

// FrameLen implements the Camera interface
func (PoseCamera) FrameLen() int {
	return 7
}

// Frame implements the Camera interface
func (PoseCamera) Frame(pose physics.Pose) []float64 {
	yaw := pose.Yaw()
	return []float64{
		pose.Position.X,
		pose.Position.Y,
		math.Sin(yaw),
		math.Cos(yaw),
		pose.LinearVelocity.X,
		pose.LinearVelocity.Y,
		pose.AngularVelocity.Z,
	}
}

// BlankCamera produces zero frames of a fixed length. It is used when
// the agent should learn from reward alone.
type BlankCamera struct {
	Len int
}

// FrameLen implements the Camera interface
func (b BlankCamera) FrameLen() int {
	if b.Len <= 0 {
		return 1
	}
	return b.Len
}

// Frame implements the Camera interface
func (b BlankCamera) Frame(physics.Pose) []float64 {
	return make([]float64, b.FrameLen())
}
