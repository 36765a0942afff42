// Package physics defines the capability interface that the escape
// environment needs from a rigid-body physics engine, together with the
// value types passed across it. Concrete engines live in sub-packages.
package physics

import "fmt"

// Handle is an engine-assigned body identity. Handles are only valid
// until the next ResetWorld.
type Handle int

// NoHandle is never assigned to a body
const NoHandle Handle = -1

// Vec3 is a point or extent in world coordinates. X is lateral, Y is
// the escape axis and Z is height.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// WallKind categorizes static walls
type WallKind int

const (
	Boundary WallKind = iota
	Obstacle
)

func (w WallKind) String() string {
	if w == Obstacle {
		return "Obstacle"
	}
	return "Boundary"
}

// Box is a static box collider with a matching visual shape
type Box struct {
	Name        string
	Kind        WallKind
	Position    Vec3
	HalfExtents Vec3
}

// MotorCommand sets a persistent velocity target on a single joint.
// The target stays in effect until the joint is commanded again.
type MotorCommand struct {
	JointIndex     int
	TargetVelocity float64
	MaxForce       float64
}

// Pose is the kinematic state of a body read back after a tick.
// Orientation holds Euler angles (roll, pitch, yaw).
type Pose struct {
	Position        Vec3
	Orientation     Vec3
	LinearVelocity  Vec3
	AngularVelocity Vec3

	// JointVelocities maps drive joint index to its angular velocity
	JointVelocities map[int]float64
}

// Yaw returns the heading of the body about the Z axis
func (p Pose) Yaw() float64 {
	return p.Orientation.Z
}

// Contact is a single touching contact between Body and Other
type Contact struct {
	Body  Handle
	Other Handle
}

// Engine is the set of physics capabilities the environment consumes.
// Implementations are not safe for concurrent use.
type Engine interface {
	// ResetWorld removes every body from the simulation. All handles
	// returned before the call become invalid.
	ResetWorld() error

	// CreateWalls creates one static body per box and returns their
	// handles in the same order
	CreateWalls(walls []Box) ([]Handle, error)

	// CreateAgent creates the dynamic robot body described by spec
	CreateAgent(spec AgentSpec) (Handle, error)

	// SetJointMotors applies velocity control to joints of the agent
	SetJointMotors(agent Handle, cmds []MotorCommand) error

	// Step advances the simulation by one fixed tick
	Step() error

	// QueryContacts returns the touching contacts of body. A failure to
	// read contact data is reported as a *ContactQueryError.
	QueryContacts(body Handle) ([]Contact, error)

	// QueryPose returns the current pose of body
	QueryPose(body Handle) (Pose, error)

	Close() error
}
