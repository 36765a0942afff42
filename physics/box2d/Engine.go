// Package box2d implements physics.Engine on top of the Box2D port at
// github.com/ByteArena/box2d.
//
// The simulation is a top-down view of the course: the Box2D plane is
// the ground plane, gravity is zero, and heights are carried through
// untouched. Walls are static boxes. The robot is a single dynamic box
// whose drive joints are modelled as traction points: every tick, each
// wheel pushes its contact point toward the joint's target velocity
// along the chassis forward axis, limited by the joint's force cap.
// Lateral slip is cancelled, as a wheel would not slide sideways.
package box2d

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"

	"github.com/ZararB/DogWalker/physics"
	"github.com/ZararB/DogWalker/utils/floatutils"
)

// Box2D body types
const (
	staticBody  uint8 = 0
	dynamicBody uint8 = 2
)

const (
	// Fraction of a wheel's velocity error removed per tick, before
	// the force cap is applied. Higher values oscillate when turning.
	tractionGain float64 = 0.25

	wallFriction  float64 = 0.3
	agentFriction float64 = 0.3
)

// Config holds the integration parameters of the engine
type Config struct {
	TimeStep           float64 `json:"time_step" yaml:"time_step"`
	VelocityIterations int     `json:"velocity_iterations" yaml:"velocity_iterations"`
	PositionIterations int     `json:"position_iterations" yaml:"position_iterations"`
	LinearDamping      float64 `json:"linear_damping" yaml:"linear_damping"`
	AngularDamping     float64 `json:"angular_damping" yaml:"angular_damping"`
}

// DefaultConfig returns a 240 Hz configuration
func DefaultConfig() Config {
	return Config{
		TimeStep:           1.0 / 240.0,
		VelocityIterations: 8,
		PositionIterations: 3,
		LinearDamping:      0.5,
		AngularDamping:     0.5,
	}
}

// Validate ensures the configuration can drive a simulation
func (c Config) Validate() error {
	if c.TimeStep <= 0 {
		return fmt.Errorf("validate: time step must be positive, got %v",
			c.TimeStep)
	}
	if c.VelocityIterations <= 0 || c.PositionIterations <= 0 {
		return fmt.Errorf("validate: solver iterations must be positive, "+
			"got velocity=%v position=%v", c.VelocityIterations,
			c.PositionIterations)
	}
	if c.LinearDamping < 0 || c.AngularDamping < 0 {
		return fmt.Errorf("validate: damping cannot be negative")
	}
	return nil
}

// motor is the persistent velocity control state of one drive joint
type motor struct {
	joint          physics.Joint
	targetVelocity float64
	maxForce       float64
}

// agent is a spawned robot
type agent struct {
	handle      physics.Handle
	body        *box2d.B2Body
	spec        physics.AgentSpec
	wheelRadius float64

	// motors keeps the joint order of the spec so that forces are
	// accumulated in the same order on every run
	motors  []*motor
	byIndex map[int]*motor
}

// Engine is a Box2D backed physics.Engine. An Engine is not safe for
// concurrent use.
type Engine struct {
	config Config
	world  box2d.B2World

	bodies  map[*box2d.B2Body]physics.Handle
	handles map[physics.Handle]*box2d.B2Body
	agents  map[physics.Handle]*agent
	order   []*agent
	height  map[physics.Handle]float64

	// Handles are never reused, so handles from a previous world are
	// rejected rather than aliasing new bodies
	nextHandle physics.Handle

	listener *contactDetector
	ticks    int
	closed   bool
}

// New returns a new Engine with an empty world
func New(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	e := &Engine{config: config}
	e.listener = newContactDetector(e)
	if err := e.ResetWorld(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	return e, nil
}

// ResetWorld discards the current world and starts an empty one
func (e *Engine) ResetWorld() error {
	if e.closed {
		return physics.ErrClosed
	}

	e.world = box2d.MakeB2World(box2d.MakeB2Vec2(0.0, 0.0))
	e.world.SetContactListener(e.listener)

	e.bodies = make(map[*box2d.B2Body]physics.Handle)
	e.handles = make(map[physics.Handle]*box2d.B2Body)
	e.agents = make(map[physics.Handle]*agent)
	e.order = nil
	e.height = make(map[physics.Handle]float64)
	e.listener.reset()
	e.ticks = 0

	return nil
}

// register assigns a new handle to body
func (e *Engine) register(body *box2d.B2Body, z float64) physics.Handle {
	h := e.nextHandle
	e.nextHandle++

	e.bodies[body] = h
	e.handles[h] = body
	e.height[h] = z

	return h
}

// CreateWalls creates one static box body per wall
func (e *Engine) CreateWalls(walls []physics.Box) ([]physics.Handle, error) {
	if e.closed {
		return nil, physics.ErrClosed
	}

	handles := make([]physics.Handle, 0, len(walls))
	for _, wall := range walls {
		if wall.HalfExtents.X <= 0 || wall.HalfExtents.Y <= 0 {
			return nil, fmt.Errorf("createWalls: wall %q: %w: half "+
				"extents %v", wall.Name, physics.ErrInvalidShape,
				wall.HalfExtents)
		}

		def := box2d.MakeB2BodyDef()
		def.Type = staticBody
		def.Position = box2d.MakeB2Vec2(wall.Position.X, wall.Position.Y)
		body := e.world.CreateBody(&def)

		shape := box2d.NewB2PolygonShape()
		shape.SetAsBox(wall.HalfExtents.X, wall.HalfExtents.Y)

		fix := box2d.MakeB2FixtureDef()
		fix.Shape = shape
		fix.Density = 0.0
		fix.Friction = wallFriction
		body.CreateFixtureFromDef(&fix)

		handles = append(handles, e.register(body, wall.Position.Z))
	}
	return handles, nil
}

// CreateAgent creates the robot chassis. Drive joints start free:
// zero target velocity and zero force.
func (e *Engine) CreateAgent(spec physics.AgentSpec) (physics.Handle, error) {
	if e.closed {
		return physics.NoHandle, physics.ErrClosed
	}
	if err := spec.Validate(); err != nil {
		return physics.NoHandle, fmt.Errorf("createAgent: %w", err)
	}

	def := box2d.MakeB2BodyDef()
	def.Type = dynamicBody
	def.Position = box2d.MakeB2Vec2(spec.Position.X, spec.Position.Y)
	def.Angle = spec.Yaw
	def.LinearDamping = e.config.LinearDamping
	def.AngularDamping = e.config.AngularDamping
	def.AllowSleep = false
	body := e.world.CreateBody(&def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(spec.HalfExtents.X, spec.HalfExtents.Y)

	area := 4.0 * spec.HalfExtents.X * spec.HalfExtents.Y
	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = spec.Mass / area
	fix.Friction = agentFriction
	fix.Restitution = 0.0
	body.CreateFixtureFromDef(&fix)

	h := e.register(body, spec.Position.Z)
	a := &agent{
		handle:      h,
		body:        body,
		spec:        spec,
		wheelRadius: spec.WheelRadius,
		motors:      make([]*motor, 0, len(spec.Joints)),
		byIndex:     make(map[int]*motor, len(spec.Joints)),
	}
	for _, j := range spec.Joints {
		m := &motor{joint: j}
		a.motors = append(a.motors, m)
		a.byIndex[j.Index] = m
	}

	e.agents[h] = a
	e.order = append(e.order, a)
	return h, nil
}

// SetJointMotors updates the velocity targets of drive joints. Joints
// that are not named keep their previous targets.
func (e *Engine) SetJointMotors(h physics.Handle,
	cmds []physics.MotorCommand) error {
	if e.closed {
		return physics.ErrClosed
	}

	a, ok := e.agents[h]
	if !ok {
		return fmt.Errorf("setJointMotors: %w: %v", physics.ErrUnknownHandle,
			h)
	}

	for _, cmd := range cmds {
		m, ok := a.byIndex[cmd.JointIndex]
		if !ok {
			return fmt.Errorf("setJointMotors: agent %v has no drive "+
				"joint with index %v", h, cmd.JointIndex)
		}
		if cmd.MaxForce < 0 {
			return fmt.Errorf("setJointMotors: joint %v: force cap "+
				"cannot be negative", cmd.JointIndex)
		}
		m.targetVelocity = cmd.TargetVelocity
		m.maxForce = cmd.MaxForce
	}
	return nil
}

// Step applies wheel traction to every agent and advances the world
// by one tick
func (e *Engine) Step() error {
	if e.closed {
		return physics.ErrClosed
	}

	for _, a := range e.order {
		e.drive(a)
	}

	e.listener.beginTick()
	e.world.Step(e.config.TimeStep, e.config.VelocityIterations,
		e.config.PositionIterations)
	e.ticks++

	return nil
}

// drive applies the traction and lateral friction of a's wheels
func (e *Engine) drive(a *agent) {
	body := a.body
	forward := body.GetWorldVector(box2d.MakeB2Vec2(0.0, 1.0))
	right := body.GetWorldVector(box2d.MakeB2Vec2(1.0, 0.0))

	mass := body.GetMass()
	share := mass / float64(len(a.motors)) / e.config.TimeStep

	for _, m := range a.motors {
		if m.maxForce == 0 {
			continue
		}
		local := box2d.MakeB2Vec2(m.joint.Offset[0], m.joint.Offset[1])
		point := body.GetWorldPoint(local)
		speed := dot(body.GetLinearVelocityFromWorldPoint(point), forward)

		// Negative joint velocities roll the robot forward
		target := -m.targetVelocity * a.wheelRadius
		force := floatutils.Clip(tractionGain*share*(target-speed),
			-m.maxForce, m.maxForce)

		body.ApplyForce(scale(forward, force), point, true)
	}

	lateral := dot(body.GetLinearVelocity(), right)
	body.ApplyLinearImpulse(scale(right, -mass*lateral),
		body.GetWorldCenter(), true)
}

// QueryContacts returns the bodies touching h, plus any body that began
// touching h during the last tick and separated again within it
func (e *Engine) QueryContacts(h physics.Handle) ([]physics.Contact, error) {
	if e.closed {
		return nil, physics.ErrClosed
	}

	body, ok := e.handles[h]
	if !ok {
		return nil, fmt.Errorf("queryContacts: %w: %v",
			physics.ErrUnknownHandle, h)
	}

	seen := make(map[physics.Handle]bool)
	var contacts []physics.Contact
	for edge := body.GetContactList(); edge != nil; edge = edge.Next {
		if edge.Contact == nil || !edge.Contact.IsTouching() {
			continue
		}

		other, ok := e.bodies[edge.Other]
		if !ok {
			return nil, &physics.ContactQueryError{
				Body: h,
				Err:  fmt.Errorf("contact partner has no handle"),
			}
		}
		if !seen[other] {
			seen[other] = true
			contacts = append(contacts, physics.Contact{Body: h, Other: other})
		}
	}

	for _, other := range e.listener.begunWith(h) {
		if !seen[other] {
			seen[other] = true
			contacts = append(contacts, physics.Contact{Body: h, Other: other})
		}
	}

	return contacts, nil
}

// QueryPose returns the pose of h. Joint velocities are only reported
// for agents.
func (e *Engine) QueryPose(h physics.Handle) (physics.Pose, error) {
	if e.closed {
		return physics.Pose{}, physics.ErrClosed
	}

	body, ok := e.handles[h]
	if !ok {
		return physics.Pose{}, fmt.Errorf("queryPose: %w: %v",
			physics.ErrUnknownHandle, h)
	}

	pos := body.GetPosition()
	vel := body.GetLinearVelocity()
	yaw := floatutils.Wrap(body.GetAngle(), -math.Pi, math.Pi)

	pose := physics.Pose{
		Position:        physics.Vec3{X: pos.X, Y: pos.Y, Z: e.height[h]},
		Orientation:     physics.Vec3{Z: yaw},
		LinearVelocity:  physics.Vec3{X: vel.X, Y: vel.Y},
		AngularVelocity: physics.Vec3{Z: body.GetAngularVelocity()},
	}

	if a, ok := e.agents[h]; ok {
		forward := body.GetWorldVector(box2d.MakeB2Vec2(0.0, 1.0))
		pose.JointVelocities = make(map[int]float64, len(a.motors))
		for _, m := range a.motors {
			local := box2d.MakeB2Vec2(m.joint.Offset[0], m.joint.Offset[1])
			point := body.GetWorldPoint(local)
			speed := dot(body.GetLinearVelocityFromWorldPoint(point), forward)
			pose.JointVelocities[m.joint.Index] = -speed / a.wheelRadius
		}
	}

	return pose, nil
}

// Ticks returns the number of ticks simulated since the last reset
func (e *Engine) Ticks() int {
	return e.ticks
}

// BeginContacts returns the number of contacts that began since the
// last reset
func (e *Engine) BeginContacts() int {
	return e.listener.total
}

// Close releases the world. Any further call returns physics.ErrClosed.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.world.SetContactListener(nil)
	e.bodies = nil
	e.handles = nil
	e.agents = nil
	e.order = nil
	e.closed = true
	return nil
}

func dot(a, b box2d.B2Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func scale(v box2d.B2Vec2, s float64) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X*s, v.Y*s)
}
