// Package escape implements an environment in which a wheeled robot
// must escape a corridor blocked by rows of walls, each row leaving a
// single gap at a random position.
package escape

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/ZararB/DogWalker/buffer/framestack"
	"github.com/ZararB/DogWalker/environment"
	"github.com/ZararB/DogWalker/physics"
	"github.com/ZararB/DogWalker/timestep"
	"github.com/ZararB/DogWalker/utils/logutils"
)

const (
	// ActionDims is the length of action vectors passed to Step
	ActionDims int = 1

	MinDiscreteAction int = int(Forward)
	MaxDiscreteAction int = int(RotateCW)
)

// Config configures an Env
type Config struct {
	World WorldConfig       `json:"world" yaml:"world"`
	Task  TaskConfig        `json:"task" yaml:"task"`
	Agent physics.AgentSpec `json:"agent" yaml:"agent"`

	FrameStackSize int     `json:"frame_stack_size" yaml:"frame_stack_size"`
	SettleSteps    int     `json:"settle_steps" yaml:"settle_steps"`
	Discount       float64 `json:"discount" yaml:"discount"`
}

// DefaultConfig returns the default environment configuration
func DefaultConfig() Config {
	return Config{
		World:          DefaultWorldConfig(),
		Task:           DefaultTaskConfig(),
		Agent:          physics.R2D2(),
		FrameStackSize: 4,
		SettleSteps:    100,
		Discount:       0.99,
	}
}

// Validate ensures an Env can be created from the config
func (c Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return err
	}
	if err := c.Task.Validate(); err != nil {
		return err
	}
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	if c.FrameStackSize <= 0 {
		return fmt.Errorf("validate: frame stack size must be positive, "+
			"got %v", c.FrameStackSize)
	}
	if c.SettleSteps < 0 {
		return fmt.Errorf("validate: settle steps cannot be negative, got %v",
			c.SettleSteps)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	return nil
}

// Option configures optional Env behaviour
type Option func(*Env)

// WithLogger sets the logger of the Env
func WithLogger(logger *zap.Logger) Option {
	return func(e *Env) {
		e.logger = logutils.OrNop(logger)
	}
}

// WithCamera sets the Camera that produces observation frames
func WithCamera(c Camera) Option {
	return func(e *Env) {
		e.camera = c
	}
}

var _ environment.Environment = (*Env)(nil)

// Env is the corridor escape environment. Each Reset regenerates the
// world from the configured seed, spawns the robot and lets it settle.
// Each Step sends the action to the robot's drive joints, advances the
// physics by a single tick and reports the new observation and reward.
//
// Env is not safe for concurrent use.
type Env struct {
	*Escape

	engine     physics.Engine
	config     Config
	logger     *zap.Logger
	camera     Camera
	dispatcher *Dispatcher

	world   *World
	episode *Episode
	current timestep.TimeStep
}

// New creates a new Env on engine and resets it, returning the first
// timestep of the first episode
func New(engine physics.Engine, config Config,
	opts ...Option) (*Env, timestep.TimeStep, error) {
	if err := config.Validate(); err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	task, err := NewEscape(config.Task)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	e := &Env{
		Escape:     task,
		engine:     engine,
		config:     config,
		logger:     zap.NewNop(),
		camera:     PoseCamera{},
		dispatcher: NewDispatcher(engine, config.Agent),
	}
	for _, opt := range opts {
		opt(e)
	}

	step, err := e.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return e, step, nil
}

// Reset starts a new episode, returning its first timestep
func (e *Env) Reset() (timestep.TimeStep, error) {
	layout, err := Generate(e.config.World)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	world, err := Build(e.engine, layout, e.config.Agent)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	e.world = world
	e.dispatcher.Reset()

	for i := 0; i < e.config.SettleSteps; i++ {
		if err := e.engine.Step(); err != nil {
			return timestep.TimeStep{}, fmt.Errorf("reset: could not "+
				"settle: %w", err)
		}
	}

	pose, err := e.engine.QueryPose(world.Agent)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	frames, err := framestack.New(e.config.FrameStackSize,
		e.camera.FrameLen())
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	if err := frames.Push(e.camera.Frame(pose)); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	e.episode = newEpisode(e.config.Agent.Position, frames)
	e.episode.Pose = pose
	e.registerEpisode(e.episode)

	e.current = timestep.New(timestep.First, 0, e.config.Discount,
		frames.Observation(), 0)

	e.logger.Debug("episode reset",
		zap.Stringer("episode", e.episode.ID),
		zap.Int("walls", len(world.Walls)),
		zap.Int("obstacle_rows", len(layout.Rows)),
		zap.Stringer("position", pose.Position),
	)
	return e.current, nil
}

// Step takes one environmental step. The action vector holds a single
// element, the index of the Action to take.
func (e *Env) Step(a *mat.VecDense) (timestep.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return e.current, false, fmt.Errorf("step: %w: expected %v "+
			"action dimension, got %v", ErrInvalidAction, ActionDims, a.Len())
	}

	value := a.AtVec(0)
	if value != math.Trunc(value) {
		return e.current, false, fmt.Errorf("step: %w: %v is not an "+
			"integer", ErrInvalidAction, value)
	}
	return e.Act(Action(value))
}

// Act takes one environmental step with the given Action
func (e *Env) Act(a Action) (timestep.TimeStep, bool, error) {
	if _, err := e.dispatcher.Apply(e.world.Agent, a); err != nil {
		return e.current, false, fmt.Errorf("act: %w", err)
	}
	e.episode.LastAction = a

	if err := e.engine.Step(); err != nil {
		return e.current, false, fmt.Errorf("act: %w", err)
	}
	e.episode.Steps++

	pose, err := e.engine.QueryPose(e.world.Agent)
	if err != nil {
		return e.current, false, fmt.Errorf("act: %w", err)
	}
	e.episode.Pose = pose

	var debug []string
	contacts, err := e.engine.QueryContacts(e.world.Agent)
	if err != nil {
		if !physics.IsContactQueryError(err) {
			return e.current, false, fmt.Errorf("act: %w", err)
		}
		e.logger.Warn("contact query failed, assuming no contact",
			zap.Stringer("episode", e.episode.ID),
			zap.Int("step", e.episode.Steps),
			zap.Error(err),
		)
		contacts = nil
	}
	if note, hit := e.detectCollision(contacts); hit {
		debug = append(debug, note)
	}

	if err := e.episode.Frames.Push(e.camera.Frame(pose)); err != nil {
		return e.current, false, fmt.Errorf("act: %w", err)
	}

	step := timestep.New(timestep.Mid, 0, e.config.Discount,
		e.episode.Frames.Observation(), e.episode.Steps)
	step.Debug = debug

	action := mat.NewVecDense(ActionDims, []float64{float64(a)})
	step.Reward = e.GetReward(step, action)

	wasDone := e.episode.Done
	done := e.End(&step)
	e.episode.Return += step.Reward

	if done && !wasDone {
		e.logger.Info("episode ended",
			zap.Stringer("episode", e.episode.ID),
			zap.Stringer("end", e.episode.EndType),
			zap.Int("steps", e.episode.Steps),
			zap.Float64("return", e.episode.Return),
			zap.Float64("displacement", e.episode.Displacement()),
		)
	}

	e.current = step
	return step, done, nil
}

// detectCollision sets the episode's collision flag if any contact is
// with a wall. It returns a note for the first wall contact only.
func (e *Env) detectCollision(contacts []physics.Contact) (string, bool) {
	if e.episode.Collided {
		return "", false
	}

	for _, c := range contacts {
		wall, ok := e.world.Wall(c.Other)
		if !ok {
			continue
		}

		e.episode.Collided = true
		e.episode.CollisionStep = e.episode.Steps
		e.logger.Debug("wall contact",
			zap.Stringer("episode", e.episode.ID),
			zap.String("wall", wall.Name),
			zap.Stringer("kind", wall.Kind),
			zap.Int("step", e.episode.Steps),
		)
		return fmt.Sprintf("collision with %v wall %q at step %v",
			wall.Kind, wall.Name, e.episode.Steps), true
	}
	return "", false
}

// CurrentTimeStep returns the last timestep returned by Reset or Step
func (e *Env) CurrentTimeStep() timestep.TimeStep {
	return e.current
}

// Config returns the configuration of the environment
func (e *Env) Config() Config {
	return e.config
}

// Layout returns the layout of the current world
func (e *Env) Layout() Layout {
	return e.world.Layout
}

// World returns the current world
func (e *Env) World() *World {
	return e.world
}

// Episode returns the state of the current episode. The returned value
// is a copy; its frame stack is shared with the environment.
func (e *Env) Episode() Episode {
	return *e.episode
}

// Dispatcher returns the action dispatcher of the environment
func (e *Env) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// Close releases the physics engine
func (e *Env) Close() error {
	return e.engine.Close()
}

// ActionSpec returns the action specification of the environment
func (e *Env) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MaxDiscreteAction)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment. Observations are normalized frame stacks, flattened
// oldest frame first.
func (e *Env) ObservationSpec() environment.Spec {
	n := e.config.FrameStackSize * e.camera.FrameLen()
	shape := mat.NewVecDense(n, nil)

	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range lower {
		lower[i] = -1
		upper[i] = 1
	}
	lowerBound := mat.NewVecDense(n, lower)
	upperBound := mat.NewVecDense(n, upper)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (e *Env) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{e.config.Discount})
	upperBound := mat.NewVecDense(1, []float64{e.config.Discount})

	return environment.NewSpec(shape, environment.Discount, lowerBound,
		upperBound, environment.Continuous)
}

// RewardSpec returns the reward specification of the environment. The
// robot cannot pass the south or north walls, which bounds the reward.
func (e *Env) RewardSpec() environment.Spec {
	spawn := e.config.Agent.Position.Y
	min := math.Min(e.config.Task.CollisionReward,
		-e.config.World.SpawnOffset-spawn)
	max := math.Max(e.config.Task.CollisionReward,
		e.config.World.EscapeLength-spawn)

	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{min})
	upperBound := mat.NewVecDense(1, []float64{max})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}
