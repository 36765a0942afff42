// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON and YAML serializable.
package envconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ZararB/DogWalker/environment/escape"
	"github.com/ZararB/DogWalker/physics"
	"github.com/ZararB/DogWalker/physics/box2d"
	ts "github.com/ZararB/DogWalker/timestep"
)

// Environment variables read by FromEnv
const (
	SeedVar   = "DOGWALKER_SEED"
	ConfigVar = "DOGWALKER_CONFIG"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Escape EnvName = "Escape"
)

// EngineName stores the name of physics engines that can back an
// environment
type EngineName string

// Engines available for configuration
const (
	Box2D EngineName = "Box2D"
)

// CameraName stores the name of observation cameras
type CameraName string

// Cameras available for configuration
const (
	Pose  CameraName = "Pose"
	Blank CameraName = "Blank"
)

// Config implements a specific configuration of a specific environment
// on a specific physics engine
type Config struct {
	Environment EnvName    `json:"environment" yaml:"environment"`
	Engine      EngineName `json:"engine" yaml:"engine"`
	Camera      CameraName `json:"camera" yaml:"camera"`

	// AgentFile optionally names a YAML robot description which
	// replaces Escape.Agent
	AgentFile string `json:"agent_file,omitempty" yaml:"agent_file,omitempty"`

	Physics box2d.Config  `json:"physics" yaml:"physics"`
	Escape  escape.Config `json:"escape" yaml:"escape"`
}

// Default returns the default configuration: the Escape environment on
// a Box2D engine with pose observations
func Default() Config {
	return Config{
		Environment: Escape,
		Engine:      Box2D,
		Camera:      Pose,
		Physics:     box2d.DefaultConfig(),
		Escape:      escape.DefaultConfig(),
	}
}

// Load reads a Config from a YAML or JSON file, chosen by extension.
// Fields missing from the file keep their default values.
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	c := Default()
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".json":
		err = json.Unmarshal(data, &c)
	default:
		return Config{}, fmt.Errorf("load: unknown config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %w",
			filename, err)
	}

	if c.AgentFile != "" {
		agentFile := c.AgentFile
		if !filepath.IsAbs(agentFile) {
			agentFile = filepath.Join(filepath.Dir(filename), agentFile)
		}
		c.Escape.Agent, err = physics.LoadAgentSpec(agentFile)
		if err != nil {
			return Config{}, fmt.Errorf("load: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// Save writes c to a YAML or JSON file, chosen by extension
func (c Config) Save(filename string) error {
	data, err := c.Marshal(filepath.Ext(filename))
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Marshal encodes c in the format named by ext: .yaml, .yml or .json
func (c Config) Marshal(ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", "yaml", "yml":
		return yaml.Marshal(c)
	case ".json", "json":
		return json.MarshalIndent(c, "", "  ")
	}
	return nil, fmt.Errorf("marshal: unknown config format %q", ext)
}

// Validate ensures the configuration describes a creatable environment
func (c Config) Validate() error {
	if c.Environment != Escape {
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}
	if c.Engine != Box2D {
		return fmt.Errorf("validate: no such engine %q", c.Engine)
	}
	if c.Camera != Pose && c.Camera != Blank {
		return fmt.Errorf("validate: no such camera %q", c.Camera)
	}
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	return c.Escape.Validate()
}

// FromEnv overrides c with the process environment. A .env file in the
// working directory is loaded first if present; variables already set
// in the process take precedence over it. DOGWALKER_CONFIG names a
// config file that replaces c, and DOGWALKER_SEED replaces the world
// seed.
func FromEnv(c Config) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("fromEnv: %w", err)
	}

	if filename := os.Getenv(ConfigVar); filename != "" {
		loaded, err := Load(filename)
		if err != nil {
			return Config{}, fmt.Errorf("fromEnv: %w", err)
		}
		c = loaded
	}

	if seed := os.Getenv(SeedVar); seed != "" {
		s, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("fromEnv: %v: %w", SeedVar, err)
		}
		c.Escape.World.Seed = s
	}
	return c, nil
}

// WithSeed returns a copy of c generating its world from seed
func (c Config) WithSeed(seed uint64) Config {
	c.Escape.World.Seed = seed
	return c
}

// NewEngine returns the physics engine described by the Config
func (c Config) NewEngine() (physics.Engine, error) {
	switch c.Engine {
	case Box2D:
		return box2d.New(c.Physics)
	}
	return nil, fmt.Errorf("newEngine: no such engine %q", c.Engine)
}

// NewCamera returns the observation camera described by the Config
func (c Config) NewCamera() (escape.Camera, error) {
	switch c.Camera {
	case Pose:
		return escape.PoseCamera{}, nil
	case Blank:
		return escape.BlankCamera{Len: escape.PoseCamera{}.FrameLen()}, nil
	}
	return nil, fmt.Errorf("newCamera: no such camera %q", c.Camera)
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. The environment owns its
// engine, which is released by the environment's Close method.
func (c Config) Create(logger *zap.Logger) (*escape.Env, ts.TimeStep,
	error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	engine, err := c.NewEngine()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	camera, err := c.NewCamera()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	env, step, err := escape.New(engine, c.Escape,
		escape.WithLogger(logger), escape.WithCamera(camera))
	if err != nil {
		engine.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return env, step, nil
}
