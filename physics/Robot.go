package physics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Side is the side of the chassis a drive joint sits on
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Names of the four drive joints of the default robot
const (
	RightFrontWheel = "right_front_wheel_joint"
	RightBackWheel  = "right_back_wheel_joint"
	LeftFrontWheel  = "left_front_wheel_joint"
	LeftBackWheel   = "left_back_wheel_joint"
)

// Joint describes a drive joint. Offset is the wheel contact point in
// the chassis frame: X to the right, Y forward.
type Joint struct {
	Name   string     `json:"name" yaml:"name"`
	Index  int        `json:"index" yaml:"index"`
	Side   Side       `json:"side" yaml:"side"`
	Offset [2]float64 `json:"offset" yaml:"offset"`
}

// AgentSpec describes the robot to spawn. Asset names the description
// the robot was derived from and is informational only.
type AgentSpec struct {
	Name        string  `json:"name" yaml:"name"`
	Asset       string  `json:"asset,omitempty" yaml:"asset,omitempty"`
	Position    Vec3    `json:"position" yaml:"position"`
	Yaw         float64 `json:"yaw" yaml:"yaw"`
	HalfExtents Vec3    `json:"half_extents" yaml:"half_extents"`
	Mass        float64 `json:"mass" yaml:"mass"`
	WheelRadius float64 `json:"wheel_radius" yaml:"wheel_radius"`
	Joints      []Joint `json:"joints" yaml:"joints"`
}

// R2D2 returns the description of the default wheeled robot. Joint
// indices follow the r2d2.urdf joint ordering.
func R2D2() AgentSpec {
	return AgentSpec{
		Name:        "r2d2",
		Asset:       "r2d2.urdf",
		Position:    Vec3{X: 0, Y: 0, Z: 1},
		Yaw:         0,
		HalfExtents: Vec3{X: 0.3, Y: 0.25, Z: 0.5},
		Mass:        10,
		WheelRadius: 0.1,
		Joints: []Joint{
			{Name: RightFrontWheel, Index: 2, Side: Right, Offset: [2]float64{0.3, 0.2}},
			{Name: RightBackWheel, Index: 3, Side: Right, Offset: [2]float64{0.3, -0.2}},
			{Name: LeftFrontWheel, Index: 6, Side: Left, Offset: [2]float64{-0.3, 0.2}},
			{Name: LeftBackWheel, Index: 7, Side: Left, Offset: [2]float64{-0.3, -0.2}},
		},
	}
}

// Joint returns the drive joint with the given name
func (a AgentSpec) Joint(name string) (Joint, bool) {
	for _, j := range a.Joints {
		if j.Name == name {
			return j, true
		}
	}
	return Joint{}, false
}

// Validate ensures the description can be spawned
func (a AgentSpec) Validate() error {
	if a.HalfExtents.X <= 0 || a.HalfExtents.Y <= 0 {
		return fmt.Errorf("validate: agent %q: %w: half extents %v",
			a.Name, ErrInvalidShape, a.HalfExtents)
	}
	if a.Mass <= 0 {
		return fmt.Errorf("validate: agent %q: mass must be positive, got %v",
			a.Name, a.Mass)
	}
	if a.WheelRadius <= 0 {
		return fmt.Errorf("validate: agent %q: wheel radius must be "+
			"positive, got %v", a.Name, a.WheelRadius)
	}

	seen := make(map[int]string, len(a.Joints))
	for _, j := range a.Joints {
		if other, ok := seen[j.Index]; ok {
			return fmt.Errorf("validate: agent %q: joints %q and %q share "+
				"index %v", a.Name, other, j.Name, j.Index)
		}
		seen[j.Index] = j.Name

		if j.Side != Left && j.Side != Right {
			return fmt.Errorf("validate: agent %q: joint %q has no side",
				a.Name, j.Name)
		}
	}
	return nil
}

// LoadAgentSpec reads a YAML robot description. Fields missing from the
// file keep the values of R2D2().
func LoadAgentSpec(filename string) (AgentSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return AgentSpec{}, fmt.Errorf("loadAgentSpec: %w", err)
	}

	spec := R2D2()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return AgentSpec{}, fmt.Errorf("loadAgentSpec: could not decode "+
			"%v: %w", filename, err)
	}

	if err := spec.Validate(); err != nil {
		return AgentSpec{}, fmt.Errorf("loadAgentSpec: %w", err)
	}
	return spec, nil
}
