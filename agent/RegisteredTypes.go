package agent

import (
	"fmt"
	"sort"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
type Type string

const (
	Random                 Type = "Random"
	EGreedyQLearningLinear Type = "EGreedyQLearning-Linear"
)

// Registered types with the package. Once a Type has been registered
// with this map, a default Config of that type can be created by name.
//
// No Type's are registered wtih this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes = make(map[Type]func() Config)

// Register registers an agent's Type with a function returning its
// default Config. Registering a Type twice panics.
func Register(agentType Type, defaultConfig func() Config) {
	if _, ok := registeredTypes[agentType]; ok {
		panic(fmt.Sprintf("register: type %v already registered",
			agentType))
	}
	registeredTypes[agentType] = defaultConfig
}

// DefaultConfig returns the default Config of a registered Type
func DefaultConfig(agentType Type) (Config, error) {
	f, ok := registeredTypes[agentType]
	if !ok {
		return nil, fmt.Errorf("defaultConfig: type %v not registered",
			agentType)
	}
	return f(), nil
}

// Types returns all registered Types in sorted order
func Types() []Type {
	types := make([]Type, 0, len(registeredTypes))
	for t := range registeredTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
