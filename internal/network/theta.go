package network

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrThetaExists   = errors.New("threshold function already registered")
	ErrThetaNotFound = errors.New("threshold function not found")
)

// Theta selects the activation applied to a node's shifted value.
//
//	shifted   <0   ==0     >0
//	split      0   prior    1
//	negative   0   0        1
//	positive   0   1        1
//
// Additional rules can be registered with RegisterTheta.
type Theta int

const (
	Split Theta = iota
	Negative
	Positive

	firstCustomTheta
)

// ThresholdFunc maps a shifted value and the node's prior state to its next state.
type ThresholdFunc func(shifted float64, prior int) int

type registeredTheta struct {
	name string
	fn   ThresholdFunc
}

var thetaRegistry = struct {
	mu     sync.RWMutex
	byName map[string]Theta
	custom []registeredTheta
}{
	byName: make(map[string]Theta),
}

func init() {
	initializeBuiltInThetas()
}

func initializeBuiltInThetas() {
	thetaRegistry.byName["split"] = Split
	thetaRegistry.byName["negative"] = Negative
	thetaRegistry.byName["positive"] = Positive
}

// RegisterTheta adds a named threshold rule and returns its handle.
func RegisterTheta(name string, fn ThresholdFunc) (Theta, error) {
	if name == "" {
		return 0, errors.New("threshold function name is required")
	}
	if fn == nil {
		return 0, errors.New("threshold function is required")
	}

	thetaRegistry.mu.Lock()
	defer thetaRegistry.mu.Unlock()

	if _, exists := thetaRegistry.byName[name]; exists {
		return 0, fmt.Errorf("%w: %s", ErrThetaExists, name)
	}
	theta := firstCustomTheta + Theta(len(thetaRegistry.custom))
	thetaRegistry.custom = append(thetaRegistry.custom, registeredTheta{name: name, fn: fn})
	thetaRegistry.byName[name] = theta
	return theta, nil
}

func MustRegisterTheta(name string, fn ThresholdFunc) Theta {
	theta, err := RegisterTheta(name, fn)
	if err != nil {
		panic(err)
	}
	return theta
}

// ParseTheta resolves a threshold function by name. The empty name means Split.
func ParseTheta(name string) (Theta, error) {
	if name == "" {
		return Split, nil
	}
	thetaRegistry.mu.RLock()
	defer thetaRegistry.mu.RUnlock()

	theta, ok := thetaRegistry.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrThetaNotFound, name)
	}
	return theta, nil
}

func ListThetas() []string {
	thetaRegistry.mu.RLock()
	defer thetaRegistry.mu.RUnlock()

	names := make([]string, 0, len(thetaRegistry.byName))
	for name := range thetaRegistry.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupCustomTheta(t Theta) (registeredTheta, bool) {
	thetaRegistry.mu.RLock()
	defer thetaRegistry.mu.RUnlock()

	i := int(t - firstCustomTheta)
	if i < 0 || i >= len(thetaRegistry.custom) {
		return registeredTheta{}, false
	}
	return thetaRegistry.custom[i], true
}

// Valid reports whether t is a built-in or registered threshold function.
func (t Theta) Valid() bool {
	if t >= Split && t < firstCustomTheta {
		return true
	}
	_, ok := lookupCustomTheta(t)
	return ok
}

// Memoryless reports whether the rule ignores the node's prior state. Only
// the negative and positive rules qualify; every other rule makes each node
// depend on itself.
func (t Theta) Memoryless() bool {
	return t == Negative || t == Positive
}

func (t Theta) String() string {
	switch t {
	case Split:
		return "split"
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	}
	if entry, ok := lookupCustomTheta(t); ok {
		return entry.name
	}
	return fmt.Sprintf("Theta(%d)", int(t))
}

// Apply is the scalar form: it returns the next state of one node.
func (t Theta) Apply(shifted float64, prior int) int {
	switch t {
	case Split:
		if shifted < 0 {
			return 0
		} else if shifted > 0 {
			return 1
		}
		return prior
	case Negative:
		if shifted <= 0 {
			return 0
		}
		return 1
	case Positive:
		if shifted < 0 {
			return 0
		}
		return 1
	}
	entry, ok := lookupCustomTheta(t)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrThetaNotFound, t))
	}
	return entry.fn(shifted, prior)
}

// ApplyAll is the vectorized form: states[i] becomes Apply(shifted[i], states[i]).
func (t Theta) ApplyAll(shifted []float64, states []int) []int {
	if t < firstCustomTheta {
		for i, x := range shifted {
			states[i] = t.Apply(x, states[i])
		}
		return states
	}
	entry, ok := lookupCustomTheta(t)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrThetaNotFound, t))
	}
	for i, x := range shifted {
		states[i] = entry.fn(x, states[i])
	}
	return states
}

func resetThetaRegistryForTests() {
	thetaRegistry.mu.Lock()
	thetaRegistry.byName = make(map[string]Theta)
	thetaRegistry.custom = nil
	initializeBuiltInThetas()
	thetaRegistry.mu.Unlock()
}
