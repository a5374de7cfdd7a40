// Package network implements the synchronous state-update engine for
// binary-state dynamical networks: weight/threshold networks and logic
// networks share one update contract, with validated and unchecked entry
// points and structural neighbor queries.
package network

import (
	"errors"
	"fmt"
	"slices"

	"boolnet/internal/statespace"
)

var (
	ErrInvalidShape = errors.New("invalid network shape")
	ErrInvalidSize  = errors.New("invalid network size")
	ErrInvalidNames = errors.New("either all or none of the nodes may have a name")
	ErrInvalidTheta = errors.New("invalid threshold function")
	ErrUsage        = errors.New("invalid update arguments")
	ErrDomain       = errors.New("value outside the state space")
	ErrIndexRange   = errors.New("node index out of range")
	ErrDimension    = errors.New("state vector does not match network size")
)

// Network is the contract shared by every update rule representation.
//
// Update validates its arguments and returns an error before touching
// states. UnsafeUpdate skips all checks; a state vector of the wrong length
// panics with an error wrapping ErrDimension and an out-of-range index, pin
// or values key panics with a runtime bounds error.
//
// Both write through states and return the same slice.
type Network interface {
	Size() int
	Names() []string
	StateSpace() statespace.Space
	Update(states []int, opts UpdateOptions) ([]int, error)
	UnsafeUpdate(states []int, opts UpdateOptions) []int
	NeighborsIn(index int) ([]int, error)
	NeighborsOut(index int) ([]int, error)
	Neighbors(index int) ([]int, error)
}

// UpdateOptions modify a single update step. The zero value updates every
// node synchronously.
//
// Index selects a single node. Pin lists nodes that keep their pre-update
// value during a whole-network update. Values force nodes to the given
// states after everything else has run. Negative indices count from the end.
type UpdateOptions struct {
	Index  *int
	Pin    []int
	Values map[int]int
}

// Single returns options updating only the node at index.
func Single(index int) UpdateOptions {
	return UpdateOptions{Index: &index}
}

// normalizeIndex maps a negative index onto [0, size). It does not check the
// upper bound.
func normalizeIndex(index, size int) int {
	if index < 0 {
		return index + size
	}
	return index
}

// CheckIndex normalizes index and reports ErrIndexRange when it does not
// address a node.
func CheckIndex(index, size int) (int, error) {
	i := normalizeIndex(index, size)
	if i < 0 || i >= size {
		return 0, fmt.Errorf("%w: index %d for size %d", ErrIndexRange, index, size)
	}
	return i, nil
}

// ValidateUpdate runs every guard of the validated update path. It never
// modifies states.
func ValidateUpdate(space statespace.Space, states []int, opts UpdateOptions) error {
	size := space.Size()
	if len(states) != size {
		return fmt.Errorf("%w: incorrect number of states in array: got=%d want=%d", ErrDomain, len(states), size)
	}
	if !space.Contains(states) {
		return fmt.Errorf("%w: invalid node state in states", ErrDomain)
	}

	if opts.Index != nil {
		if len(opts.Pin) > 0 {
			return fmt.Errorf("%w: cannot provide both the index and pin arguments", ErrUsage)
		}
		if len(opts.Values) > 0 {
			return fmt.Errorf("%w: cannot provide both the index and values arguments", ErrUsage)
		}
		if _, err := CheckIndex(*opts.Index, size); err != nil {
			return err
		}
		return nil
	}

	pinned := make(map[int]struct{}, len(opts.Pin))
	for _, p := range opts.Pin {
		i, err := CheckIndex(p, size)
		if err != nil {
			return err
		}
		pinned[i] = struct{}{}
	}
	for key, value := range opts.Values {
		i, err := CheckIndex(key, size)
		if err != nil {
			return err
		}
		if _, ok := pinned[i]; ok {
			return fmt.Errorf("%w: cannot set a value for a pinned state (node %d)", ErrUsage, key)
		}
		if value != 0 && value != 1 {
			return fmt.Errorf("%w: invalid state %d in values argument", ErrDomain, value)
		}
	}
	return nil
}

func checkDimension(states []int, size int) {
	if len(states) != size {
		panic(fmt.Errorf("%w: got=%d want=%d", ErrDimension, len(states), size))
	}
}

// NodeRule computes the next state of one node from the pre-update states.
type NodeRule func(node int, states []int) int

// UnsafeStep is the update skeleton for rules evaluated node by node. A
// whole-network step evaluates every node against the pre-update states
// before writing any of them back. Arguments are not validated.
func UnsafeStep(size int, rule NodeRule, states []int, opts UpdateOptions) []int {
	checkDimension(states, size)

	if opts.Index == nil {
		pinned := snapshotPins(states, opts.Pin)
		next := make([]int, size)
		for i := range next {
			next[i] = rule(i, states)
		}
		copy(states, next)
		restorePins(states, opts.Pin, pinned)
	} else {
		i := normalizeIndex(*opts.Index, size)
		states[i] = rule(i, states)
	}

	applyValues(states, opts.Values)
	return states
}

// Union merges two sorted index sets.
func Union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}

// snapshotPins records the current value of each pinned node.
func snapshotPins(states []int, pin []int) []int {
	if len(pin) == 0 {
		return nil
	}
	size := len(states)
	pinned := make([]int, len(pin))
	for j, p := range pin {
		pinned[j] = states[normalizeIndex(p, size)]
	}
	return pinned
}

func restorePins(states []int, pin []int, pinned []int) {
	size := len(states)
	for j, p := range pin {
		states[normalizeIndex(p, size)] = pinned[j]
	}
}

func applyValues(states []int, values map[int]int) {
	size := len(states)
	for key, value := range values {
		states[normalizeIndex(key, size)] = value
	}
}

func checkNames(names []string, size int) ([]string, error) {
	if names == nil {
		return nil, nil
	}
	if len(names) != size {
		return nil, fmt.Errorf("%w: got %d names for %d nodes", ErrInvalidNames, len(names), size)
	}
	return slices.Clone(names), nil
}

func withSelf(set []int, index int) []int {
	return Union(set, []int{index})
}
