// Package automata provides elementary cellular automata whose cells may be
// wired to arbitrary neighbors, exposed through the same update contract as
// the threshold and logic networks.
package automata

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCode     = errors.New("invalid Wolfram code")
	ErrInvalidBoundary = errors.New("invalid boundary condition")
)

// ECA is an elementary cellular automaton rule. A nil Boundary means the
// lattice wraps around.
type ECA struct {
	Code     int
	Boundary *[2]int
}

// NewECA validates an 8-bit Wolfram code and an optional fixed boundary
// given as the pair of left and right ghost cell states.
func NewECA(code int, boundary []int) (ECA, error) {
	if code < 0 || code > 255 {
		return ECA{}, fmt.Errorf("%w: %d is not in [0, 255]", ErrInvalidCode, code)
	}
	if boundary == nil {
		return ECA{Code: code}, nil
	}
	if len(boundary) != 2 {
		return ECA{}, fmt.Errorf("%w: expected a pair of states, got %d", ErrInvalidBoundary, len(boundary))
	}
	for _, b := range boundary {
		if b != 0 && b != 1 {
			return ECA{}, fmt.Errorf("%w: state %d is not binary", ErrInvalidBoundary, b)
		}
	}
	return ECA{Code: code, Boundary: &[2]int{boundary[0], boundary[1]}}, nil
}

// Rule returns the next center state for a left/center/right neighborhood.
func (e ECA) Rule(left, center, right int) int {
	return (e.Code >> (4*left + 2*center + right)) & 1
}
