package automata

import (
	"errors"
	"fmt"
	"slices"

	"boolnet/internal/network"
	"boolnet/internal/statespace"
)

var ErrInvalidWiring = errors.New("invalid wiring")

// RewiredConfig describes a rewired automaton. Exactly one of Size and
// Wiring must be set. Wiring has three rows (left, center, right source of
// each cell); -1 and the lattice size address the left and right boundary.
type RewiredConfig struct {
	Code     int
	Boundary []int
	Size     int
	Wiring   [][]int
}

// RewiredECA is an elementary cellular automaton on an arbitrary topology.
type RewiredECA struct {
	ECA

	size   int
	wiring [3][]int
}

var _ network.Network = (*RewiredECA)(nil)

func NewRewiredECA(cfg RewiredConfig) (*RewiredECA, error) {
	eca, err := NewECA(cfg.Code, cfg.Boundary)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Size != 0 && cfg.Wiring != nil:
		return nil, fmt.Errorf("%w: cannot provide size and wiring at the same time", ErrInvalidWiring)
	case cfg.Wiring != nil:
		return newWired(eca, cfg.Wiring)
	case cfg.Size < 0:
		return nil, fmt.Errorf("%w: size must be positive, got %d", network.ErrInvalidSize, cfg.Size)
	case cfg.Size > 0:
		return &RewiredECA{ECA: eca, size: cfg.Size, wiring: DefaultWiring(cfg.Size)}, nil
	default:
		return nil, fmt.Errorf("%w: either size or wiring must be provided", ErrInvalidWiring)
	}
}

// DefaultWiring connects every cell to its lattice neighbors.
func DefaultWiring(size int) [3][]int {
	var wiring [3][]int
	for row := range wiring {
		wiring[row] = make([]int, size)
		for i := range wiring[row] {
			wiring[row][i] = i + row - 1
		}
	}
	return wiring
}

func newWired(eca ECA, wiring [][]int) (*RewiredECA, error) {
	if len(wiring) != 3 {
		return nil, fmt.Errorf("%w: expected 3 rows, got %d", ErrInvalidWiring, len(wiring))
	}
	size := len(wiring[0])
	if size == 0 {
		return nil, fmt.Errorf("%w: wiring must have at least one column", ErrInvalidWiring)
	}
	net := &RewiredECA{ECA: eca, size: size}
	for row, sources := range wiring {
		if len(sources) != size {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidWiring, row, len(sources), size)
		}
		for _, src := range sources {
			if src < -1 || src > size {
				return nil, fmt.Errorf("%w: source %d outside [-1, %d]", ErrInvalidWiring, src, size)
			}
		}
		net.wiring[row] = slices.Clone(sources)
	}
	return net, nil
}

func (r *RewiredECA) Size() int {
	return r.size
}

func (r *RewiredECA) Names() []string {
	return nil
}

// Wiring returns a copy of the wiring matrix.
func (r *RewiredECA) Wiring() [][]int {
	out := make([][]int, len(r.wiring))
	for i, row := range r.wiring {
		out[i] = slices.Clone(row)
	}
	return out
}

func (r *RewiredECA) StateSpace() statespace.Space {
	space, _ := statespace.New(r.size)
	return space
}

func (r *RewiredECA) Update(states []int, opts network.UpdateOptions) ([]int, error) {
	if err := network.ValidateUpdate(r.StateSpace(), states, opts); err != nil {
		return nil, err
	}
	return r.UnsafeUpdate(states, opts), nil
}

func (r *RewiredECA) UnsafeUpdate(states []int, opts network.UpdateOptions) []int {
	return network.UnsafeStep(r.size, r.next, states, opts)
}

func (r *RewiredECA) next(cell int, states []int) int {
	return r.Rule(
		r.source(r.wiring[0][cell], states),
		r.source(r.wiring[1][cell], states),
		r.source(r.wiring[2][cell], states),
	)
}

// source reads a wired cell, resolving the boundary slots -1 and size.
func (r *RewiredECA) source(src int, states []int) int {
	switch src {
	case -1:
		if r.Boundary != nil {
			return r.Boundary[0]
		}
		return states[r.size-1]
	case r.size:
		if r.Boundary != nil {
			return r.Boundary[1]
		}
		return states[0]
	}
	return states[src]
}

// resolve maps a wiring entry to a cell index, or -1 for a fixed boundary.
func (r *RewiredECA) resolve(src int) int {
	switch src {
	case -1:
		if r.Boundary != nil {
			return -1
		}
		return r.size - 1
	case r.size:
		if r.Boundary != nil {
			return -1
		}
		return 0
	}
	return src
}

// NeighborsIn returns the cells read when updating index. Fixed boundary
// slots are not cells and are left out.
func (r *RewiredECA) NeighborsIn(index int) ([]int, error) {
	i, err := network.CheckIndex(index, r.size)
	if err != nil {
		return nil, err
	}
	in := make([]int, 0, 3)
	for _, row := range r.wiring {
		if src := r.resolve(row[i]); src >= 0 {
			in = append(in, src)
		}
	}
	slices.Sort(in)
	return slices.Compact(in), nil
}

func (r *RewiredECA) NeighborsOut(index int) ([]int, error) {
	i, err := network.CheckIndex(index, r.size)
	if err != nil {
		return nil, err
	}
	out := []int{}
	for cell := 0; cell < r.size; cell++ {
		for _, row := range r.wiring {
			if r.resolve(row[cell]) == i {
				out = append(out, cell)
				break
			}
		}
	}
	return out, nil
}

func (r *RewiredECA) Neighbors(index int) ([]int, error) {
	in, err := r.NeighborsIn(index)
	if err != nil {
		return nil, err
	}
	out, err := r.NeighborsOut(index)
	if err != nil {
		return nil, err
	}
	return network.Union(in, out), nil
}
