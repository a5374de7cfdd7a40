package network

import (
	"fmt"
	"slices"

	"boolnet/internal/statespace"
)

// WTNetwork is a weight/threshold boolean network. Weights[row][col] is the
// influence of source node col on target node row.
//
// Weights, Thresholds, Theta and Metadata may be reassigned after
// construction; they are not revalidated.
type WTNetwork struct {
	Weights    [][]float64
	Thresholds []float64
	Theta      Theta
	Metadata   map[string]any

	size  int
	names []string
}

// WTConfig describes a weight/threshold network. Thresholds default to zero
// and Theta defaults to Split.
type WTConfig struct {
	Weights    [][]float64
	Thresholds []float64
	Names      []string
	Theta      Theta
}

// NewWTNetwork validates cfg and builds a network that owns copies of the
// weights, thresholds and names.
func NewWTNetwork(cfg WTConfig) (*WTNetwork, error) {
	size := len(cfg.Weights)
	if size == 0 {
		return nil, fmt.Errorf("%w: weights must be a non-empty matrix", ErrInvalidShape)
	}
	weights := make([][]float64, size)
	for i, row := range cfg.Weights {
		if len(row) != size {
			return nil, fmt.Errorf("%w: weights must be square: row %d has %d columns, want %d", ErrInvalidShape, i, len(row), size)
		}
		weights[i] = slices.Clone(row)
	}

	thresholds := make([]float64, size)
	if cfg.Thresholds != nil {
		if len(cfg.Thresholds) != size {
			return nil, fmt.Errorf("%w: weights and thresholds have different dimensions: %d and %d", ErrInvalidShape, size, len(cfg.Thresholds))
		}
		copy(thresholds, cfg.Thresholds)
	}

	names, err := checkNames(cfg.Names, size)
	if err != nil {
		return nil, err
	}
	if !cfg.Theta.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTheta, cfg.Theta)
	}

	return &WTNetwork{
		Weights:    weights,
		Thresholds: thresholds,
		Theta:      cfg.Theta,
		Metadata:   make(map[string]any),
		size:       size,
		names:      names,
	}, nil
}

// NewEmptyWTNetwork builds a size-node network with all-zero weights and
// thresholds.
func NewEmptyWTNetwork(size int) (*WTNetwork, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	weights := make([][]float64, size)
	for i := range weights {
		weights[i] = make([]float64, size)
	}
	return NewWTNetwork(WTConfig{Weights: weights})
}

func (n *WTNetwork) Size() int {
	return n.size
}

// Names returns the node labels, or nil when the nodes are unnamed.
func (n *WTNetwork) Names() []string {
	return slices.Clone(n.names)
}

func (n *WTNetwork) StateSpace() statespace.Space {
	space, _ := statespace.New(n.size)
	return space
}

// Update checks states and opts, then performs one update step in place.
// Nothing is written when an error is returned.
func (n *WTNetwork) Update(states []int, opts UpdateOptions) ([]int, error) {
	if err := ValidateUpdate(n.StateSpace(), states, opts); err != nil {
		return nil, err
	}
	return n.UnsafeUpdate(states, opts), nil
}

// UnsafeUpdate performs one update step in place without validating its
// arguments.
//
// Every shifted value W·s − θ is computed from the pre-update states before
// any entry is written, so a whole-network update is synchronous.
func (n *WTNetwork) UnsafeUpdate(states []int, opts UpdateOptions) []int {
	checkDimension(states, n.size)

	if opts.Index == nil {
		pinned := snapshotPins(states, opts.Pin)
		shifted := make([]float64, n.size)
		for i := range shifted {
			shifted[i] = dot(n.Weights[i], states) - n.Thresholds[i]
		}
		n.Theta.ApplyAll(shifted, states)
		restorePins(states, opts.Pin, pinned)
	} else {
		i := normalizeIndex(*opts.Index, n.size)
		shifted := dot(n.Weights[i], states) - n.Thresholds[i]
		states[i] = n.Theta.Apply(shifted, states[i])
	}

	applyValues(states, opts.Values)
	return states
}

func dot(row []float64, states []int) float64 {
	sum := 0.0
	for j, w := range row {
		if w != 0 {
			sum += w * float64(states[j])
		}
	}
	return sum
}

// NeighborsIn returns the sorted indices with a nonzero weight into index.
// Unless the threshold function is memoryless, index itself is included.
func (n *WTNetwork) NeighborsIn(index int) ([]int, error) {
	i, err := CheckIndex(index, n.size)
	if err != nil {
		return nil, err
	}
	var in []int
	for j, w := range n.Weights[i] {
		if w != 0 {
			in = append(in, j)
		}
	}
	if !n.Theta.Memoryless() {
		return withSelf(in, i), nil
	}
	return nonNil(in), nil
}

// NeighborsOut returns the sorted indices that index has a nonzero weight
// into. Unless the threshold function is memoryless, index itself is included.
func (n *WTNetwork) NeighborsOut(index int) ([]int, error) {
	i, err := CheckIndex(index, n.size)
	if err != nil {
		return nil, err
	}
	var out []int
	for row := range n.Weights {
		if n.Weights[row][i] != 0 {
			out = append(out, row)
		}
	}
	if !n.Theta.Memoryless() {
		return withSelf(out, i), nil
	}
	return nonNil(out), nil
}

func (n *WTNetwork) Neighbors(index int) ([]int, error) {
	in, err := n.NeighborsIn(index)
	if err != nil {
		return nil, err
	}
	out, err := n.NeighborsOut(index)
	if err != nil {
		return nil, err
	}
	return Union(in, out), nil
}

func nonNil(set []int) []int {
	if set == nil {
		return []int{}
	}
	return set
}
