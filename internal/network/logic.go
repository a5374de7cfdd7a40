package network

import (
	"fmt"
	"slices"

	"boolnet/internal/statespace"
)

// maxLogicInputs bounds the fan-in of a single logic rule so that input
// combinations fit in an int code.
const maxLogicInputs = 30

// LogicEntry is the rule of one node: the node becomes 1 exactly when the
// joint states of Inputs match one of Conditions. Character j of a
// condition is the required state of Inputs[j].
type LogicEntry struct {
	Inputs     []int
	Conditions []string
}

type encodedRule struct {
	inputs []int
	accept map[int]struct{}
}

// LogicNetwork is a boolean network whose nodes are updated by truth tables
// over their declared inputs.
type LogicNetwork struct {
	Metadata map[string]any

	size    int
	names   []string
	table   []LogicEntry
	encoded []encodedRule
}

func NewLogicNetwork(table []LogicEntry, names []string) (*LogicNetwork, error) {
	size := len(table)
	if size == 0 {
		return nil, fmt.Errorf("%w: logic table must not be empty", ErrInvalidSize)
	}
	checked, err := checkNames(names, size)
	if err != nil {
		return nil, err
	}

	net := &LogicNetwork{
		Metadata: make(map[string]any),
		size:     size,
		names:    checked,
		table:    make([]LogicEntry, size),
		encoded:  make([]encodedRule, size),
	}
	for node, entry := range table {
		rule, err := encodeEntry(entry, size)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", node, err)
		}
		net.table[node] = LogicEntry{
			Inputs:     slices.Clone(entry.Inputs),
			Conditions: slices.Clone(entry.Conditions),
		}
		net.encoded[node] = rule
	}
	return net, nil
}

func encodeEntry(entry LogicEntry, size int) (encodedRule, error) {
	if len(entry.Inputs) > maxLogicInputs {
		return encodedRule{}, fmt.Errorf("%w: %d inputs exceeds the limit of %d", ErrInvalidShape, len(entry.Inputs), maxLogicInputs)
	}
	inputs := make([]int, len(entry.Inputs))
	for j, input := range entry.Inputs {
		i, err := CheckIndex(input, size)
		if err != nil {
			return encodedRule{}, err
		}
		inputs[j] = i
	}

	accept := make(map[int]struct{}, len(entry.Conditions))
	for _, condition := range entry.Conditions {
		if len(condition) != len(inputs) {
			return encodedRule{}, fmt.Errorf("%w: condition %q has %d states for %d inputs", ErrInvalidShape, condition, len(condition), len(inputs))
		}
		code := 0
		for j := len(condition) - 1; j >= 0; j-- {
			switch condition[j] {
			case '0':
				code <<= 1
			case '1':
				code = code<<1 | 1
			default:
				return encodedRule{}, fmt.Errorf("%w: condition %q contains a non-binary state", ErrDomain, condition)
			}
		}
		accept[code] = struct{}{}
	}
	return encodedRule{inputs: inputs, accept: accept}, nil
}

func (n *LogicNetwork) Size() int {
	return n.size
}

func (n *LogicNetwork) Names() []string {
	return slices.Clone(n.names)
}

// Table returns a copy of the logic rules.
func (n *LogicNetwork) Table() []LogicEntry {
	out := make([]LogicEntry, len(n.table))
	for i, entry := range n.table {
		out[i] = LogicEntry{Inputs: slices.Clone(entry.Inputs), Conditions: slices.Clone(entry.Conditions)}
	}
	return out
}

func (n *LogicNetwork) StateSpace() statespace.Space {
	space, _ := statespace.New(n.size)
	return space
}

func (n *LogicNetwork) Update(states []int, opts UpdateOptions) ([]int, error) {
	if err := ValidateUpdate(n.StateSpace(), states, opts); err != nil {
		return nil, err
	}
	return n.UnsafeUpdate(states, opts), nil
}

// UnsafeUpdate performs one update step in place without validating its
// arguments. All rules read the pre-update states.
func (n *LogicNetwork) UnsafeUpdate(states []int, opts UpdateOptions) []int {
	return UnsafeStep(n.size, n.evaluate, states, opts)
}

func (n *LogicNetwork) evaluate(node int, states []int) int {
	rule := n.encoded[node]
	code := 0
	for j := len(rule.inputs) - 1; j >= 0; j-- {
		code = code<<1 | (states[rule.inputs[j]] & 1)
	}
	if _, ok := rule.accept[code]; ok {
		return 1
	}
	return 0
}

func (n *LogicNetwork) NeighborsIn(index int) ([]int, error) {
	i, err := CheckIndex(index, n.size)
	if err != nil {
		return nil, err
	}
	in := slices.Clone(n.encoded[i].inputs)
	slices.Sort(in)
	return nonNil(slices.Compact(in)), nil
}

func (n *LogicNetwork) NeighborsOut(index int) ([]int, error) {
	i, err := CheckIndex(index, n.size)
	if err != nil {
		return nil, err
	}
	out := []int{}
	for node, rule := range n.encoded {
		if slices.Contains(rule.inputs, i) {
			out = append(out, node)
		}
	}
	return out, nil
}

func (n *LogicNetwork) Neighbors(index int) ([]int, error) {
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
