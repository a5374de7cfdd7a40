// Package graph exports the dependency structure of a network as a directed
// graph whose nodes are labeled by index or by name.
package graph

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"boolnet/internal/network"
)

var ErrNoNames = errors.New("network nodes do not have names")

type Labels string

const (
	LabelIndices Labels = "indices"
	LabelNames   Labels = "names"
)

type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph is a directed graph with an edge from every node to each of its out
// neighbors.
type Graph struct {
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []string `json:"nodes" yaml:"nodes"`
	Edges []Edge   `json:"edges" yaml:"edges"`
}

// FromNetwork builds the graph of net. name is carried through verbatim,
// typically the "name" metadata entry of the network.
func FromNetwork(net network.Network, labels Labels, name string) (Graph, error) {
	var nodes []string
	switch labels {
	case LabelNames:
		nodes = net.Names()
		if nodes == nil {
			return Graph{}, ErrNoNames
		}
	case LabelIndices, "":
		nodes = make([]string, net.Size())
		for i := range nodes {
			nodes[i] = strconv.Itoa(i)
		}
	default:
		return Graph{}, fmt.Errorf("labels must be %q or %q, got %q", LabelNames, LabelIndices, labels)
	}

	g := Graph{Name: name, Nodes: nodes, Edges: []Edge{}}
	for i := range nodes {
		out, err := net.NeighborsOut(i)
		if err != nil {
			return Graph{}, err
		}
		for _, j := range out {
			g.Edges = append(g.Edges, Edge{From: nodes[i], To: nodes[j]})
		}
	}
	return g, nil
}

// MetadataName extracts the "name" metadata entry when it is a string.
func MetadataName(metadata map[string]any) string {
	name, _ := metadata["name"].(string)
	return name
}

// Successors returns the out-edges of node in edge order.
func (g Graph) Successors(node string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == node {
			out = append(out, e.To)
		}
	}
	return out
}

// WriteDOT renders g in Graphviz DOT syntax.
func (g Graph) WriteDOT(w io.Writer) error {
	name := g.Name
	if name == "" {
		name = "network"
	}
	if _, err := fmt.Fprintf(w, "digraph %s {\n", strconv.Quote(name)); err != nil {
		return err
	}
	for _, node := range g.Nodes {
		if _, err := fmt.Fprintf(w, "  %s;\n", strconv.Quote(node)); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		if _, err := fmt.Fprintf(w, "  %s -> %s;\n", strconv.Quote(e.From), strconv.Quote(e.To)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}
