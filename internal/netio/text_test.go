package netio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boolnet/internal/network"
)

const toyNodes = `# toy network
A  0.5
B  -0.5

  # indented comment
C  0
`

const toyEdges = `# source target weight
A B 1
C B -2
B C 1
`

func TestReadWTNetwork(t *testing.T) {
	net, err := ReadWTNetwork(strings.NewReader(toyNodes), strings.NewReader(toyEdges))
	require.NoError(t, err)

	assert.Equal(t, 3, net.Size())
	assert.Equal(t, []string{"A", "B", "C"}, net.Names())
	assert.Equal(t, []float64{0.5, -0.5, 0}, net.Thresholds)
	assert.Equal(t, [][]float64{{0, 0, 0}, {1, 0, -2}, {0, 1, 0}}, net.Weights)
	assert.Equal(t, network.Split, net.Theta)
}

func TestReadWTNetworkFiles(t *testing.T) {
	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "toy-nodes.txt")
	edgesPath := filepath.Join(dir, "toy-edges.txt")
	require.NoError(t, os.WriteFile(nodesPath, []byte(toyNodes), 0o600))
	require.NoError(t, os.WriteFile(edgesPath, []byte(toyEdges), 0o600))

	net, err := ReadWTNetworkFiles(nodesPath, edgesPath)
	require.NoError(t, err)
	assert.Equal(t, 3, net.Size())
	assert.Equal(t, []string{"A", "B", "C"}, net.Names())

	_, err = ReadWTNetworkFiles(filepath.Join(dir, "missing.txt"), edgesPath)
	assert.Error(t, err)
}

func TestReadWTNetworkNormalizesNames(t *testing.T) {
	nodes := "Café 1\n"
	edges := "Café Café 1\n"
	net, err := ReadWTNetwork(strings.NewReader(nodes), strings.NewReader(edges))
	require.NoError(t, err)
	assert.Equal(t, []string{"Café"}, net.Names())
	assert.Equal(t, [][]float64{{1}}, net.Weights)
}

func TestReadWTNetworkErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes string
		edges string
	}{
		{name: "fields", nodes: "A\n", edges: ""},
		{name: "threshold", nodes: "A x\n", edges: ""},
		{name: "duplicate", nodes: "A 0\nA 1\n", edges: ""},
		{name: "unknown-source", nodes: "A 0\n", edges: "B A 1\n"},
		{name: "unknown-target", nodes: "A 0\n", edges: "A B 1\n"},
		{name: "weight", nodes: "A 0\n", edges: "A A w\n"},
		{name: "edge-fields", nodes: "A 0\n", edges: "A A\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadWTNetwork(strings.NewReader(tc.nodes), strings.NewReader(tc.edges))
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}

	_, err := ReadWTNetwork(strings.NewReader("# nothing\n"), strings.NewReader(""))
	assert.ErrorIs(t, err, network.ErrInvalidSize)
}

func TestWriteWTNetworkRoundTrip(t *testing.T) {
	net, err := ReadWTNetwork(strings.NewReader(toyNodes), strings.NewReader(toyEdges))
	require.NoError(t, err)

	var nodes, edges bytes.Buffer
	require.NoError(t, WriteWTNetwork(net, &nodes, &edges))
	assert.Equal(t, "A\t0.5\nB\t-0.5\nC\t0\n", nodes.String())

	again, err := ReadWTNetwork(&nodes, &edges)
	require.NoError(t, err)
	assert.Equal(t, net.Names(), again.Names())
	assert.Equal(t, net.Weights, again.Weights)
	assert.Equal(t, net.Thresholds, again.Thresholds)
}

func TestWriteWTNetworkUnnamed(t *testing.T) {
	net, err := network.NewWTNetwork(network.WTConfig{Weights: [][]float64{{0, 1}, {0, 0}}})
	require.NoError(t, err)

	var nodes, edges bytes.Buffer
	require.NoError(t, WriteWTNetwork(net, &nodes, &edges))
	assert.Equal(t, "0\t0\n1\t0\n", nodes.String())
	assert.Equal(t, "1\t0\t1\n", edges.String())
}
