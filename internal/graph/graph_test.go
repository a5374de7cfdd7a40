package graph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boolnet/internal/network"
)

func testNetwork(t *testing.T, names []string) *network.WTNetwork {
	t.Helper()
	net, err := network.NewWTNetwork(network.WTConfig{
		Weights: [][]float64{{0, 0, 0}, {1, 0, 1}, {0, 1, 0}},
		Names:   names,
		Theta:   network.Negative,
	})
	require.NoError(t, err)
	return net
}

func TestFromNetworkIndices(t *testing.T) {
	net := testNetwork(t, nil)
	net.Metadata["name"] = "toy"

	g, err := FromNetwork(net, LabelIndices, MetadataName(net.Metadata))
	require.NoError(t, err)
	assert.Equal(t, "toy", g.Name)
	assert.Equal(t, []string{"0", "1", "2"}, g.Nodes)
	assert.Equal(t, []Edge{{"0", "1"}, {"1", "2"}, {"2", "1"}}, g.Edges)
	assert.Equal(t, []string{"2"}, g.Successors("1"))
}

func TestFromNetworkNames(t *testing.T) {
	net := testNetwork(t, []string{"A", "B", "C"})
	net.Theta = network.Split

	g, err := FromNetwork(net, LabelNames, "")
	require.NoError(t, err)
	assert.Empty(t, g.Name)
	assert.Equal(t, []Edge{
		{"A", "A"}, {"A", "B"},
		{"B", "B"}, {"B", "C"},
		{"C", "B"}, {"C", "C"},
	}, g.Edges)
}

func TestFromNetworkErrors(t *testing.T) {
	net := testNetwork(t, nil)

	_, err := FromNetwork(net, LabelNames, "")
	assert.ErrorIs(t, err, ErrNoNames)

	_, err = FromNetwork(net, Labels("colors"), "")
	assert.Error(t, err)
}

func TestWriteDOT(t *testing.T) {
	g := Graph{Name: "toy", Nodes: []string{"A", "B"}, Edges: []Edge{{"A", "B"}, {"B", "B"}}}

	var buf bytes.Buffer
	require.NoError(t, g.WriteDOT(&buf))
	assert.Equal(t, "digraph \"toy\" {\n  \"A\";\n  \"B\";\n  \"A\" -> \"B\";\n  \"B\" -> \"B\";\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, Graph{Nodes: []string{"0"}}.WriteDOT(&buf))
	assert.Equal(t, "digraph \"network\" {\n  \"0\";\n}\n", buf.String())
}
