package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boolnet/internal/network"
)

func TestNewRewiredECA(t *testing.T) {
	net, err := NewRewiredECA(RewiredConfig{Code: 23, Size: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, net.Size())
	assert.Equal(t, [][]int{{-1, 0, 1}, {0, 1, 2}, {1, 2, 3}}, net.Wiring())

	net, err = NewRewiredECA(RewiredConfig{Code: 30, Wiring: [][]int{{-1, 0, 1}, {0, 1, 2}, {1, 2, 0}}})
	require.NoError(t, err)
	assert.Equal(t, 3, net.Size())
	assert.Nil(t, net.Boundary)
}

func TestNewRewiredECAInvalidCode(t *testing.T) {
	for _, code := range []int{-1, 256} {
		_, err := NewRewiredECA(RewiredConfig{Code: code, Size: 3})
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
}

func TestNewRewiredECAInvalidBoundary(t *testing.T) {
	for _, boundary := range [][]int{{1, 0, 1}, {1, 2}, {}} {
		_, err := NewRewiredECA(RewiredConfig{Code: 30, Boundary: boundary, Size: 3})
		assert.ErrorIs(t, err, ErrInvalidBoundary, "boundary %v", boundary)
	}
}

func TestNewRewiredECAInvalidSize(t *testing.T) {
	_, err := NewRewiredECA(RewiredConfig{Code: 30, Size: -1})
	assert.ErrorIs(t, err, network.ErrInvalidSize)

	_, err = NewRewiredECA(RewiredConfig{Code: 30, Size: 0})
	assert.ErrorIs(t, err, ErrInvalidWiring)
}

func TestNewRewiredECASizeAndWiring(t *testing.T) {
	_, err := NewRewiredECA(RewiredConfig{Code: 30, Size: 3, Wiring: [][]int{}})
	assert.ErrorIs(t, err, ErrInvalidWiring)

	_, err = NewRewiredECA(RewiredConfig{Code: 30})
	assert.ErrorIs(t, err, ErrInvalidWiring)

	_, err = NewRewiredECA(RewiredConfig{Code: 30, Boundary: []int{0, 0}})
	assert.ErrorIs(t, err, ErrInvalidWiring)
}

func TestNewRewiredECAInvalidWiring(t *testing.T) {
	tests := map[string][][]int{
		"rows":    {{0, 1}, {0, 1}},
		"empty":   {{}, {}, {}},
		"ragged":  {{-1, 0, 1}, {0, 1}, {1, 2, 3}},
		"too-low": {{-2, 0, 1}, {0, 1, 2}, {1, 2, 3}},
		"too-big": {{-1, 0, 1}, {0, 1, 2}, {1, 2, 4}},
	}
	for name, wiring := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewRewiredECA(RewiredConfig{Code: 30, Wiring: wiring})
			assert.ErrorIs(t, err, ErrInvalidWiring)
		})
	}
}

func TestRewiredECAUpdate(t *testing.T) {
	periodic, err := NewRewiredECA(RewiredConfig{Code: 30, Size: 3})
	require.NoError(t, err)
	fixed, err := NewRewiredECA(RewiredConfig{Code: 30, Boundary: []int{1, 1}, Size: 3})
	require.NoError(t, err)
	shared, err := NewRewiredECA(RewiredConfig{Code: 30, Wiring: [][]int{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		net   *RewiredECA
		state []int
		opts  network.UpdateOptions
		want  []int
	}{
		{"periodic", periodic, []int{0, 1, 0}, network.UpdateOptions{}, []int{1, 1, 1}},
		{"periodic-pin", periodic, []int{1, 0, 0}, network.UpdateOptions{Pin: []int{-1}}, []int{1, 1, 0}},
		{"periodic-values", periodic, []int{0, 1, 0}, network.UpdateOptions{Values: map[int]int{0: 0}}, []int{0, 1, 1}},
		{"periodic-index", periodic, []int{0, 1, 0}, network.Single(2), []int{0, 1, 1}},
		{"fixed", fixed, []int{1, 0, 0}, network.UpdateOptions{}, []int{0, 1, 1}},
		{"shared-010", shared, []int{0, 1, 0}, network.UpdateOptions{}, []int{1, 1, 1}},
		{"shared-111", shared, []int{1, 1, 1}, network.UpdateOptions{}, []int{0, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.net.Update(tc.state, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, tc.state)
		})
	}
}

func TestRewiredECAUpdateErrors(t *testing.T) {
	net, err := NewRewiredECA(RewiredConfig{Code: 30, Size: 3})
	require.NoError(t, err)

	state := []int{0, 1, 0}
	_, err = net.Update(state, network.UpdateOptions{Index: new(int), Pin: []int{1}})
	assert.ErrorIs(t, err, network.ErrUsage)
	_, err = net.Update([]int{0, 1}, network.UpdateOptions{})
	assert.ErrorIs(t, err, network.ErrDomain)
	assert.Equal(t, []int{0, 1, 0}, state)
}

func TestRewiredECANeighbors(t *testing.T) {
	periodic, err := NewRewiredECA(RewiredConfig{Code: 30, Size: 4})
	require.NoError(t, err)
	in, err := periodic.NeighborsIn(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, in)
	out, err := periodic.NeighborsOut(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, out)

	fixed, err := NewRewiredECA(RewiredConfig{Code: 30, Boundary: []int{0, 0}, Size: 4})
	require.NoError(t, err)
	in, err = fixed.NeighborsIn(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, in)
	out, err = fixed.NeighborsOut(3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, out)

	shared, err := NewRewiredECA(RewiredConfig{Code: 30, Wiring: [][]int{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}})
	require.NoError(t, err)
	all, err := shared.Neighbors(1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, all)

	_, err = shared.Neighbors(5)
	assert.ErrorIs(t, err, network.ErrIndexRange)
}
