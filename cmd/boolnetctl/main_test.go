package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runForTests(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRootCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"update", "neighbors", "states", "graph", "simulate", "import", "list", "show", "delete"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "log-level", "format", "store", "db-path"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
}

func TestUpdateCommand(t *testing.T) {
	out, err := runForTests(t, "update", "--model", "s_pombe", "--state", "000010000")
	require.NoError(t, err)
	assert.Equal(t, "000000001\n", out)

	out, err = runForTests(t, "update", "--model", "s_pombe", "--state", "0,0,0,0,0,0,0,0,1", "--pin", "1,2", "--value", "3=0")
	require.NoError(t, err)
	assert.Equal(t, "000000100\n", out)

	out, err = runForTests(t, "update", "--format", "json", "--model", "s_pombe", "--state", "000000001", "--index", "-1")
	require.NoError(t, err)
	var decoded map[string][]int
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, decoded["state"])
}

func TestUpdateCommandErrors(t *testing.T) {
	_, err := runForTests(t, "update", "--model", "s_pombe", "--state", "0000")
	assert.ErrorContains(t, err, "state space")

	_, err = runForTests(t, "update", "--model", "s_pombe")
	assert.ErrorContains(t, err, "state")

	_, err = runForTests(t, "update", "--format", "xml", "--model", "s_pombe", "--state", "000010000")
	assert.ErrorContains(t, err, "invalid format")

	_, err = runForTests(t, "update", "--store", "redis", "--model", "s_pombe", "--state", "000010000")
	assert.ErrorContains(t, err, "invalid store kind")
}

func TestNeighborsCommand(t *testing.T) {
	out, err := runForTests(t, "neighbors", "--model", "s_pombe", "--index", "2", "--direction", "out")
	require.NoError(t, err)
	assert.Equal(t, "1 2 5\n", out)

	out, err = runForTests(t, "neighbors", "--model", "s_pombe", "--index", "-1", "--direction", "in")
	require.NoError(t, err)
	assert.Equal(t, "4 8\n", out)
}

func TestStatesCommand(t *testing.T) {
	out, err := runForTests(t, "states", "--model", "s_pombe")
	require.NoError(t, err)
	assert.Equal(t, "size\t9\nstates\t512\n", out)

	spec := filepath.Join(t.TempDir(), "pair.yaml")
	require.NoError(t, os.WriteFile(spec, []byte("weights: [[0, 1], [1, 0]]\n"), 0o600))
	out, err = runForTests(t, "states", "--yaml", spec, "--list")
	require.NoError(t, err)
	assert.Equal(t, "size\t2\nstates\t4\n00\n10\n01\n11\n", out)
}

func TestGraphCommand(t *testing.T) {
	out, err := runForTests(t, "graph", "--model", "s_pombe", "--labels", "names")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph \"s_pombe\" {\n"), out)
	assert.Contains(t, out, "\"Cdc25\" -> \"Cdc2_Cdc13_active\";")

	out, err = runForTests(t, "graph", "--format", "json", "--model", "s_pombe")
	require.NoError(t, err)
	var decoded struct {
		Name  string   `json:"name"`
		Nodes []string `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "s_pombe", decoded.Name)
	assert.Len(t, decoded.Nodes, 9)
}

func TestSimulateCommand(t *testing.T) {
	out, err := runForTests(t, "simulate", "--model", "s_pombe", "--state", "000010000", "--steps", "2")
	require.NoError(t, err)
	assert.Equal(t, "0\t000010000\n1\t000000001\n2\t011100100\n", out)

	out, err = runForTests(t, "simulate", "--model", "s_pombe", "--state", "001100100", "--attractor")
	require.NoError(t, err)
	assert.Equal(t, "0\t001100100\n# fixed point of length 1 entered at step 0\n", out)
}

func TestStoredNetworkWorkflow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "boolnet.bolt")
	store := []string{"--store", "bolt", "--db-path", dbPath}

	out, err := runForTests(t, append([]string{"import", "--model", "s_pombe"}, store...)...)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 4)
	assert.Equal(t, "imported", fields[0])
	id := fields[1]

	out, err = runForTests(t, append([]string{"list"}, store...)...)
	require.NoError(t, err)
	assert.Equal(t, id+"\tweighted\t9\ts_pombe\n", out)

	out, err = runForTests(t, append([]string{"simulate", "--id", id, "--state", "000010000", "--attractor", "--save"}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "# cycle of length 3 entered at step 6\n")
	assert.Contains(t, out, "# saved trajectory ")

	out, err = runForTests(t, append([]string{"show", id}, store...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: weighted\n")
	assert.Contains(t, out, "name: s_pombe\n")
	assert.Contains(t, out, ": 9 states, saved ")

	out, err = runForTests(t, append([]string{"update", "--id", id, "--state", "000010000"}, store...)...)
	require.NoError(t, err)
	assert.Equal(t, "000000001\n", out)

	out, err = runForTests(t, append([]string{"delete", id}, store...)...)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+id+"\n", out)

	_, err = runForTests(t, append([]string{"show", id}, store...)...)
	assert.ErrorContains(t, err, "not found")
}

func TestConfigFileSelectsStore(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "boolnet.yaml")
	dbPath := filepath.Join(dir, "boolnet.bolt")
	require.NoError(t, os.WriteFile(configPath, []byte("store:\n  kind: bolt\n  path: "+dbPath+"\n"), 0o600))

	_, err := runForTests(t, "import", "--config", configPath, "--model", "s_pombe")
	require.NoError(t, err)

	out, err := runForTests(t, "list", "--config", configPath, "--format", "json")
	require.NoError(t, err)
	var networks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &networks))
	require.Len(t, networks, 1)
	assert.Equal(t, "s_pombe", networks[0]["name"])
}
